package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jobwatchhq/jobwatch/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis spins up a Redis container and returns a connected RedisCache + cleanup.
func setupRedis(t *testing.T) *cache.RedisCache {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, container.Terminate(ctx)) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	redisURL := "redis://" + host + ":" + port.Port()
	rc, err := cache.NewRedisCache(redisURL)
	require.NoError(t, err)

	return rc
}

func TestPing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)
	err := rc.Ping(context.Background())
	assert.NoError(t, err)
}

func TestSetGet_Roundtrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)
	ctx := context.Background()

	err := rc.Set(ctx, "test:key", []byte("hello"), 10*time.Second)
	require.NoError(t, err)

	val, found, err := rc.Get(ctx, "test:key")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("hello"), val)
}

func TestGet_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)

	val, found, err := rc.Get(context.Background(), "nonexistent:key")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, val)
}

func TestDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, rc.Set(ctx, "del:key", []byte("bye"), 10*time.Second))

	err := rc.Delete(ctx, "del:key")
	require.NoError(t, err)

	_, found, err := rc.Get(ctx, "del:key")
	require.NoError(t, err)
	assert.False(t, found)
}

// --- Notified set ---

func TestFilterNotified_AllFresh(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)
	ctx := context.Background()
	alertID := uuid.New()

	urls := []string{"https://example.com/a", "https://example.com/b"}
	fresh, err := rc.FilterNotified(ctx, alertID, urls)
	require.NoError(t, err)
	assert.Equal(t, urls, fresh)
}

func TestMarkNotified_ThenFiltered(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)
	ctx := context.Background()
	alertID := uuid.New()

	urls := []string{"https://example.com/a", "https://example.com/b", "https://example.com/c"}
	require.NoError(t, rc.MarkNotified(ctx, alertID, urls[:2], time.Minute))

	fresh, err := rc.FilterNotified(ctx, alertID, urls)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/c"}, fresh)
}

func TestMarkNotified_ScopedPerAlert(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)
	ctx := context.Background()

	urls := []string{"https://example.com/a"}
	require.NoError(t, rc.MarkNotified(ctx, uuid.New(), urls, time.Minute))

	// A different alert has its own set.
	fresh, err := rc.FilterNotified(ctx, uuid.New(), urls)
	require.NoError(t, err)
	assert.Equal(t, urls, fresh)
}

func TestMarkNotified_EmptyIsNoop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)

	err := rc.MarkNotified(context.Background(), uuid.New(), nil, time.Minute)
	assert.NoError(t, err)
}

func TestIncrWithExpiry(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)
	ctx := context.Background()
	key := "ratelimit:test:" + uuid.NewString()[:8]

	val, err := rc.IncrWithExpiry(ctx, key, 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), val)

	val, err = rc.IncrWithExpiry(ctx, key, 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(2), val)
}

// --- Cache Key Builders ---

func TestNotifiedSetKey(t *testing.T) {
	alertID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	key := cache.NotifiedSetKey(alertID)
	assert.Equal(t, "alert:notified:11111111-1111-1111-1111-111111111111", key)
}

func TestRateLimitKey(t *testing.T) {
	key := cache.RateLimitKey("jw_abcd1234")
	assert.Equal(t, "ratelimit:jw_abcd1234", key)
}

func TestSearchResultKey(t *testing.T) {
	key := cache.SearchResultKey("querydigest42")
	assert.Equal(t, "search:querydigest42", key)
}

func TestKeyBuilders_NonColliding(t *testing.T) {
	alertID := uuid.New()

	keys := map[string]bool{
		cache.NotifiedSetKey(alertID):       true,
		cache.RateLimitKey("jw_prefix"):     true,
		cache.SearchResultKey("somedigest"): true,
	}
	assert.Len(t, keys, 3, "all keys should be unique")
}
