package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jobwatchhq/jobwatch/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockMailer struct {
	sendErr    error
	calls      int
	recipient  string
	subject    string
	lastBody   string
}

func (m *mockMailer) Send(_ context.Context, recipient, subject, htmlBody string) error {
	m.calls++
	m.recipient = recipient
	m.subject = subject
	m.lastBody = htmlBody
	return m.sendErr
}

// mockCache implements cache.Cache with an in-memory notified set.
type mockCache struct {
	notified  map[string]bool
	filterErr error
	markErr   error
	marked    []string
}

func newMockCache() *mockCache {
	return &mockCache{notified: make(map[string]bool)}
}

func (m *mockCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (m *mockCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (m *mockCache) Delete(context.Context, string) error                     { return nil }
func (m *mockCache) Ping(context.Context) error                               { return nil }
func (m *mockCache) IncrWithExpiry(context.Context, string, time.Duration) (int64, error) {
	return 0, nil
}

func (m *mockCache) MarkNotified(_ context.Context, _ uuid.UUID, urls []string, _ time.Duration) error {
	if m.markErr != nil {
		return m.markErr
	}
	for _, u := range urls {
		m.notified[u] = true
	}
	m.marked = append(m.marked, urls...)
	return nil
}

func (m *mockCache) FilterNotified(_ context.Context, _ uuid.UUID, urls []string) ([]string, error) {
	if m.filterErr != nil {
		return nil, m.filterErr
	}
	var fresh []string
	for _, u := range urls {
		if !m.notified[u] {
			fresh = append(fresh, u)
		}
	}
	return fresh, nil
}

func testAlertForDispatch() models.Alert {
	return models.Alert{
		ID:    uuid.New(),
		Name:  "Go Roles",
		Email: "dev@example.com",
	}
}

func testMatches() []models.Job {
	return []models.Job{
		{URL: "https://example.com/a", Title: "Go Developer", Company: "Acme"},
		{URL: "https://example.com/b", Title: "Backend Engineer", Company: "Initech"},
	}
}

func TestDispatchSendsForNonEmptyMatchSet(t *testing.T) {
	mailer := &mockMailer{}
	d := NewDispatcher(mailer, newMockCache(), nil)

	res := d.Dispatch(context.Background(), testAlertForDispatch(), testMatches())

	assert.Equal(t, OutcomeSent, res.Outcome)
	assert.Len(t, res.Jobs, 2)
	assert.Equal(t, 1, mailer.calls)
	assert.Equal(t, "dev@example.com", mailer.recipient)
	assert.Equal(t, "Job Alert: Go Roles - 2 new matching jobs", mailer.subject)
}

func TestDispatchSkipsEmptyMatchSet(t *testing.T) {
	mailer := &mockMailer{}
	d := NewDispatcher(mailer, newMockCache(), nil)

	res := d.Dispatch(context.Background(), testAlertForDispatch(), nil)

	assert.Equal(t, OutcomeSkipped, res.Outcome)
	assert.Zero(t, mailer.calls)
}

func TestDispatchSkipsMissingEmail(t *testing.T) {
	mailer := &mockMailer{}
	d := NewDispatcher(mailer, newMockCache(), nil)

	alert := testAlertForDispatch()
	alert.Email = ""
	res := d.Dispatch(context.Background(), alert, testMatches())

	assert.Equal(t, OutcomeSkipped, res.Outcome)
	assert.Zero(t, mailer.calls, "transport must not be invoked without a recipient")
}

func TestDispatchSkipsInvalidEmail(t *testing.T) {
	mailer := &mockMailer{}
	d := NewDispatcher(mailer, newMockCache(), nil)

	alert := testAlertForDispatch()
	alert.Email = "not-an-address"
	res := d.Dispatch(context.Background(), alert, testMatches())

	assert.Equal(t, OutcomeSkipped, res.Outcome)
	assert.Zero(t, mailer.calls)
}

func TestDispatchFailedOnTransportError(t *testing.T) {
	sendErr := errors.New("connection refused")
	mailer := &mockMailer{sendErr: sendErr}
	c := newMockCache()
	d := NewDispatcher(mailer, c, nil)

	res := d.Dispatch(context.Background(), testAlertForDispatch(), testMatches())

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.ErrorIs(t, res.Err, sendErr)
	assert.Empty(t, c.marked, "failed sends must not mark jobs as notified")
}

func TestDispatchFailedWithDryRunMailer(t *testing.T) {
	d := NewDispatcher(DryRunMailer{}, newMockCache(), nil)

	res := d.Dispatch(context.Background(), testAlertForDispatch(), testMatches())

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrNotConfigured)
}

func TestDispatchSuppressesAlreadyNotified(t *testing.T) {
	mailer := &mockMailer{}
	c := newMockCache()
	c.notified["https://example.com/a"] = true
	d := NewDispatcher(mailer, c, nil)

	res := d.Dispatch(context.Background(), testAlertForDispatch(), testMatches())

	require.Equal(t, OutcomeSent, res.Outcome)
	require.Len(t, res.Jobs, 1)
	assert.Equal(t, "https://example.com/b", res.Jobs[0].URL)
}

func TestDispatchSkipsWhenAllAlreadyNotified(t *testing.T) {
	mailer := &mockMailer{}
	c := newMockCache()
	c.notified["https://example.com/a"] = true
	c.notified["https://example.com/b"] = true
	d := NewDispatcher(mailer, c, nil)

	res := d.Dispatch(context.Background(), testAlertForDispatch(), testMatches())

	assert.Equal(t, OutcomeSkipped, res.Outcome)
	assert.Zero(t, mailer.calls)
}

func TestDispatchFailsOpenOnCacheError(t *testing.T) {
	mailer := &mockMailer{}
	c := newMockCache()
	c.filterErr = errors.New("redis down")
	d := NewDispatcher(mailer, c, nil)

	res := d.Dispatch(context.Background(), testAlertForDispatch(), testMatches())

	assert.Equal(t, OutcomeSent, res.Outcome)
	assert.Len(t, res.Jobs, 2)
}

func TestDispatchMarksSentJobs(t *testing.T) {
	mailer := &mockMailer{}
	c := newMockCache()
	d := NewDispatcher(mailer, c, nil)

	res := d.Dispatch(context.Background(), testAlertForDispatch(), testMatches())

	require.Equal(t, OutcomeSent, res.Outcome)
	assert.ElementsMatch(t, []string{"https://example.com/a", "https://example.com/b"}, c.marked)
}

func TestDryRunMailerReturnsErrNotConfigured(t *testing.T) {
	err := DryRunMailer{}.Send(context.Background(), "dev@example.com", "subject", "<html></html>")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
