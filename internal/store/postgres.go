package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jobwatchhq/jobwatch/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const jobColumns = `url, title, company, location, description, job_type, source, date_posted, created_at, updated_at`

func scanJob(row pgx.Row) (models.Job, error) {
	var j models.Job
	err := row.Scan(&j.URL, &j.Title, &j.Company, &j.Location, &j.Description,
		&j.JobType, &j.Source, &j.DatePosted, &j.CreatedAt, &j.UpdatedAt)
	return j, err
}

// --- Jobs ---

// ListJobs returns the full corpus, newest postings first. The scheduler
// reads this once per tick as its corpus snapshot.
func (s *PostgresStore) ListJobs(ctx context.Context) ([]models.Job, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs ORDER BY date_posted DESC, url`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike quotes LIKE wildcards so user-supplied filter text matches
// literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (s *PostgresStore) FilterJobs(ctx context.Context, filter JobFilter) ([]models.Job, error) {
	conditions := []string{"TRUE"}
	args := []any{}
	argIdx := 1

	if filter.Keyword != "" {
		conditions = append(conditions,
			fmt.Sprintf("(title ILIKE '%%' || $%d || '%%' OR description ILIKE '%%' || $%d || '%%')", argIdx, argIdx))
		args = append(args, escapeLike(filter.Keyword))
		argIdx++
	}
	if filter.Location != "" {
		conditions = append(conditions, fmt.Sprintf("location ILIKE '%%' || $%d || '%%'", argIdx))
		args = append(args, escapeLike(filter.Location))
		argIdx++
	}
	if filter.JobType != "" {
		conditions = append(conditions, fmt.Sprintf("job_type = $%d", argIdx))
		args = append(args, filter.JobType)
		argIdx++
	}
	if filter.Source != "" {
		conditions = append(conditions, fmt.Sprintf("source = $%d", argIdx))
		args = append(args, filter.Source)
		argIdx++
	}
	if !filter.PostedSince.IsZero() {
		conditions = append(conditions, fmt.Sprintf("date_posted >= $%d", argIdx))
		args = append(args, filter.PostedSince)
		argIdx++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}

	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE %s ORDER BY date_posted DESC, url LIMIT $%d`,
		jobColumns, strings.Join(conditions, " AND "), argIdx)
	args = append(args, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("filter jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (s *PostgresStore) GetJob(ctx context.Context, url string) (*models.Job, error) {
	j, err := scanJob(s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE url = $1`, url))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &j, nil
}

// UpsertJobs inserts or refreshes postings, keyed by URL. Returns the number
// of rows written. Rescrapes overwrite mutable fields in place so the URL
// stays the single identity across the corpus.
func (s *PostgresStore) UpsertJobs(ctx context.Context, jobs []models.Job) (int, error) {
	if len(jobs) == 0 {
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback(ctx)

	written := 0
	now := time.Now().UTC()
	for _, j := range jobs {
		tag, err := tx.Exec(ctx,
			`INSERT INTO jobs (url, title, company, location, description, job_type, source, date_posted, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
			 ON CONFLICT (url) DO UPDATE SET
			   title = EXCLUDED.title,
			   company = EXCLUDED.company,
			   location = EXCLUDED.location,
			   description = EXCLUDED.description,
			   job_type = EXCLUDED.job_type,
			   source = EXCLUDED.source,
			   date_posted = EXCLUDED.date_posted,
			   updated_at = NOW()`,
			j.URL, j.Title, j.Company, j.Location, j.Description, j.JobType, j.Source, j.DatePosted, now)
		if err != nil {
			return 0, fmt.Errorf("upsert job %s: %w", j.URL, err)
		}
		written += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit upsert: %w", err)
	}
	return written, nil
}

// --- Alerts ---

const alertColumns = `id, name, keywords, COALESCE(location, ''), COALESCE(job_type, ''), email, created_date, last_notified`

func scanAlert(row pgx.Row) (models.Alert, error) {
	var a models.Alert
	err := row.Scan(&a.ID, &a.Name, &a.Keywords, &a.Location, &a.JobType,
		&a.Email, &a.CreatedDate, &a.LastNotified)
	return a, err
}

func (s *PostgresStore) ListAlerts(ctx context.Context) ([]models.Alert, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+alertColumns+` FROM alerts ORDER BY created_date`)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (s *PostgresStore) GetAlert(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	a, err := scanAlert(s.pool.QueryRow(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return &a, nil
}

func (s *PostgresStore) CreateAlert(ctx context.Context, alert *models.Alert) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO alerts (id, name, keywords, location, job_type, email, created_date)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7)`,
		alert.ID, alert.Name, alert.Keywords, alert.Location, alert.JobType,
		alert.Email, alert.CreatedDate)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteAlert(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM alerts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete alert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAlertLastNotified advances the notification boundary after a
// successful dispatch. It never moves the boundary backwards.
func (s *PostgresStore) UpdateAlertLastNotified(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE alerts SET last_notified = GREATEST(COALESCE(last_notified, 'epoch'::timestamptz), $2)
		 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("update alert last_notified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Saved / Applied ---

func (s *PostgresStore) SaveJob(ctx context.Context, url string, at time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO saved_jobs (job_url, saved_date)
		 SELECT url, $2 FROM jobs WHERE url = $1
		 ON CONFLICT (job_url) DO NOTHING`, url, at)
	if err != nil {
		return fmt.Errorf("save job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the job does not exist or it was already saved; distinguish.
		if _, err := s.GetJob(ctx, url); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) RemoveSavedJob(ctx context.Context, url string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM saved_jobs WHERE job_url = $1`, url)
	if err != nil {
		return fmt.Errorf("remove saved job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListSavedJobs(ctx context.Context) ([]models.SavedJob, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+prefixedJobColumns("j")+`, s.saved_date
		 FROM saved_jobs s JOIN jobs j ON j.url = s.job_url
		 ORDER BY s.saved_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list saved jobs: %w", err)
	}
	defer rows.Close()

	var saved []models.SavedJob
	for rows.Next() {
		var sj models.SavedJob
		if err := rows.Scan(&sj.Job.URL, &sj.Job.Title, &sj.Job.Company, &sj.Job.Location,
			&sj.Job.Description, &sj.Job.JobType, &sj.Job.Source, &sj.Job.DatePosted,
			&sj.Job.CreatedAt, &sj.Job.UpdatedAt, &sj.SavedDate); err != nil {
			return nil, fmt.Errorf("scan saved job: %w", err)
		}
		saved = append(saved, sj)
	}
	return saved, rows.Err()
}

// MarkApplied records an application and drops the posting from the saved
// list in the same transaction, mirroring the save -> applied hand-off in
// the tracking UI.
func (s *PostgresStore) MarkApplied(ctx context.Context, url string, at time.Time) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin mark applied: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`INSERT INTO applied_jobs (job_url, applied_date)
		 SELECT url, $2 FROM jobs WHERE url = $1
		 ON CONFLICT (job_url) DO NOTHING`, url, at)
	if err != nil {
		return fmt.Errorf("mark applied: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := s.GetJob(ctx, url); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM saved_jobs WHERE job_url = $1`, url); err != nil {
		return fmt.Errorf("unsave applied job: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit mark applied: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAppliedJobs(ctx context.Context) ([]models.AppliedJob, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+prefixedJobColumns("j")+`, a.applied_date
		 FROM applied_jobs a JOIN jobs j ON j.url = a.job_url
		 ORDER BY a.applied_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list applied jobs: %w", err)
	}
	defer rows.Close()

	var applied []models.AppliedJob
	for rows.Next() {
		var aj models.AppliedJob
		if err := rows.Scan(&aj.Job.URL, &aj.Job.Title, &aj.Job.Company, &aj.Job.Location,
			&aj.Job.Description, &aj.Job.JobType, &aj.Job.Source, &aj.Job.DatePosted,
			&aj.Job.CreatedAt, &aj.Job.UpdatedAt, &aj.AppliedDate); err != nil {
			return nil, fmt.Errorf("scan applied job: %w", err)
		}
		applied = append(applied, aj)
	}
	return applied, rows.Err()
}

func prefixedJobColumns(alias string) string {
	cols := strings.Split(jobColumns, ", ")
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

// --- API Keys ---

func (s *PostgresStore) GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, key_hash, key_prefix, scopes, last_used_at, deleted_at, created_at, updated_at
		 FROM api_keys WHERE key_prefix = $1 AND deleted_at IS NULL`, prefix)
	if err != nil {
		return nil, fmt.Errorf("get api key by prefix: %w", err)
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Scopes,
			&k.LastUsedAt, &k.DeletedAt, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET last_used_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update api key last used: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateAPIKey(ctx context.Context, key *models.APIKey) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO api_keys (id, name, key_hash, key_prefix, scopes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		key.ID, key.Name, key.KeyHash, key.KeyPrefix, key.Scopes, key.CreatedAt, key.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create api key: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAPIKeys(ctx context.Context) ([]*models.APIKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, key_hash, key_prefix, scopes, last_used_at, deleted_at, created_at, updated_at
		 FROM api_keys WHERE deleted_at IS NULL ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Scopes,
			&k.LastUsedAt, &k.DeletedAt, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) RevokeAPIKey(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET deleted_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("revoke api key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
