// Package search runs on-demand job searches across the configured boards
// and folds the results into the persistent corpus.
package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jobwatchhq/jobwatch/internal/cache"
	"github.com/jobwatchhq/jobwatch/pkg/models"
)

// JobStore is the slice of the data layer the search service needs.
type JobStore interface {
	UpsertJobs(ctx context.Context, jobs []models.Job) (int, error)
}

// Service fans a search out to every configured source, merges and dedups
// the results, and persists them so the alert scheduler sees them on its
// next tick.
type Service struct {
	sources   []Source
	store     JobStore
	cache     cache.Cache
	resultTTL time.Duration
	logger    *slog.Logger
}

func NewService(sources []Source, store JobStore, c cache.Cache, resultTTL time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		sources:   sources,
		store:     store,
		cache:     c,
		resultTTL: resultTTL,
		logger:    logger,
	}
}

// Search runs the query against all sources. A failing source is logged and
// skipped; the search fails only when the posted-within value is invalid.
// Results are cached briefly so repeated identical searches do not hammer
// the boards.
func (s *Service) Search(ctx context.Context, p Params) ([]models.Job, error) {
	lookback, err := ParseWindow(p.PostedWithin)
	if err != nil {
		return nil, fmt.Errorf("parse posted_within: %w", err)
	}

	cacheKey := cache.SearchResultKey(hashParams(p))
	if jobs, ok := s.cachedResult(ctx, cacheKey); ok {
		s.logger.Debug("search served from cache", "jobs", len(jobs))
		return jobs, nil
	}

	var merged []models.Job
	seen := make(map[string]bool)
	for _, src := range s.sources {
		jobs, err := src.Fetch(ctx, p)
		if err != nil {
			s.logger.Error("source fetch failed", "source", src.Name(), "error", err)
			continue
		}
		for _, j := range jobs {
			if j.URL == "" || seen[j.URL] {
				continue
			}
			seen[j.URL] = true
			j.Title = CleanTitle(j.Title)
			if j.Source == "" {
				j.Source = src.Name()
			}
			merged = append(merged, j)
		}
	}

	if lookback > 0 {
		merged = filterPostedSince(merged, time.Now().UTC().Add(-lookback))
	}

	if len(merged) > 0 {
		upserted, err := s.store.UpsertJobs(ctx, merged)
		if err != nil {
			s.logger.Error("failed to persist search results", "jobs", len(merged), "error", err)
		} else {
			s.logger.Info("search results persisted", "fetched", len(merged), "upserted", upserted)
		}
	}

	s.cacheResult(ctx, cacheKey, merged)
	return merged, nil
}

func filterPostedSince(jobs []models.Job, cutoff time.Time) []models.Job {
	kept := jobs[:0:0]
	for _, j := range jobs {
		if !j.DatePosted.Before(cutoff) {
			kept = append(kept, j)
		}
	}
	return kept
}

func (s *Service) cachedResult(ctx context.Context, key string) ([]models.Job, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("search cache read failed", "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	var jobs []models.Job
	if err := json.Unmarshal(raw, &jobs); err != nil {
		s.logger.Warn("search cache entry corrupt, ignoring", "error", err)
		return nil, false
	}
	return jobs, true
}

func (s *Service) cacheResult(ctx context.Context, key string, jobs []models.Job) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(jobs)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.resultTTL); err != nil {
		s.logger.Warn("search cache write failed", "error", err)
	}
}

// hashParams derives a stable cache key from the search inputs.
func hashParams(p Params) string {
	raw, _ := json.Marshal(p)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:8])
}
