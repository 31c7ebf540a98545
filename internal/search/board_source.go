package search

import (
	"context"
	"fmt"

	"github.com/jobwatchhq/jobwatch/internal/scraper"
	"github.com/jobwatchhq/jobwatch/pkg/boardquery"
	"github.com/jobwatchhq/jobwatch/pkg/models"
)

// BoardSource is a Source backed by the scraper sidecar: it builds the board
// search URL and asks the sidecar to crawl it.
type BoardSource struct {
	board   string
	client  scraper.Client
	builder boardquery.QueryBuilder
	limit   int
}

func NewIndeedSource(client scraper.Client, limit int) *BoardSource {
	return &BoardSource{board: models.SourceIndeed, client: client, limit: limit}
}

func NewLinkedInSource(client scraper.Client, limit int) *BoardSource {
	return &BoardSource{board: models.SourceLinkedIn, client: client, limit: limit}
}

func (s *BoardSource) Name() string { return s.board }

func (s *BoardSource) Fetch(ctx context.Context, p Params) ([]models.Job, error) {
	qp := boardquery.Params{
		Keywords: p.Keywords,
		Location: p.Location,
		JobType:  p.JobType,
	}

	var searchURL, board string
	switch s.board {
	case models.SourceIndeed:
		searchURL = s.builder.IndeedURL(qp)
		board = "indeed"
	case models.SourceLinkedIn:
		searchURL = s.builder.LinkedInURL(qp)
		board = "linkedin"
	default:
		return nil, fmt.Errorf("unknown board %q", s.board)
	}

	jobs, err := s.client.Scrape(ctx, scraper.ScrapeRequest{
		Board:     board,
		SearchURL: searchURL,
		Limit:     s.limit,
	})
	if err != nil {
		return nil, fmt.Errorf("scrape %s: %w", board, err)
	}

	for i := range jobs {
		jobs[i].Source = s.board
	}
	return jobs, nil
}
