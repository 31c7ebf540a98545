// Package scraper talks to the external scraper sidecar, which owns the
// board-specific crawling and HTML parsing. This service only ever sees the
// sidecar's typed JSON results.
package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jobwatchhq/jobwatch/pkg/models"
)

// Sentinel errors for scraper client failures.
var (
	ErrUnreachable = errors.New("scraper unreachable")
	ErrScrapeError = errors.New("scraper error")
	ErrTimeout     = errors.New("scrape timeout")
)

// Client is the interface for the scraper sidecar.
type Client interface {
	Scrape(ctx context.Context, req ScrapeRequest) ([]models.Job, error)
	Ready(ctx context.Context) error
}

// ScrapeRequest defines one crawl of a board search results page.
type ScrapeRequest struct {
	Board     string // "indeed" or "linkedin"
	SearchURL string // fully built board search URL
	Limit     int
}

// HTTPClient implements Client using the sidecar's HTTP API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Scrape(ctx context.Context, req ScrapeRequest) ([]models.Job, error) {
	params := url.Values{
		"board": {req.Board},
		"url":   {req.SearchURL},
	}
	if req.Limit > 0 {
		params.Set("limit", strconv.Itoa(req.Limit))
	}

	u := fmt.Sprintf("%s/api/v1/scrape?%s", c.baseURL, params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, classifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrScrapeError, resp.StatusCode)
	}

	var scrapeResp scrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&scrapeResp); err != nil {
		return nil, fmt.Errorf("decoding scraper response: %w", err)
	}

	if scrapeResp.Data.Jobs == nil {
		return []models.Job{}, nil
	}
	return scrapeResp.Data.Jobs, nil
}

func (c *HTTPClient) Ready(ctx context.Context) error {
	u := fmt.Sprintf("%s/ready", c.baseURL)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: scraper not ready (status %d)", ErrUnreachable, resp.StatusCode)
	}

	return nil
}

// classifyError maps transport-level errors to sentinel errors.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}

// --- sidecar response types ---

type scrapeResponse struct {
	Status string     `json:"status"`
	Data   scrapeData `json:"data"`
}

type scrapeData struct {
	Board string       `json:"board"`
	Jobs  []models.Job `json:"jobs"`
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)
