// Package boardquery constructs search URLs for the supported job boards.
package boardquery

import (
	"net/url"
	"strings"

	"github.com/jobwatchhq/jobwatch/pkg/models"
)

const (
	indeedBase   = "https://www.indeed.com/jobs"
	linkedinBase = "https://www.linkedin.com/jobs/search"
)

// QueryBuilder constructs job board search URLs.
// All methods are pure functions with no side effects.
// Zero value is ready to use.
type QueryBuilder struct{}

// Params defines the inputs of one board search.
type Params struct {
	Keywords []string
	Location string
	JobType  string
}

// IndeedURL returns the Indeed search URL for the given params. Indeed takes
// the keyword query as `q`, the location as `l` and the job type as `jt` in
// its own lowercase no-hyphen form (e.g. "fulltime").
func (b QueryBuilder) IndeedURL(p Params) string {
	q := url.Values{}
	if kw := joinKeywords(p.Keywords); kw != "" {
		q.Set("q", kw)
	}
	if p.Location != "" {
		q.Set("l", p.Location)
	}
	if p.JobType != "" {
		q.Set("jt", strings.ReplaceAll(strings.ToLower(p.JobType), "-", ""))
	}
	return withQuery(indeedBase, q)
}

// LinkedInURL returns the LinkedIn search URL for the given params. LinkedIn
// encodes the job type as the single-letter `f_JT` facet; unrecognised types
// are omitted rather than guessed.
func (b QueryBuilder) LinkedInURL(p Params) string {
	q := url.Values{}
	if kw := joinKeywords(p.Keywords); kw != "" {
		q.Set("keywords", kw)
	}
	if p.Location != "" {
		q.Set("location", p.Location)
	}
	if facet := linkedinJobTypeFacet(p.JobType); facet != "" {
		q.Set("f_JT", facet)
	}
	return withQuery(linkedinBase, q)
}

func linkedinJobTypeFacet(jobType string) string {
	switch {
	case strings.EqualFold(jobType, models.JobTypeFullTime):
		return "F"
	case strings.EqualFold(jobType, models.JobTypePartTime):
		return "P"
	case strings.EqualFold(jobType, models.JobTypeContract):
		return "C"
	case strings.EqualFold(jobType, models.JobTypeRemote):
		return "R"
	}
	return ""
}

func joinKeywords(keywords []string) string {
	kept := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			kept = append(kept, k)
		}
	}
	return strings.Join(kept, " ")
}

func withQuery(base string, q url.Values) string {
	if len(q) == 0 {
		return base
	}
	return base + "?" + q.Encode()
}
