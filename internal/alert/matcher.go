package alert

import "github.com/jobwatchhq/jobwatch/pkg/models"

// BuildMatches applies the alert predicate to every job, preserving corpus
// order. An empty corpus short-circuits without consulting the evaluator.
// Returns an empty slice for no matches (never nil). Pure with respect to
// both arguments.
func BuildMatches(a models.Alert, corpus []models.Job) []models.Job {
	return buildMatches(a, corpus, Matches)
}

func buildMatches(a models.Alert, corpus []models.Job, match func(models.Alert, models.Job) bool) []models.Job {
	if len(corpus) == 0 {
		return []models.Job{}
	}

	matches := make([]models.Job, 0)
	for _, j := range corpus {
		if match(a, j) {
			matches = append(matches, j)
		}
	}
	return matches
}
