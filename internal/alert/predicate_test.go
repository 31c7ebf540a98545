package alert

import (
	"testing"
	"time"

	"github.com/jobwatchhq/jobwatch/pkg/models"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testAlert(mod func(*models.Alert)) models.Alert {
	a := models.Alert{
		Name:        "backend watch",
		Keywords:    []string{"python"},
		Email:       "dev@example.com",
		CreatedDate: t0,
	}
	if mod != nil {
		mod(&a)
	}
	return a
}

func testJob(mod func(*models.Job)) models.Job {
	j := models.Job{
		URL:         "https://example.com/jobs/1",
		Title:       "Python Developer",
		Company:     "Acme",
		Location:    "New York",
		Description: "Build services in Python and Go",
		JobType:     models.JobTypeFullTime,
		DatePosted:  t0.Add(time.Hour),
	}
	if mod != nil {
		mod(&j)
	}
	return j
}

func TestMatches_KeywordInTitle(t *testing.T) {
	if !Matches(testAlert(nil), testJob(nil)) {
		t.Error("expected match when keyword appears in title")
	}
}

func TestMatches_KeywordOnlyInDescription(t *testing.T) {
	j := testJob(func(j *models.Job) {
		j.Title = "Software Engineer"
		j.Description = "We use Python heavily"
	})
	if !Matches(testAlert(nil), j) {
		t.Error("expected match when keyword appears only in description")
	}
}

func TestMatches_KeywordCaseInsensitive(t *testing.T) {
	a := testAlert(func(a *models.Alert) { a.Keywords = []string{"PYTHON"} })
	if !Matches(a, testJob(nil)) {
		t.Error("keyword matching should ignore case")
	}
}

func TestMatches_AllKeywordsRequired(t *testing.T) {
	a := testAlert(func(a *models.Alert) { a.Keywords = []string{"python", "kubernetes"} })
	if Matches(a, testJob(nil)) {
		t.Error("expected no match when one keyword is absent from both fields")
	}
}

func TestMatches_MultipleKeywordsAcrossFields(t *testing.T) {
	// One keyword in the title, the other in the description.
	a := testAlert(func(a *models.Alert) { a.Keywords = []string{"developer", "go"} })
	if !Matches(a, testJob(nil)) {
		t.Error("keywords may be satisfied by either field independently")
	}
}

func TestMatches_LocationGate(t *testing.T) {
	tests := []struct {
		name     string
		location string
		want     bool
	}{
		{"unset location is vacuously true", "", true},
		{"substring match", "new york", true},
		{"mismatch", "Remote", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testAlert(func(a *models.Alert) { a.Location = tt.location })
			if got := Matches(a, testJob(nil)); got != tt.want {
				t.Errorf("Matches with location %q = %v, want %v", tt.location, got, tt.want)
			}
		})
	}
}

func TestMatches_JobTypeGate(t *testing.T) {
	tests := []struct {
		name    string
		jobType string
		want    bool
	}{
		{"unset type is vacuously true", "", true},
		{"exact match", "Full-time", true},
		{"case-insensitive", "full-time", true},
		{"mismatch", "Contract", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testAlert(func(a *models.Alert) { a.JobType = tt.jobType })
			if got := Matches(a, testJob(nil)); got != tt.want {
				t.Errorf("Matches with job type %q = %v, want %v", tt.jobType, got, tt.want)
			}
		})
	}
}

func TestMatches_PostedBeforeCreationNeverMatches(t *testing.T) {
	j := testJob(func(j *models.Job) { j.DatePosted = t0.Add(-time.Hour) })
	if Matches(testAlert(nil), j) {
		t.Error("jobs posted before the alert was created must not match")
	}
}

func TestMatches_PostedExactlyAtCreationMatches(t *testing.T) {
	j := testJob(func(j *models.Job) { j.DatePosted = t0 })
	if !Matches(testAlert(nil), j) {
		t.Error("jobs posted exactly at alert creation should match")
	}
}

func TestMatches_LastNotifiedMovesBoundaryForward(t *testing.T) {
	notified := t0.Add(2 * time.Hour)
	a := testAlert(func(a *models.Alert) { a.LastNotified = &notified })

	old := testJob(func(j *models.Job) { j.DatePosted = t0.Add(time.Hour) })
	if Matches(a, old) {
		t.Error("jobs already covered by a delivered notification must not re-match")
	}

	atBoundary := testJob(func(j *models.Job) { j.DatePosted = notified })
	if Matches(a, atBoundary) {
		t.Error("the last_notified boundary itself is exclusive")
	}

	fresh := testJob(func(j *models.Job) { j.DatePosted = notified.Add(time.Minute) })
	if !Matches(a, fresh) {
		t.Error("jobs newer than last_notified should match")
	}
}

func TestMatches_EmptyJobFields(t *testing.T) {
	// Absent text must behave as empty strings, not panic.
	j := models.Job{URL: "https://example.com/jobs/empty", DatePosted: t0.Add(time.Hour)}
	if Matches(testAlert(nil), j) {
		t.Error("empty title and description cannot contain a keyword")
	}
}

func TestMatches_BlankKeywordIgnored(t *testing.T) {
	a := testAlert(func(a *models.Alert) { a.Keywords = []string{"python", "  "} })
	if !Matches(a, testJob(nil)) {
		t.Error("blank keywords should not veto a match")
	}
}
