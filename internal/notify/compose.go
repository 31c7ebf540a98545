package notify

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/jobwatchhq/jobwatch/pkg/models"
)

const descriptionLimit = 200

var bodyTmpl = template.Must(template.New("alert").Parse(`<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2 style="color: #1a73e8;">{{.AlertName}}</h2>
  <p>Found <strong>{{.Count}}</strong> new job{{if ne .Count 1}}s{{end}} matching your alert.</p>
  {{range .Jobs}}
  <div style="border: 1px solid #ddd; border-radius: 6px; padding: 12px; margin-bottom: 12px;">
    <h3 style="margin: 0 0 4px 0;">{{.Title}}</h3>
    <p style="margin: 2px 0;"><strong>{{.Company}}</strong> &mdash; {{.Location}}</p>
    <p style="margin: 2px 0; color: #666;">{{.JobType}} &middot; Posted {{.Posted}}</p>
    <p style="margin: 8px 0;">{{.Description}}</p>
    <a href="{{.URL}}" style="color: #1a73e8;">View Job</a>
  </div>
  {{end}}
</body>
</html>`))

type bodyJob struct {
	Title       string
	Company     string
	Location    string
	JobType     string
	Posted      string
	Description string
	URL         string
}

type bodyData struct {
	AlertName string
	Count     int
	Jobs      []bodyJob
}

// Compose renders the subject line and HTML body for one alert delivery.
func Compose(alert models.Alert, jobs []models.Job) (subject, htmlBody string, err error) {
	subject = fmt.Sprintf("Job Alert: %s - %d new matching jobs", alert.Name, len(jobs))

	data := bodyData{AlertName: alert.Name, Count: len(jobs)}
	for _, j := range jobs {
		data.Jobs = append(data.Jobs, bodyJob{
			Title:       j.Title,
			Company:     j.Company,
			Location:    j.Location,
			JobType:     j.JobType,
			Posted:      formatPostDate(j.DatePosted),
			Description: TruncateWords(j.Description, descriptionLimit),
			URL:         j.URL,
		})
	}

	var sb strings.Builder
	if err := bodyTmpl.Execute(&sb, data); err != nil {
		return "", "", fmt.Errorf("render alert email: %w", err)
	}
	return subject, sb.String(), nil
}
