package boardquery

import (
	"net/url"
	"testing"
)

func TestIndeedURL(t *testing.T) {
	var b QueryBuilder

	tests := []struct {
		name string
		p    Params
		want string
	}{
		{
			name: "keywords only",
			p:    Params{Keywords: []string{"go", "backend"}},
			want: "https://www.indeed.com/jobs?q=go+backend",
		},
		{
			name: "keywords and location",
			p:    Params{Keywords: []string{"python"}, Location: "New York"},
			want: "https://www.indeed.com/jobs?l=New+York&q=python",
		},
		{
			name: "job type normalised",
			p:    Params{Keywords: []string{"go"}, JobType: "Full-time"},
			want: "https://www.indeed.com/jobs?jt=fulltime&q=go",
		},
		{
			name: "blank keywords dropped",
			p:    Params{Keywords: []string{" ", "go", ""}},
			want: "https://www.indeed.com/jobs?q=go",
		},
		{
			name: "no params",
			p:    Params{},
			want: "https://www.indeed.com/jobs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.IndeedURL(tt.p); got != tt.want {
				t.Errorf("IndeedURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLinkedInURL(t *testing.T) {
	var b QueryBuilder

	tests := []struct {
		name string
		p    Params
		want string
	}{
		{
			name: "keywords and location",
			p:    Params{Keywords: []string{"go", "developer"}, Location: "Berlin"},
			want: "https://www.linkedin.com/jobs/search?keywords=go+developer&location=Berlin",
		},
		{
			name: "full-time facet",
			p:    Params{Keywords: []string{"go"}, JobType: "Full-time"},
			want: "https://www.linkedin.com/jobs/search?f_JT=F&keywords=go",
		},
		{
			name: "remote facet",
			p:    Params{Keywords: []string{"go"}, JobType: "Remote"},
			want: "https://www.linkedin.com/jobs/search?f_JT=R&keywords=go",
		},
		{
			name: "unknown job type omitted",
			p:    Params{Keywords: []string{"go"}, JobType: "Internship"},
			want: "https://www.linkedin.com/jobs/search?keywords=go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.LinkedInURL(tt.p); got != tt.want {
				t.Errorf("LinkedInURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLinkedInJobTypeFacets(t *testing.T) {
	tests := []struct {
		jobType string
		want    string
	}{
		{"Full-time", "F"},
		{"part-time", "P"},
		{"Contract", "C"},
		{"remote", "R"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := linkedinJobTypeFacet(tt.jobType); got != tt.want {
			t.Errorf("linkedinJobTypeFacet(%q) = %q, want %q", tt.jobType, got, tt.want)
		}
	}
}

func TestURLsParse(t *testing.T) {
	var b QueryBuilder
	p := Params{Keywords: []string{"go", "grpc"}, Location: "São Paulo", JobType: "Contract"}

	for _, raw := range []string{b.IndeedURL(p), b.LinkedInURL(p)} {
		u, err := url.Parse(raw)
		if err != nil {
			t.Fatalf("built URL does not parse: %v", err)
		}
		if u.Scheme != "https" {
			t.Errorf("unexpected scheme %q in %q", u.Scheme, raw)
		}
	}
}
