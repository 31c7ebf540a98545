package search

import (
	"regexp"
	"strings"
)

// Bracketed or parenthesized qualifiers boards append to titles, e.g.
// "Go Developer (Remote)" or "Data Engineer [Contract]".
var titleQualifier = regexp.MustCompile(`\s*[(\[][^)\]]*[)\]]`)

// CleanTitle strips bracketed qualifiers from a job title and trims the
// surrounding whitespace.
func CleanTitle(title string) string {
	return strings.TrimSpace(titleQualifier.ReplaceAllString(title, ""))
}
