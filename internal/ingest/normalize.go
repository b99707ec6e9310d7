package ingest

import (
	"regexp"
	"strings"
)

var (
	newlineRuns    = regexp.MustCompile(`\n{2,}`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
	pageArtifacts  = regexp.MustCompile(`(?i)page\s+\d+\s*`)
)

// Normalize cleans raw extracted text. Runs of blank lines are collapsed to a
// single newline, then any whitespace run (newlines included) is collapsed
// to a single space, page-number artifacts ("Page 12" footers/headers) are
// removed together with their trailing whitespace, and the result is trimmed.
// The output contains no newlines at all.
func Normalize(text string) string {
	text = newlineRuns.ReplaceAllString(text, "\n")
	text = whitespaceRuns.ReplaceAllString(text, " ")
	text = pageArtifacts.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
