package store

import (
	"regexp"
	"strings"
)

// summaryLimit is the maximum plain-text length of a derived summary.
const summaryLimit = 200

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// deriveSummary strips markup tags from the content and truncates the
// plain text to summaryLimit characters, appending "..." when cut.
// Runs on every create and update whose summary is empty.
func deriveSummary(content string) string {
	plain := strings.TrimSpace(tagPattern.ReplaceAllString(content, ""))
	runes := []rune(plain)
	if len(runes) > summaryLimit {
		return string(runes[:summaryLimit]) + "..."
	}
	return plain
}

// normalizeSummary fills an empty summary from the content. A non-empty
// summary is kept as-is.
func normalizeSummary(summary *string, content string) *string {
	if summary != nil && strings.TrimSpace(*summary) != "" {
		return summary
	}
	if strings.TrimSpace(content) == "" {
		return summary
	}
	derived := deriveSummary(content)
	return &derived
}
