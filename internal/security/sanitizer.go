package security

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const (
	maxInputRunes       = 1000
	maxDisplayNameRunes = 100
)

var htmlPolicy = bluemonday.StrictPolicy()

// SanitizeString removes potentially dangerous characters
func SanitizeString(input string) string {
	// Trim whitespace
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	return truncateRunes(input, maxInputRunes)
}

func truncateRunes(input string, limit int) string {
	if utf8.RuneCountInString(input) <= limit {
		return input
	}
	return string([]rune(input)[:limit])
}

// SanitizeHTML removes all HTML tags
func SanitizeHTML(input string) string {
	return htmlPolicy.Sanitize(input)
}

// SanitizeDisplayName strips markup and null bytes from a user supplied
// name and bounds its length. The result is plain text: entities produced
// by the HTML policy are decoded again, so escaping is left to whoever
// renders it.
func SanitizeDisplayName(name string) string {
	name = truncateRunes(SanitizeString(name), maxDisplayNameRunes)
	return strings.TrimSpace(html.UnescapeString(SanitizeHTML(name)))
}
