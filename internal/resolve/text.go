package resolve

import (
	"fmt"
	"regexp"
	"strings"
)

// readingSpeedWPM is the assumed reading speed for journal posts.
const readingSpeedWPM = 225

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s+`)

	htmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
)

// EscapeHTML escapes the five HTML entities and collapses newlines to
// spaces. Applied to any CMS-sourced text before it lands in an HTML
// attribute.
func EscapeHTML(s string) string {
	escaped := htmlEscaper.Replace(s)
	return strings.Join(strings.FieldsFunc(escaped, func(r rune) bool {
		return r == '\n' || r == '\r'
	}), " ")
}

// StripTags removes HTML tags, leaving the text content.
func StripTags(s string) string {
	return htmlTagRe.ReplaceAllString(s, " ")
}

// ReadingTime estimates reading time from HTML content at 225 wpm,
// rounded up, never below one minute.
func ReadingTime(html string) string {
	words := len(strings.Fields(StripTags(html)))
	minutes := (words + readingSpeedWPM - 1) / readingSpeedWPM
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

// CollapseWhitespace trims and squeezes all runs of whitespace to single
// spaces.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// Truncate collapses whitespace and cuts the text to at most limit runes.
func Truncate(s string, limit int) string {
	s = CollapseWhitespace(s)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit]))
}

// Excerpt derives a short plain-text summary from HTML content.
func Excerpt(html string, limit int) string {
	return Truncate(StripTags(html), limit)
}
