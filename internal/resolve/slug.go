package resolve

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugLen = 80

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// MakeSlug derives a URL-safe identifier from a title: lower-cased,
// diacritics stripped, runs of non-alphanumerics collapsed to single
// hyphens, trimmed, and truncated to 80 characters. Falls back to "item"
// when nothing survives.
func MakeSlug(title string) string {
	s := strings.ToLower(title)
	if flat, _, err := transform.String(deaccent, s); err == nil {
		s = flat
	}

	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxSlugLen {
		slug = strings.Trim(slug[:maxSlugLen], "-")
	}
	if slug == "" {
		return "item"
	}
	return slug
}

// UniqueSlug resolves collisions against the used set by suffixing -2,
// -3, ... and records the result in used.
func UniqueSlug(title string, used map[string]bool) string {
	base := MakeSlug(title)
	slug := base
	for n := 2; used[slug]; n++ {
		slug = fmt.Sprintf("%s-%d", base, n)
	}
	used[slug] = true
	return slug
}
