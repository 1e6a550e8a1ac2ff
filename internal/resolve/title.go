// Package resolve holds the pure field transformations that map raw CMS
// values onto normalized domain values. Every function here is stateless
// and independently testable; nothing performs I/O.
package resolve

import (
	"strings"
	"unicode"
)

// NormalizeTitle cleans up a raw title: underscores and hyphens become
// spaces, whitespace is collapsed and trimmed, and every token is
// title-cased (first letter upper, rest lower). The per-word casing is
// deliberately naive ("UK" becomes "Uk"), matching the CMS content the
// site was built against. Empty input yields "Untitled".
func NormalizeTitle(raw string) string {
	s := strings.NewReplacer("_", " ", "-", " ").Replace(raw)
	words := strings.Fields(s)
	if len(words) == 0 {
		return "Untitled"
	}
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
