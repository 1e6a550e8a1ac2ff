package resolve

import "regexp"

// Project categories. Every project maps onto exactly one of these.
const (
	CategoryNarrative     = "Narrative"
	CategoryCommercial    = "Commercial"
	CategoryMusicVideo    = "Music Video"
	CategoryDocumentary   = "Documentary"
	CategoryUncategorized = "Uncategorized"
)

// Classification order matters: "documentary film" must not fall into
// Narrative via the "film" token, so the more specific patterns run first.
var categoryRules = []struct {
	re       *regexp.Regexp
	category string
}{
	{regexp.MustCompile(`(?i)music\s*video|\bmv\b`), CategoryMusicVideo},
	{regexp.MustCompile(`(?i)\bdoc(umentary|useries)?\b`), CategoryDocumentary},
	{regexp.MustCompile(`(?i)\b(commercial|tvc|advert(ising|isement)?|ad|spot|branded?)\b`), CategoryCommercial},
	{regexp.MustCompile(`(?i)\b(narrative|short|feature|film|fiction|drama|series)\b`), CategoryNarrative},
}

// NormalizeCategory classifies a raw project-type string into the fixed
// category enumeration; unmatched input is Uncategorized.
func NormalizeCategory(raw string) string {
	for _, rule := range categoryRules {
		if rule.re.MatchString(raw) {
			return rule.category
		}
	}
	return CategoryUncategorized
}
