package resolve

import (
	"regexp"
	"strings"
)

// Credit is one {role, name} pair parsed from the free-text credits field.
type Credit struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

// roleAhead matches the start of a new "Capitalized Role:" segment. Used
// to decide whether a comma separates credits or sits inside a name.
var roleAhead = regexp.MustCompile(`^[A-Z][A-Za-z/&. ]*:`)

// ParseCreditsText splits free text into credits. Lines are split first;
// within a line, a comma only separates entries when followed by a
// capitalized "Word:" pattern, so commas inside names survive. Each entry
// splits on its first colon into role and name; entries without a colon
// become {"Credit", rawText}. The comma heuristic is knowingly fragile
// for names like "Smith, Jr." but matches the content conventions the
// CMS already uses.
func ParseCreditsText(raw string) []Credit {
	var out []Credit
	for _, line := range strings.Split(raw, "\n") {
		for _, item := range splitCreditLine(line) {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			if role, name, ok := strings.Cut(item, ":"); ok {
				out = append(out, Credit{
					Role: strings.TrimSpace(role),
					Name: strings.TrimSpace(name),
				})
			} else {
				out = append(out, Credit{Role: "Credit", Name: item})
			}
		}
	}
	return out
}

// splitCreditLine splits on commas that precede a capitalized "Word:"
// pattern. RE2 has no lookahead, so the split points are found by
// scanning each comma and testing the remainder.
func splitCreditLine(line string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(line); i++ {
		if line[i] != ',' {
			continue
		}
		rest := strings.TrimLeft(line[i+1:], " \t")
		if roleAhead.MatchString(rest) {
			parts = append(parts, line[start:i])
			start = i + 1
		}
	}
	return append(parts, line[start:])
}
