package resolve

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// ExternalLink is one classified link from the free-text links field.
type ExternalLink struct {
	URL   string `json:"url"`
	Label string `json:"label,omitempty"`
	Video bool   `json:"-"`
}

var videoURLRe = regexp.MustCompile(`(?i)(youtube\.com/(watch|embed|shorts)|youtu\.be/|vimeo\.com/\d+|facebook\.com/[^ ]*/videos?/|fb\.watch/)`)

var linkSplitRe = regexp.MustCompile(`[,|\n]`)

// Hostnames whose brand capitalization differs from naive title casing.
var hostLabels = map[string]string{
	"imdb.com":      "IMDb",
	"youtube.com":   "YouTube",
	"youtu.be":      "YouTube",
	"linkedin.com":  "LinkedIn",
	"instagram.com": "Instagram",
	"vimeo.com":     "Vimeo",
	"facebook.com":  "Facebook",
}

// IsVideoURL reports whether the URL points at a YouTube/Vimeo/Facebook
// video rather than a generic page.
func IsVideoURL(u string) bool {
	return videoURLRe.MatchString(u)
}

// ParseExternalLinks splits raw text on commas, pipes, and newlines,
// discards anything that is not an http(s) URL, and classifies each
// surviving token as a video or a labelled generic link.
func ParseExternalLinks(raw string) []ExternalLink {
	var out []ExternalLink
	for _, token := range linkSplitRe.Split(raw, -1) {
		token = strings.TrimSpace(token)
		if !strings.HasPrefix(token, "http") {
			continue
		}
		link := ExternalLink{URL: token}
		if IsVideoURL(token) {
			link.Video = true
		} else {
			link.Label = LabelForURL(token)
		}
		out = append(out, link)
	}
	return out
}

// LabelForURL derives a human label from the URL's hostname: brand names
// for the well-known sites, otherwise the capitalized hostname root
// ("example.com" → "Example"). Unparseable URLs get "Link".
func LabelForURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "Link"
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	if label, ok := hostLabels[host]; ok {
		return label
	}
	root, _, _ := strings.Cut(host, ".")
	if root == "" {
		return "Link"
	}
	runes := []rune(root)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
