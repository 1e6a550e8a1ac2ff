// Package meta implements the request-time social-meta rewriter: it
// classifies incoming paths, loads portfolio data through an ordered
// source fallback chain, and splices OpenGraph/Twitter/JSON-LD tags into
// the origin HTML. Any failure along the way degrades to passthrough;
// the rewriter must never block page delivery.
package meta

import "strings"

// PageKind classifies a request path into one of the configured page
// patterns. Unrecognized paths are PageOther and pass through untouched.
type PageKind int

const (
	PageOther PageKind = iota
	PageHome
	PageWorkIndex
	PageWorkDetail
	PageAbout
	PageJournalIndex
	PageJournalDetail
	PageGame
)

// ClassifyPath maps a request path onto a page kind plus, for detail
// pages, the slug (or record id) being addressed.
func ClassifyPath(path string) (PageKind, string) {
	trimmed := strings.Trim(path, "/")
	switch trimmed {
	case "":
		return PageHome, ""
	case "work":
		return PageWorkIndex, ""
	case "about":
		return PageAbout, ""
	case "journal":
		return PageJournalIndex, ""
	case "game":
		return PageGame, ""
	}
	if rest, ok := strings.CutPrefix(trimmed, "work/"); ok && rest != "" && !strings.Contains(rest, "/") {
		return PageWorkDetail, rest
	}
	if rest, ok := strings.CutPrefix(trimmed, "journal/"); ok && rest != "" && !strings.Contains(rest, "/") {
		return PageJournalDetail, rest
	}
	return PageOther, ""
}
