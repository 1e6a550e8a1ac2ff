// Package syncer implements the sync pipeline: the orchestrator that
// turns Airtable tables into the portfolio JSON artifacts, and the change
// detector driving incremental runs.
package syncer

import "github.com/starford/folio/internal/airtable"

// Changes classifies a table's records against a previous snapshot. The
// three sets are disjoint; element order carries no meaning.
type Changes struct {
	Changed []string
	New     []string
	Deleted []string
}

// Empty reports whether nothing changed.
func (c Changes) Empty() bool {
	return len(c.Changed) == 0 && len(c.New) == 0 && len(c.Deleted) == 0
}

// DetectChanges compares a previous {recordID: lastModified} snapshot
// against the current stamps. Pure function, no I/O.
func DetectChanges(prev map[string]string, current []airtable.Stamp) Changes {
	var c Changes
	seen := make(map[string]bool, len(current))
	for _, stamp := range current {
		seen[stamp.ID] = true
		prevMod, existed := prev[stamp.ID]
		switch {
		case !existed:
			c.New = append(c.New, stamp.ID)
		case prevMod != stamp.LastModified:
			c.Changed = append(c.Changed, stamp.ID)
		}
	}
	for id := range prev {
		if !seen[id] {
			c.Deleted = append(c.Deleted, id)
		}
	}
	return c
}
