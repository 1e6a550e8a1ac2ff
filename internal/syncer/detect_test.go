package syncer

import (
	"sort"
	"testing"

	"github.com/starford/folio/internal/airtable"
)

func TestDetectChanges(t *testing.T) {
	prev := map[string]string{
		"rec1": "2026-01-01T00:00:00.000Z",
		"rec2": "2026-01-01T00:00:00.000Z",
		"rec3": "2026-01-01T00:00:00.000Z",
	}
	current := []airtable.Stamp{
		{ID: "rec1", LastModified: "2026-02-01T00:00:00.000Z"}, // changed
		{ID: "rec2", LastModified: "2026-01-01T00:00:00.000Z"}, // unchanged
		{ID: "rec4", LastModified: "2026-02-01T00:00:00.000Z"}, // new
	}

	c := DetectChanges(prev, current)
	if got := c.Changed; len(got) != 1 || got[0] != "rec1" {
		t.Errorf("Changed = %v", got)
	}
	if got := c.New; len(got) != 1 || got[0] != "rec4" {
		t.Errorf("New = %v", got)
	}
	if got := c.Deleted; len(got) != 1 || got[0] != "rec3" {
		t.Errorf("Deleted = %v", got)
	}
	if c.Empty() {
		t.Error("Empty() = true")
	}
}

func TestDetectChanges_NoChanges(t *testing.T) {
	prev := map[string]string{"rec1": "a", "rec2": "b"}
	current := []airtable.Stamp{
		{ID: "rec1", LastModified: "a"},
		{ID: "rec2", LastModified: "b"},
	}
	c := DetectChanges(prev, current)
	if !c.Empty() {
		t.Errorf("changes = %+v, want empty", c)
	}
}

func TestDetectChanges_EmptySnapshot(t *testing.T) {
	current := []airtable.Stamp{{ID: "rec1"}, {ID: "rec2"}}
	c := DetectChanges(nil, current)

	got := append([]string{}, c.New...)
	sort.Strings(got)
	if len(got) != 2 || got[0] != "rec1" || got[1] != "rec2" {
		t.Errorf("New = %v", c.New)
	}
	if len(c.Changed) != 0 || len(c.Deleted) != 0 {
		t.Errorf("changes = %+v", c)
	}
}

func TestDetectChanges_EmptyTable(t *testing.T) {
	c := DetectChanges(map[string]string{"rec1": "a"}, nil)
	if len(c.Deleted) != 1 || c.Deleted[0] != "rec1" {
		t.Errorf("Deleted = %v", c.Deleted)
	}
}
