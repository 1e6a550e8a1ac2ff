package resolve

import (
	"reflect"
	"testing"
)

func TestLookupMapResolve(t *testing.T) {
	m := LookupMap{"recAAA": "Sundance", "recBBB": "Acme Films"}

	if got := m.Resolve("recAAA"); got != "Sundance" {
		t.Errorf("got %q", got)
	}
	// Unmapped values pass through as free text.
	if got := m.Resolve("Tribeca"); got != "Tribeca" {
		t.Errorf("got %q", got)
	}

	got := m.ResolveAll([]string{"recAAA", "Tribeca"})
	if !reflect.DeepEqual(got, []string{"Sundance", "Tribeca"}) {
		t.Errorf("ResolveAll = %v", got)
	}
	if m.ResolveAll(nil) != nil {
		t.Error("ResolveAll(nil) should be nil")
	}

	if got := m.ResolveJoined([]string{"recBBB", "recAAA"}); got != "Acme Films, Sundance" {
		t.Errorf("ResolveJoined = %q", got)
	}
}
