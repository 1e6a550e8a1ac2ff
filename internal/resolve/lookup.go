package resolve

import "strings"

// LookupMap maps linked-record ids to display names. Built fresh on
// every sync from the auxiliary reference tables; never persisted.
type LookupMap map[string]string

// Resolve maps an id (or free text) to its display name, falling back to
// the raw value when unmapped.
func (m LookupMap) Resolve(idOrText string) string {
	if name, ok := m[idOrText]; ok {
		return name
	}
	return idOrText
}

// ResolveAll resolves every value, preserving order.
func (m LookupMap) ResolveAll(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = m.Resolve(v)
	}
	return out
}

// ResolveJoined resolves every value and joins them with ", ", used for
// single-string fields like the production company.
func (m LookupMap) ResolveJoined(values []string) string {
	return strings.Join(m.ResolveAll(values), ", ")
}
