// Package airtable implements a minimal client for the Airtable REST API:
// paginated table fetches with bearer-token auth, cheap id+timestamp scans,
// and selective fetches by record id.
package airtable

// Record is one raw row from a table. Fields values are untyped as
// delivered by the API: strings, numbers, bools, string arrays, linked
// record id arrays, or attachment object arrays. Records are never
// mutated; they are discarded once mapped into domain types.
type Record struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// Attachment is one entry of an attachment-type field.
type Attachment struct {
	URL        string            `json:"url"`
	Width      int               `json:"width,omitempty"`
	Height     int               `json:"height,omitempty"`
	Type       string            `json:"type,omitempty"`
	Thumbnails map[string]string `json:"thumbnails,omitempty"`
}

// Stamp pairs a record id with its last-modified timestamp, used for
// staleness checks without pulling full payloads.
type Stamp struct {
	ID           string
	LastModified string
}

// Str returns the field as a string, or "" when absent or not a string.
func (r Record) Str(name string) string {
	s, _ := r.Fields[name].(string)
	return s
}

// Strings returns the field as a string slice. A plain string becomes a
// one-element slice; linked-record and multi-select fields arrive as
// []any and are filtered to their string members.
func (r Record) Strings(name string) []string {
	switch v := r.Fields[name].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Bool returns the field as a bool; absent or mistyped fields are false.
func (r Record) Bool(name string) bool {
	b, _ := r.Fields[name].(bool)
	return b
}

// Attachments decodes an attachment-type field. Entries without a URL
// are skipped.
func (r Record) Attachments(name string) []Attachment {
	items, ok := r.Fields[name].([]any)
	if !ok {
		return nil
	}
	out := make([]Attachment, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		att := Attachment{}
		att.URL, _ = m["url"].(string)
		if att.URL == "" {
			continue
		}
		if w, ok := m["width"].(float64); ok {
			att.Width = int(w)
		}
		if h, ok := m["height"].(float64); ok {
			att.Height = int(h)
		}
		att.Type, _ = m["type"].(string)
		if thumbs, ok := m["thumbnails"].(map[string]any); ok {
			att.Thumbnails = make(map[string]string, len(thumbs))
			for size, t := range thumbs {
				if tm, ok := t.(map[string]any); ok {
					if u, ok := tm["url"].(string); ok {
						att.Thumbnails[size] = u
					}
				}
			}
		}
		out = append(out, att)
	}
	return out
}
