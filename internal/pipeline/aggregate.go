package pipeline

import "strings"

// Field selects which per-segment list CollectAll gathers.
type Field string

const (
	FieldRows         Field = "rows"
	FieldImagePrompts Field = "image_prompts"
	FieldVideoPrompts Field = "video_prompts"
)

// CollectAll flattens one field across all segments in order. Entries are
// cleaned for export: internal newlines collapse to spaces, wrapping quotes
// are stripped, and blanks are dropped. Segments that never produced the
// field contribute nothing.
func CollectAll(segments []*Segment, field Field) []string {
	var out []string
	for _, seg := range segments {
		var list []string
		switch field {
		case FieldRows:
			list = seg.Rows
		case FieldImagePrompts:
			list = seg.ImagePrompts
		case FieldVideoPrompts:
			list = seg.VideoPrompts
		}
		for _, entry := range list {
			cleaned := cleanEntry(entry)
			if cleaned == "" {
				continue
			}
			out = append(out, cleaned)
		}
	}
	return out
}

func cleanEntry(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}
