package llm

import "strings"

// CleanJSONBlock removes markdown code block wrappers from JSON responses.
// Models often wrap JSON in ```json ... ``` blocks even when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a potential language identifier on the first line.
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}

// NormalizeToString flattens a decoded JSON value into a plain string. Models
// asked for string arrays sometimes return object elements instead; this is
// the single place that unwraps them, probing the conventional text-bearing
// fields in a fixed order.
func NormalizeToString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case map[string]any:
		for _, field := range []string{"text", "prompt", "content", "value", "description"} {
			if inner, ok := val[field]; ok {
				if s, ok := inner.(string); ok && strings.TrimSpace(s) != "" {
					return strings.TrimSpace(s)
				}
			}
		}
		return ""
	default:
		return ""
	}
}

// NormalizeStringList applies NormalizeToString across a decoded JSON array,
// dropping entries that normalize to empty.
func NormalizeStringList(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s := NormalizeToString(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}
