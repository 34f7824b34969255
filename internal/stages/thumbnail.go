package stages

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/daniel/scriptstudio/internal/llm"
	"github.com/daniel/scriptstudio/internal/prompts"
	"github.com/daniel/scriptstudio/internal/schemas"
)

// GenerateThumbnailLayout produces the thumbnail compositor contract: at most
// four short title lines plus a background prompt. Extra lines are truncated
// rather than failed; the compositor consumes exactly this shape.
func GenerateThumbnailLayout(ctx context.Context, fb *llm.Fallback, title, style string) (*ThumbnailLayout, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &InputError{Message: "video title is required"}
	}

	prompt := prompts.Format(prompts.MustGet("thumbnail.json", "thumbnail-layout"), map[string]string{
		"Title": title,
		"Style": style,
	})

	raw, err := fb.Do(ctx, func(ctx context.Context, c llm.Client) (string, error) {
		return c.GenerateJSON(ctx, prompt)
	})
	if err != nil {
		return nil, &APICallError{Stage: "thumbnail-layout", Cause: err}
	}

	return parseThumbnailLayout(raw)
}

func parseThumbnailLayout(raw string) (*ThumbnailLayout, error) {
	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.Validate(schemas.Thumbnail, []byte(cleaned)); err != nil {
		return nil, &ParseError{Stage: "thumbnail-layout", Message: "malformed layout", Cause: err}
	}

	var layout ThumbnailLayout
	if err := json.Unmarshal([]byte(cleaned), &layout); err != nil {
		return nil, &ParseError{Stage: "thumbnail-layout", Message: "failed to decode layout", Cause: err}
	}

	if len(layout.Lines) > MaxThumbnailLines {
		layout.Lines = layout.Lines[:MaxThumbnailLines]
	}
	return &layout, nil
}

// SplitTitleLines breaks a title into display lines of at most maxPerLine
// characters without splitting words, up to MaxThumbnailLines lines. This is
// the deterministic text-layout contract of the compositor; the remainder is
// folded into the last line rather than dropped.
func SplitTitleLines(title string, maxPerLine int) []string {
	if maxPerLine <= 0 {
		maxPerLine = 12
	}

	words := strings.Fields(title)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := ""
	for _, word := range words {
		switch {
		case current == "":
			current = word
		case len([]rune(current))+1+len([]rune(word)) <= maxPerLine:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	lines = append(lines, current)

	if len(lines) > MaxThumbnailLines {
		rest := strings.Join(lines[MaxThumbnailLines-1:], " ")
		lines = append(lines[:MaxThumbnailLines-1], rest)
	}
	return lines
}
