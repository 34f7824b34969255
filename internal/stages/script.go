package stages

import (
	"context"
	"strings"

	"github.com/daniel/scriptstudio/internal/llm"
	"github.com/daniel/scriptstudio/internal/prompts"
)

// WriteFinalScript writes the dialogue-only final script from an outline.
func WriteFinalScript(ctx context.Context, fb *llm.Fallback, outline, style string) (string, error) {
	if strings.TrimSpace(outline) == "" {
		return "", &InputError{Message: "outline text is required"}
	}

	prompt := prompts.Format(prompts.MustGet("video.json", "write-final-script"), map[string]string{
		"Outline": outline,
		"Style":   style,
	})

	raw, err := fb.Do(ctx, func(ctx context.Context, c llm.Client) (string, error) {
		return c.GenerateText(ctx, prompt)
	})
	if err != nil {
		return "", &APICallError{Stage: "write-final-script", Cause: err}
	}

	return strings.TrimSpace(raw), nil
}
