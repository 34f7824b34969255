package stages

import (
	"context"
	"strings"

	"github.com/daniel/scriptstudio/internal/llm"
	"github.com/daniel/scriptstudio/internal/prompts"
)

// BuildOutline writes a free-text outline from the analysis and a chosen idea.
func BuildOutline(ctx context.Context, fb *llm.Fallback, analysis string, idea Idea, targetLength string) (string, error) {
	if strings.TrimSpace(analysis) == "" {
		return "", &InputError{Message: "analysis text is required"}
	}
	if strings.TrimSpace(idea.Title) == "" {
		return "", &InputError{Message: "a chosen idea is required"}
	}
	if targetLength == "" {
		targetLength = "about 10 minutes of narration"
	}

	prompt := prompts.Format(prompts.MustGet("video.json", "build-outline"), map[string]string{
		"Analysis":     analysis,
		"Idea":         idea.Title + ": " + idea.Logline,
		"TargetLength": targetLength,
	})

	raw, err := fb.Do(ctx, func(ctx context.Context, c llm.Client) (string, error) {
		return c.GenerateText(ctx, prompt)
	})
	if err != nil {
		return "", &APICallError{Stage: "build-outline", Cause: err}
	}

	return strings.TrimSpace(raw), nil
}
