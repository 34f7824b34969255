package stages

import (
	"context"
	"strings"

	"github.com/daniel/scriptstudio/internal/llm"
	"github.com/daniel/scriptstudio/internal/prompts"
)

// RecommendStyle asks the model to pick the best-fitting visual style for a
// script from the caller's known style names. The echoed identifier is matched
// against the list; an unmatched answer falls back to the first known style so
// a cosmetic echo difference never fails the pipeline.
func RecommendStyle(ctx context.Context, fb *llm.Fallback, script string, known []string) (string, error) {
	if strings.TrimSpace(script) == "" {
		return "", &InputError{Message: "script text is required"}
	}
	if len(known) == 0 {
		return "", &InputError{Message: "at least one known style is required"}
	}

	prompt := prompts.Format(prompts.MustGet("visual.json", "recommend-style"), map[string]string{
		"Script": script,
		"Styles": strings.Join(known, "\n"),
	})

	raw, err := fb.Do(ctx, func(ctx context.Context, c llm.Client) (string, error) {
		return c.GenerateText(ctx, prompt)
	})
	if err != nil {
		return "", &APICallError{Stage: "recommend-style", Cause: err}
	}

	return matchStyle(raw, known), nil
}

// matchStyle resolves the model's answer against the known list: exact
// case-insensitive match first, then substring containment either way, then
// the first known style as the default.
func matchStyle(answer string, known []string) string {
	answer = strings.TrimSpace(strings.Trim(strings.TrimSpace(answer), `"'`))

	for _, style := range known {
		if strings.EqualFold(answer, style) {
			return style
		}
	}

	lower := strings.ToLower(answer)
	for _, style := range known {
		ls := strings.ToLower(style)
		if lower != "" && (strings.Contains(lower, ls) || strings.Contains(ls, lower)) {
			return style
		}
	}

	return known[0]
}
