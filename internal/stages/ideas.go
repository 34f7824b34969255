package stages

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/daniel/scriptstudio/internal/llm"
	"github.com/daniel/scriptstudio/internal/prompts"
	"github.com/daniel/scriptstudio/internal/schemas"
)

// GenerateIdeas proposes count new video ideas from an analysis.
// Contract: JSON array of fixed-shape idea objects, schema-checked.
func GenerateIdeas(ctx context.Context, fb *llm.Fallback, analysis string, count int) ([]Idea, error) {
	if strings.TrimSpace(analysis) == "" {
		return nil, &InputError{Message: "analysis text is required"}
	}
	if count <= 0 {
		count = 5
	}

	prompt := prompts.Format(prompts.MustGet("video.json", "generate-ideas"), map[string]string{
		"Analysis": analysis,
		"Count":    strconv.Itoa(count),
	})

	raw, err := fb.Do(ctx, func(ctx context.Context, c llm.Client) (string, error) {
		return c.GenerateJSON(ctx, prompt)
	})
	if err != nil {
		return nil, &APICallError{Stage: "generate-ideas", Cause: err}
	}

	return parseIdeas(raw)
}

func parseIdeas(raw string) ([]Idea, error) {
	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.Validate(schemas.Ideas, []byte(cleaned)); err != nil {
		return nil, &ParseError{Stage: "generate-ideas", Message: "malformed idea list", Cause: err}
	}

	var ideas []Idea
	if err := json.Unmarshal([]byte(cleaned), &ideas); err != nil {
		return nil, &ParseError{Stage: "generate-ideas", Message: "failed to decode idea list", Cause: err}
	}
	return ideas, nil
}
