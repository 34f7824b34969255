package stages

import (
	"context"
	"strings"

	"github.com/daniel/scriptstudio/internal/llm"
	"github.com/daniel/scriptstudio/internal/prompts"
)

// styleLabel is the marker the analyze-structure template instructs the model
// to emit before the style section.
const styleLabel = "STYLE:"

// AnalyzeStructure runs the analyze-structure stage on a long-form script.
// The response is free text ending in a labeled style section, split out here.
func AnalyzeStructure(ctx context.Context, fb *llm.Fallback, script string) (*Analysis, error) {
	if strings.TrimSpace(script) == "" {
		return nil, &InputError{Message: "script text is required"}
	}

	prompt := prompts.Format(prompts.MustGet("video.json", "analyze-structure"), map[string]string{
		"Script": script,
	})

	raw, err := fb.Do(ctx, func(ctx context.Context, c llm.Client) (string, error) {
		return c.GenerateText(ctx, prompt)
	})
	if err != nil {
		return nil, &APICallError{Stage: "analyze-structure", Cause: err}
	}

	return splitAnalysis(raw), nil
}

// splitAnalysis separates the trailing style section from the analysis body.
// A missing label leaves Style empty rather than failing: free-text stages
// cannot fail on shape.
func splitAnalysis(raw string) *Analysis {
	idx := strings.LastIndex(raw, styleLabel)
	if idx < 0 {
		return &Analysis{Text: strings.TrimSpace(raw)}
	}
	return &Analysis{
		Text:  strings.TrimSpace(raw[:idx]),
		Style: strings.TrimSpace(raw[idx+len(styleLabel):]),
	}
}
