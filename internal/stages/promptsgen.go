package stages

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/daniel/scriptstudio/internal/llm"
	"github.com/daniel/scriptstudio/internal/prompts"
)

// GenerateImagePrompts writes one image prompt per storyboard row, in order.
// previous is the optional continuity context: typically the last generated
// prompt of the prior segment.
func GenerateImagePrompts(ctx context.Context, fb *llm.Fallback, rows []string, style string, characters []CharacterProfile, previous string) ([]string, error) {
	return generatePromptList(ctx, fb, "generate-image-prompts", rows, style, characters, previous)
}

// GenerateVideoPrompts writes one video-motion prompt per storyboard row.
func GenerateVideoPrompts(ctx context.Context, fb *llm.Fallback, rows []string, style string, characters []CharacterProfile, previous string) ([]string, error) {
	return generatePromptList(ctx, fb, "generate-video-prompts", rows, style, characters, previous)
}

func generatePromptList(ctx context.Context, fb *llm.Fallback, stage string, rows []string, style string, characters []CharacterProfile, previous string) ([]string, error) {
	if len(rows) == 0 {
		return nil, &InputError{Message: "rows are required; split the segment first"}
	}

	prompt := prompts.Format(prompts.MustGet("visual.json", stage), map[string]string{
		"Rows":       numberedBlock(rows),
		"Style":      style,
		"Characters": characterBlock(characters),
		"Continuity": continuityBlock(previous),
	})

	raw, err := fb.Do(ctx, func(ctx context.Context, c llm.Client) (string, error) {
		return c.GenerateJSON(ctx, prompt)
	})
	if err != nil {
		return nil, &APICallError{Stage: stage, Cause: err}
	}

	return parsePromptList(stage, raw, len(rows))
}

// parsePromptList normalizes a prompt-list response (JSON array or newline
// list) and enforces one prompt per input row.
func parsePromptList(stage, raw string, want int) ([]string, error) {
	cleaned := llm.CleanJSONBlock(raw)

	var list []string
	var values []any
	if err := json.Unmarshal([]byte(cleaned), &values); err == nil {
		list = llm.NormalizeStringList(values)
	} else {
		for _, line := range strings.Split(cleaned, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			list = append(list, stripNumbering(line))
		}
	}

	if len(list) != want {
		return nil, &ParseError{Stage: stage, Message: "expected one prompt per row"}
	}
	return list, nil
}

// stripNumbering removes a leading "N." or "N:" list marker.
func stripNumbering(line string) string {
	for i, r := range line {
		if r >= '0' && r <= '9' {
			continue
		}
		if (r == '.' || r == ':' || r == ')') && i > 0 {
			return strings.TrimSpace(line[i+1:])
		}
		break
	}
	return line
}
