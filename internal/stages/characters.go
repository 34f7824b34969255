package stages

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/daniel/scriptstudio/internal/llm"
	"github.com/daniel/scriptstudio/internal/prompts"
	"github.com/daniel/scriptstudio/internal/schemas"
)

// DesignCharacters extracts the recurring character roster from a script.
// Contract: JSON array of character objects, schema-checked. The template
// enforces neutral-expression-only feature text; that is a generation-quality
// contract carried in the instruction, not a type-level invariant.
func DesignCharacters(ctx context.Context, fb *llm.Fallback, script, style string) ([]CharacterProfile, error) {
	if strings.TrimSpace(script) == "" {
		return nil, &InputError{Message: "script text is required"}
	}

	prompt := prompts.Format(prompts.MustGet("visual.json", "design-characters"), map[string]string{
		"Script": script,
		"Style":  style,
	})

	raw, err := fb.Do(ctx, func(ctx context.Context, c llm.Client) (string, error) {
		return c.GenerateJSON(ctx, prompt)
	})
	if err != nil {
		return nil, &APICallError{Stage: "design-characters", Cause: err}
	}

	return parseCharacters(raw)
}

func parseCharacters(raw string) ([]CharacterProfile, error) {
	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.Validate(schemas.Characters, []byte(cleaned)); err != nil {
		return nil, &ParseError{Stage: "design-characters", Message: "malformed character list", Cause: err}
	}

	var characters []CharacterProfile
	if err := json.Unmarshal([]byte(cleaned), &characters); err != nil {
		return nil, &ParseError{Stage: "design-characters", Message: "failed to decode character list", Cause: err}
	}
	return characters, nil
}
