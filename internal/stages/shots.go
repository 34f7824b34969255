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

// AnalyzeActions breaks a segment into per-shot entries carrying an action
// summary, optional spoken line, a video-motion prompt, and an image prompt.
// The image prompt is mandated non-empty by both template and schema.
func AnalyzeActions(ctx context.Context, fb *llm.Fallback, segment, style string, characters []CharacterProfile) ([]Shot, error) {
	if strings.TrimSpace(segment) == "" {
		return nil, &InputError{Message: "segment text is required"}
	}

	prompt := prompts.Format(prompts.MustGet("zenshot.json", "analyze-actions"), map[string]string{
		"Segment":    segment,
		"Style":      style,
		"Characters": characterBlock(characters),
	})

	raw, err := fb.Do(ctx, func(ctx context.Context, c llm.Client) (string, error) {
		return c.GenerateJSON(ctx, prompt)
	})
	if err != nil {
		return nil, &APICallError{Stage: "analyze-actions", Cause: err}
	}

	return parseShots(raw)
}

func parseShots(raw string) ([]Shot, error) {
	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.Validate(schemas.Shots, []byte(cleaned)); err != nil {
		return nil, &ParseError{Stage: "analyze-actions", Message: "malformed shot list", Cause: err}
	}

	var shots []Shot
	if err := json.Unmarshal([]byte(cleaned), &shots); err != nil {
		return nil, &ParseError{Stage: "analyze-actions", Message: "failed to decode shot list", Cause: err}
	}
	return shots, nil
}

// CountActions runs the independent action-count stage on a segment.
// Contract: a JSON object {"count": n} or a bare number.
func CountActions(ctx context.Context, fb *llm.Fallback, segment string) (int, error) {
	if strings.TrimSpace(segment) == "" {
		return 0, &InputError{Message: "segment text is required"}
	}

	prompt := prompts.Format(prompts.MustGet("zenshot.json", "count-actions"), map[string]string{
		"Segment": segment,
	})

	raw, err := fb.Do(ctx, func(ctx context.Context, c llm.Client) (string, error) {
		return c.GenerateJSON(ctx, prompt)
	})
	if err != nil {
		return 0, &APICallError{Stage: "count-actions", Cause: err}
	}

	return parseCount(raw)
}

func parseCount(raw string) (int, error) {
	cleaned := llm.CleanJSONBlock(raw)

	var obj struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(cleaned), &obj); err == nil && obj.Count > 0 {
		return obj.Count, nil
	}

	if n, err := strconv.Atoi(strings.TrimSpace(cleaned)); err == nil && n > 0 {
		return n, nil
	}

	return 0, &ParseError{Stage: "count-actions", Message: "response is not a positive count: " + cleaned}
}
