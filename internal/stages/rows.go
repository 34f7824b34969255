package stages

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"unicode"

	"github.com/daniel/scriptstudio/internal/llm"
	"github.com/daniel/scriptstudio/internal/prompts"
)

// SplitRows splits a segment into rowCount storyboard rows. The response may
// be a JSON string array or a newline-delimited list; both normalize to a
// string slice. A result that loses, adds, or reorders characters relative to
// the input is a contract violation and fails the stage.
func SplitRows(ctx context.Context, fb *llm.Fallback, text string, rowCount int) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &InputError{Message: "segment text is required"}
	}
	if rowCount <= 0 {
		rowCount = 8
	}

	prompt := prompts.Format(prompts.MustGet("visual.json", "split-into-rows"), map[string]string{
		"Text":     text,
		"RowCount": strconv.Itoa(rowCount),
	})

	raw, err := fb.Do(ctx, func(ctx context.Context, c llm.Client) (string, error) {
		return c.GenerateJSON(ctx, prompt)
	})
	if err != nil {
		return nil, &APICallError{Stage: "split-into-rows", Cause: err}
	}

	rows, err := parseRows(raw)
	if err != nil {
		return nil, err
	}

	if !preservesText(text, rows) {
		return nil, &ParseError{Stage: "split-into-rows", Message: "row split dropped or altered characters of the original text"}
	}
	return rows, nil
}

// parseRows normalizes a row-split response to a string slice: JSON array
// first, newline-delimited list as the fallback.
func parseRows(raw string) ([]string, error) {
	cleaned := llm.CleanJSONBlock(raw)

	var values []any
	if err := json.Unmarshal([]byte(cleaned), &values); err == nil {
		rows := llm.NormalizeStringList(values)
		if len(rows) == 0 {
			return nil, &ParseError{Stage: "split-into-rows", Message: "row list is empty"}
		}
		return rows, nil
	}

	var rows []string
	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rows = append(rows, line)
	}
	if len(rows) == 0 {
		return nil, &ParseError{Stage: "split-into-rows", Message: "row list is empty"}
	}
	return rows, nil
}

// preservesText reports whether the concatenated rows reconstruct the
// original text under whitespace normalization.
func preservesText(original string, rows []string) bool {
	strip := func(s string) string {
		return strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, s)
	}
	return strip(original) == strip(strings.Join(rows, ""))
}
