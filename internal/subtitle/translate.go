package subtitle

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/daniel/scriptstudio/internal/llm"
	"github.com/daniel/scriptstudio/internal/prompts"
)

// TranslateError reports a translation response that violated the batch
// contract.
type TranslateError struct {
	Message string
	Cause   error
}

func (e *TranslateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("translate-batch: %s: %v", e.Message, e.Cause)
	}
	return "translate-batch: " + e.Message
}

func (e *TranslateError) Unwrap() error {
	return e.Cause
}

var lineNumbering = regexp.MustCompile(`^\s*\d+\s*[:.)\-]\s*`)

// TranslateBatch translates the text of every item into language, preserving
// index, timecode, and order. notes carries optional user style instructions
// injected into the prompt.
func TranslateBatch(ctx context.Context, fb *llm.Fallback, items []Item, language, notes string) ([]Item, error) {
	if len(items) == 0 {
		return nil, &TranslateError{Message: "batch is empty"}
	}
	if strings.TrimSpace(language) == "" {
		return nil, &TranslateError{Message: "target language is required"}
	}

	var lines strings.Builder
	for i, item := range items {
		fmt.Fprintf(&lines, "%d: %s\n", i+1, strings.ReplaceAll(item.Text, "\n", " "))
	}

	noteBlock := ""
	if strings.TrimSpace(notes) != "" {
		noteBlock = "Style instructions: " + strings.TrimSpace(notes) + "\n"
	}

	prompt := prompts.Format(prompts.MustGet("translate.json", "translate-batch"), map[string]string{
		"Language": language,
		"Notes":    noteBlock,
		"Lines":    strings.TrimRight(lines.String(), "\n"),
	})

	raw, err := fb.Do(ctx, func(ctx context.Context, c llm.Client) (string, error) {
		return c.GenerateText(ctx, prompt)
	})
	if err != nil {
		return nil, &TranslateError{Message: "generation failed", Cause: err}
	}

	translated, err := parseTranslatedLines(raw, len(items))
	if err != nil {
		return nil, err
	}

	out := make([]Item, len(items))
	for i, item := range items {
		out[i] = Item{Index: item.Index, Timecode: item.Timecode, Text: translated[i]}
	}
	return out, nil
}

// parseTranslatedLines extracts exactly want translated lines, tolerating the
// numbering prefix being echoed or omitted.
func parseTranslatedLines(raw string, want int) ([]string, error) {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, lineNumbering.ReplaceAllString(line, ""))
	}

	if len(lines) != want {
		return nil, &TranslateError{
			Message: fmt.Sprintf("expected %d translated lines, got %d", want, len(lines)),
		}
	}
	return lines, nil
}
