package stages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePromptList_JSON(t *testing.T) {
	list, err := parsePromptList("generate-image-prompts", `["prompt one", "prompt two"]`, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"prompt one", "prompt two"}, list)
}

func TestParsePromptList_NumberedLines(t *testing.T) {
	raw := "1. a wide shot of the harbor\n2: a close-up of wet cobblestones\n"
	list, err := parsePromptList("generate-image-prompts", raw, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a wide shot of the harbor", "a close-up of wet cobblestones"}, list)
}

func TestParsePromptList_CountMismatch(t *testing.T) {
	_, err := parsePromptList("generate-image-prompts", `["only one"]`, 3)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "one prompt per row")
}

func TestStripNumbering(t *testing.T) {
	assert.Equal(t, "hello", stripNumbering("1. hello"))
	assert.Equal(t, "hello", stripNumbering("12: hello"))
	assert.Equal(t, "hello", stripNumbering("3) hello"))
	assert.Equal(t, "no numbering", stripNumbering("no numbering"))
	assert.Equal(t, "4 horsemen arrive", stripNumbering("4 horsemen arrive"))
}

func TestGenerateImagePrompts_ContinuityPropagated(t *testing.T) {
	var sent []string
	fb := stubFallbackRecording(`["p1", "p2"]`, &sent)

	rows := []string{"row one", "row two"}
	_, err := GenerateImagePrompts(context.Background(), fb, rows, "noir", nil, "last prompt of segment 1")
	require.NoError(t, err)

	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "last prompt of segment 1")
	assert.Contains(t, sent[0], "1. row one")
}

func TestGenerateImagePrompts_NoRows(t *testing.T) {
	_, err := GenerateImagePrompts(context.Background(), failingFallback(), nil, "noir", nil, "")

	var inputErr *InputError
	assert.ErrorAs(t, err, &inputErr)
}

func TestGenerateVideoPrompts(t *testing.T) {
	fb := stubFallback(`["slow pan", "dolly in"]`)
	list, err := GenerateVideoPrompts(context.Background(), fb, []string{"a", "b"}, "noir", nil, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"slow pan", "dolly in"}, list)
}
