package stages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ideasJSON = `[
	{"title": "The Last Ferry", "logline": "A night ferry hides a secret.", "hook": "Nobody got off.", "audience": "mystery fans"},
	{"title": "Glass Harbor", "logline": "A town that sells silence.", "hook": "The price doubled overnight.", "audience": "thriller fans"}
]`

func TestParseIdeas(t *testing.T) {
	ideas, err := parseIdeas(ideasJSON)
	require.NoError(t, err)
	require.Len(t, ideas, 2)
	assert.Equal(t, "The Last Ferry", ideas[0].Title)
	assert.Equal(t, "thriller fans", ideas[1].Audience)
}

func TestParseIdeas_Fenced(t *testing.T) {
	ideas, err := parseIdeas("```json\n" + ideasJSON + "\n```")
	require.NoError(t, err)
	assert.Len(t, ideas, 2)
}

func TestParseIdeas_ShapeViolation(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"malformed json", `[{"title": "x"`},
		{"missing fields", `[{"title": "x", "logline": "y"}]`},
		{"empty field", `[{"title": "", "logline": "l", "hook": "h", "audience": "a"}]`},
		{"empty array", `[]`},
		{"wrong shape", `{"title": "not an array"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseIdeas(tt.raw)

			var parseErr *ParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}

func TestGenerateIdeas(t *testing.T) {
	var sent []string
	fb := stubFallbackRecording(ideasJSON, &sent)

	ideas, err := GenerateIdeas(context.Background(), fb, "an analysis", 2)
	require.NoError(t, err)
	assert.Len(t, ideas, 2)
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "an analysis")
	assert.Contains(t, sent[0], "2")
}

func TestGenerateIdeas_EmptyAnalysis(t *testing.T) {
	_, err := GenerateIdeas(context.Background(), failingFallback(), "", 3)

	var inputErr *InputError
	assert.ErrorAs(t, err, &inputErr)
}
