package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fence with language id", "```javascript\n[1, 2]\n```", "[1, 2]"},
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"surrounding whitespace", "  ```json\n[]\n```  ", "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}

func TestNormalizeToString(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"plain string", "  hello  ", "hello"},
		{"object with text field", map[string]any{"text": "a prompt"}, "a prompt"},
		{"object with prompt field", map[string]any{"prompt": "wide shot"}, "wide shot"},
		{"text wins over prompt", map[string]any{"text": "t", "prompt": "p"}, "t"},
		{"object with no known field", map[string]any{"foo": "bar"}, ""},
		{"non-string value", 42, ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeToString(tt.input))
		})
	}
}

func TestNormalizeStringList(t *testing.T) {
	input := []any{
		"first",
		map[string]any{"text": "second"},
		map[string]any{"unknown": "x"},
		"",
		"third",
	}
	assert.Equal(t, []string{"first", "second", "third"}, NormalizeStringList(input))
}
