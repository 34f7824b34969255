package stages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchStyle(t *testing.T) {
	known := []string{"Cinematic Realism", "Watercolor", "Retro Anime"}

	tests := []struct {
		name   string
		answer string
		want   string
	}{
		{"exact", "Watercolor", "Watercolor"},
		{"case insensitive", "watercolor", "Watercolor"},
		{"quoted", `"Retro Anime"`, "Retro Anime"},
		{"answer embeds style", "I would pick Retro Anime for this.", "Retro Anime"},
		{"partial answer", "Cinematic", "Cinematic Realism"},
		{"no match falls back to first", "Oil Painting", "Cinematic Realism"},
		{"empty falls back to first", "", "Cinematic Realism"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchStyle(tt.answer, known))
		})
	}
}

func TestRecommendStyle(t *testing.T) {
	fb := stubFallback("Watercolor\n")
	style, err := RecommendStyle(context.Background(), fb, "a gentle story", []string{"Cinematic Realism", "Watercolor"})
	require.NoError(t, err)
	assert.Equal(t, "Watercolor", style)
}

func TestRecommendStyle_NoKnownStyles(t *testing.T) {
	_, err := RecommendStyle(context.Background(), failingFallback(), "a story", nil)

	var inputErr *InputError
	assert.ErrorAs(t, err, &inputErr)
}
