package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel/scriptstudio/internal/stages"
)

func TestPickIdea_ByNumber(t *testing.T) {
	ideas := []stages.Idea{
		{Title: "first"},
		{Title: "second"},
		{Title: "third"},
	}

	idea, err := pickIdea(ideas, 2)
	require.NoError(t, err)
	assert.Equal(t, "second", idea.Title)
}

func TestPickIdea_OutOfRange(t *testing.T) {
	ideas := []stages.Idea{{Title: "only"}}

	_, err := pickIdea(ideas, 2)
	assert.Error(t, err)

	_, err = pickIdea(ideas, -1)
	assert.Error(t, err)
}
