// Package stages implements the named generation operations of the content
// pipelines. Each stage is one call through the llm fallback executor with a
// task-specific instruction template and a declared response contract.
package stages

import (
	"fmt"
	"strings"
)

// Analysis is the output of the analyze-structure stage: the free-text
// analysis body plus the style section the caller extracts from its tail.
type Analysis struct {
	Text  string `json:"text"`
	Style string `json:"style"`
}

// Idea is one proposed video idea.
type Idea struct {
	Title    string `json:"title"`
	Logline  string `json:"logline"`
	Hook     string `json:"hook"`
	Audience string `json:"audience"`
}

// CharacterProfile describes a recurring character for image generation.
// Features carry neutral physical structure only; the prompt contract forbids
// transient expression or narrative state.
type CharacterProfile struct {
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	Nationality string `json:"nationality"`
	Age         string `json:"age"`
	Body        string `json:"body"`
	Features    string `json:"features"`
}

// Shot is one entry of the per-shot action analysis.
type Shot struct {
	Action      string `json:"action"`
	Line        string `json:"line"`
	VideoPrompt string `json:"video_prompt"`
	ImagePrompt string `json:"image_prompt"`
}

// ThumbnailLayout is the thumbnail compositor contract: up to four short
// title lines plus a background image prompt.
type ThumbnailLayout struct {
	Lines            []string `json:"lines"`
	BackgroundPrompt string   `json:"background_prompt"`
}

// MaxThumbnailLines bounds the title lines a layout may carry.
const MaxThumbnailLines = 4

// characterBlock renders the roster as prompt reference text.
func characterBlock(characters []CharacterProfile) string {
	if len(characters) == 0 {
		return "(none)"
	}
	var sb strings.Builder
	for _, c := range characters {
		fmt.Fprintf(&sb, "- %s (%s, %s, %s): %s; %s\n", c.Name, c.Gender, c.Nationality, c.Age, c.Body, c.Features)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// numberedBlock renders rows as "N. text" lines for prompts.
func numberedBlock(rows []string) string {
	var sb strings.Builder
	for i, row := range rows {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, strings.ReplaceAll(row, "\n", " "))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// continuityBlock renders the optional carry-over context from the previous
// segment. Continuity is an explicit propagated argument, never shared state.
func continuityBlock(previous string) string {
	previous = strings.TrimSpace(previous)
	if previous == "" {
		return ""
	}
	return "Continuity: the previous segment ended on this prompt; keep setting and costumes consistent with it:\n" + previous
}
