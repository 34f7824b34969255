// Package pipeline holds the per-document state machine that drives the stage
// functions, both manually per stage and in sequential auto-run mode.
package pipeline

import (
	"github.com/google/uuid"

	"github.com/daniel/scriptstudio/internal/chunker"
	"github.com/daniel/scriptstudio/internal/stages"
)

// Status is the lifecycle state of a segment.
type Status string

// Segment statuses.
const (
	StatusIdle       Status = "idle"
	StatusSplitting  Status = "splitting"
	StatusAnalyzing  Status = "analyzing"
	StatusGenerating Status = "generating"
	StatusReady      Status = "ready"
)

// Segment is the unit of pipeline work: one chunk of the source document plus
// everything the stages derived from it. Stages mutate it in place through
// their completion handlers; nothing else writes to it.
type Segment struct {
	ID           uuid.UUID     `json:"id"`
	Source       string        `json:"source"`
	Rows         []string      `json:"rows,omitempty"`
	ImagePrompts []string      `json:"image_prompts,omitempty"`
	VideoPrompts []string      `json:"video_prompts,omitempty"`
	Shots        []stages.Shot `json:"shots,omitempty"`
	Status       Status        `json:"status"`
	SceneCount   int           `json:"scene_count,omitempty"`
	ActionCount  int           `json:"action_count,omitempty"`
}

// Document is the root aggregate of one app instance: the ordered segments
// plus the cross-cutting artifacts shared by all of them. It is owned by a
// single session and never shared across instances.
type Document struct {
	Segments   []*Segment                `json:"segments"`
	Analysis   *stages.Analysis          `json:"analysis,omitempty"`
	Style      string                    `json:"style,omitempty"`
	Characters []stages.CharacterProfile `json:"characters,omitempty"`
	Idea       *stages.Idea              `json:"idea,omitempty"`
	Outline    string                    `json:"outline,omitempty"`
	Script     string                    `json:"script,omitempty"`
}

// NewDocument chunks text under the default policy for its script and wraps
// each chunk in an idle segment.
func NewDocument(text string) *Document {
	return NewDocumentWithPolicy(text, chunker.PolicyFor(chunker.DetectScript(text)))
}

// NewDocumentWithPolicy chunks text under an explicit policy.
func NewDocumentWithPolicy(text string, policy chunker.Policy) *Document {
	chunks := chunker.SplitWithPolicy(text, policy)
	doc := &Document{Segments: make([]*Segment, 0, len(chunks))}
	for _, chunk := range chunks {
		doc.Segments = append(doc.Segments, &Segment{
			ID:     uuid.New(),
			Source: chunk,
			Status: StatusIdle,
		})
	}
	return doc
}

// RemoveSegment deletes a segment by ID. Explicit user removal is the only
// way a segment leaves a document.
func (d *Document) RemoveSegment(id uuid.UUID) bool {
	for i, seg := range d.Segments {
		if seg.ID == id {
			d.Segments = append(d.Segments[:i], d.Segments[i+1:]...)
			return true
		}
	}
	return false
}

// SourceText reassembles the full source from the segments in order.
func (d *Document) SourceText() string {
	var out string
	for i, seg := range d.Segments {
		if i > 0 {
			out += "\n\n"
		}
		out += seg.Source
	}
	return out
}
