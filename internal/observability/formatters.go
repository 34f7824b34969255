// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/daniel/scriptstudio/internal/pipeline"
	"github.com/daniel/scriptstudio/internal/stages"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}

// PrintAnalysis outputs the document structure analysis and recommended style.
func (p *Printer) PrintAnalysis(analysis *stages.Analysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Style:  %s\n\n", analysis.Style))

	lines := strings.Split(analysis.Text, "\n")
	count := min(len(lines), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(truncate(lines[i], 50))
		sb.WriteString("\n")
	}
	if len(lines) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more lines\n", len(lines)-maxItemsToShow))
	}

	p.printBox("DOCUMENT ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintIdeas outputs generated video ideas.
func (p *Printer) PrintIdeas(ideas []stages.Idea) {
	if len(ideas) == 0 {
		return
	}

	var sb strings.Builder
	for i, idea := range ideas {
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, truncate(idea.Title, 48)))
		if idea.Hook != "" {
			sb.WriteString(fmt.Sprintf("    Hook: %s\n", truncate(idea.Hook, 44)))
		}
		if i < len(ideas)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("VIDEO IDEAS", sb.String())
}

// PrintCharacters outputs designed character profiles.
func (p *Printer) PrintCharacters(characters []stages.CharacterProfile) {
	if len(characters) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(characters), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := characters[i]
		sb.WriteString(fmt.Sprintf("• %s (%s, %s)\n", c.Name, c.Gender, c.Age))
		sb.WriteString(fmt.Sprintf("  %s\n", truncate(c.Body, 48)))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(characters) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more characters", len(characters)-maxItemsToShow))
	}

	p.printBox("CHARACTER PROFILES", sb.String())
}

// PrintSegments outputs the per-segment pipeline state.
func (p *Printer) PrintSegments(segments []*pipeline.Segment) {
	if len(segments) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total segments: %d\n\n", len(segments)))

	for i, seg := range segments {
		sb.WriteString(fmt.Sprintf("#%d  [%s]\n", i+1, seg.Status))
		sb.WriteString(fmt.Sprintf("    %s\n", truncate(seg.Source, 44)))
		if len(seg.Rows) > 0 {
			sb.WriteString(fmt.Sprintf("    Rows: %d  Prompts: %d\n", len(seg.Rows), len(seg.ImagePrompts)))
		}
		if i < len(segments)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("PIPELINE SEGMENTS", sb.String())
}

// PrintShots outputs per-shot action entries.
func (p *Printer) PrintShots(shots []stages.Shot) {
	if len(shots) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total shots: %d\n\n", len(shots)))

	count := min(len(shots), maxItemsToShow)
	for i := 0; i < count; i++ {
		shot := shots[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, truncate(shot.Action, 48)))
		if shot.Line != "" {
			sb.WriteString(fmt.Sprintf("    \"%s\"\n", truncate(shot.Line, 44)))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(shots) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more shots", len(shots)-maxItemsToShow))
	}

	p.printBox("SHOT LIST", sb.String())
}

// PrintThumbnail outputs the generated thumbnail layout.
func (p *Printer) PrintThumbnail(layout *stages.ThumbnailLayout) {
	if layout == nil || len(layout.Lines) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString("Text lines:\n")
	for _, line := range layout.Lines {
		sb.WriteString(fmt.Sprintf("  %s\n", truncate(line, 48)))
	}
	sb.WriteString("\nBackground:\n")
	sb.WriteString(fmt.Sprintf("  %s", truncate(layout.BackgroundPrompt, 48)))

	p.printBox("THUMBNAIL LAYOUT", sb.String())
}

// PrintProgress outputs one auto-run progress event on a single line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProgress(ev pipeline.ProgressEvent) {
	if ev.Segment > 0 {
		fmt.Fprintf(p.out, "[%d/%d] %s\n", ev.Segment, ev.Total, ev.Message)
		return
	}
	fmt.Fprintf(p.out, "[*] %s\n", ev.Message)
}
