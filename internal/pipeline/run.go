package pipeline

import (
	"context"
	"fmt"

	"github.com/daniel/scriptstudio/internal/llm"
	"github.com/daniel/scriptstudio/internal/stages"
)

// ProgressEvent reports stage-level progress during manual runs and auto-run.
type ProgressEvent struct {
	Stage   string `json:"stage"`
	Segment int    `json:"segment"` // 1-based, 0 for document-level stages
	Total   int    `json:"total"`
	Message string `json:"message"`
}

// Decision tells auto-run what to do after a segment stage has failed its
// retry budget.
type Decision int

const (
	// DecisionAbort stops the auto-run and surfaces the failure.
	DecisionAbort Decision = iota
	// DecisionSkip abandons the failing segment and moves to the next one.
	DecisionSkip
)

// Runner executes pipeline stages against a document, either one stage at a
// time or sequentially across all segments via AutoRun. Stage functions are
// fields so tests can substitute canned behavior without a live client.
type Runner struct {
	FB       *llm.Fallback
	RowCount int
	Delays   DelayPolicy

	// StageRetries is the number of additional attempts after a stage's
	// first failure. The fallback layer already rotates credentials and
	// models inside one attempt.
	StageRetries int

	OnProgress func(ProgressEvent)
	// OnFailure decides whether auto-run continues after a segment stage
	// exhausted its retries. Nil means abort.
	OnFailure func(segment int, stage string, err error) Decision

	CountStage       func(ctx context.Context, fb *llm.Fallback, segment string) (int, error)
	SplitStage       func(ctx context.Context, fb *llm.Fallback, text string, rowCount int) ([]string, error)
	ImagePromptStage func(ctx context.Context, fb *llm.Fallback, rows []string, style string, characters []stages.CharacterProfile, previous string) ([]string, error)
	VideoPromptStage func(ctx context.Context, fb *llm.Fallback, rows []string, style string, characters []stages.CharacterProfile, previous string) ([]string, error)
	AnalyzeStage     func(ctx context.Context, fb *llm.Fallback, text string) (*stages.Analysis, error)
}

// NewRunner builds a runner wired to the real stage functions with default
// pacing and a single retry per stage.
func NewRunner(fb *llm.Fallback) *Runner {
	return &Runner{
		FB:           fb,
		RowCount:     8,
		Delays:       DefaultDelayPolicy(),
		StageRetries: 1,
		CountStage:       stages.CountActions,
		SplitStage:       stages.SplitRows,
		ImagePromptStage: stages.GenerateImagePrompts,
		VideoPromptStage: stages.GenerateVideoPrompts,
		AnalyzeStage:     stages.AnalyzeStructure,
	}
}

func (r *Runner) progress(stage string, segment, total int, format string, args ...any) {
	if r.OnProgress == nil {
		return
	}
	r.OnProgress(ProgressEvent{
		Stage:   stage,
		Segment: segment,
		Total:   total,
		Message: fmt.Sprintf(format, args...),
	})
}

// AnalyzeDocument runs the document-level structure analysis and stores the
// result on the document.
func (r *Runner) AnalyzeDocument(ctx context.Context, doc *Document) error {
	r.progress(StageAnalyzeDocument, 0, len(doc.Segments), "analyzing document structure")
	analysis, err := r.AnalyzeStage(ctx, r.FB, doc.SourceText())
	if err != nil {
		return err
	}
	doc.Analysis = analysis
	if doc.Style == "" {
		doc.Style = analysis.Style
	}
	return nil
}

// CountSegment runs the action-count stage for one segment. Counting is an
// independent side stage: the segment shows analyzing for its duration and
// then returns to whatever state it was in.
func (r *Runner) CountSegment(ctx context.Context, doc *Document, seg *Segment) error {
	if err := CheckPrerequisites(doc, seg, StageCountActions); err != nil {
		return err
	}
	prior := seg.Status
	seg.Status = StatusAnalyzing
	n, err := r.CountStage(ctx, r.FB, seg.Source)
	seg.Status = prior
	if err != nil {
		return err
	}
	seg.ActionCount = n
	return nil
}

// SplitSegment runs the row-split stage for one segment. A segment with rows
// is ready; prompt generation moves it through generating and back to ready.
func (r *Runner) SplitSegment(ctx context.Context, doc *Document, seg *Segment) error {
	if err := CheckPrerequisites(doc, seg, StageSplitRows); err != nil {
		return err
	}
	seg.Status = StatusSplitting
	rows, err := r.SplitStage(ctx, r.FB, seg.Source, r.RowCount)
	if err != nil {
		seg.Status = StatusIdle
		return err
	}
	seg.Rows = rows
	seg.SceneCount = len(rows)
	seg.Status = StatusReady
	return nil
}

// GenerateImages runs the image-prompt stage for one segment. previous is the
// continuity carry-over from the prior segment, empty for the first.
func (r *Runner) GenerateImages(ctx context.Context, doc *Document, seg *Segment, previous string) error {
	if err := CheckPrerequisites(doc, seg, StageImagePrompts); err != nil {
		return err
	}
	seg.Status = StatusGenerating
	images, err := r.ImagePromptStage(ctx, r.FB, seg.Rows, doc.Style, doc.Characters, previous)
	if err != nil {
		seg.Status = StatusReady
		return err
	}
	seg.ImagePrompts = images
	return nil
}

// GenerateVideos runs the video-prompt stage for one segment and marks it
// ready again afterwards.
func (r *Runner) GenerateVideos(ctx context.Context, doc *Document, seg *Segment, previous string) error {
	if err := CheckPrerequisites(doc, seg, StageVideoPrompts); err != nil {
		return err
	}
	seg.Status = StatusGenerating
	videos, err := r.VideoPromptStage(ctx, r.FB, seg.Rows, doc.Style, doc.Characters, previous)
	seg.Status = StatusReady
	if err != nil {
		return err
	}
	seg.VideoPrompts = videos
	return nil
}

// GeneratePrompts runs both prompt stages back to back. Auto-run drives the
// two stages as separate steps so a retry never repeats the one that already
// succeeded.
func (r *Runner) GeneratePrompts(ctx context.Context, doc *Document, seg *Segment, previous string) error {
	if err := r.GenerateImages(ctx, doc, seg, previous); err != nil {
		return err
	}
	return r.GenerateVideos(ctx, doc, seg, previous)
}

// AutoRun processes every segment in document order: count, split, image
// prompts, then video prompts, pausing between upstream calls. Segments run
// strictly sequentially so the continuity context of each is the last image
// prompt of the one before it. A stage that fails past its retry budget
// consults OnFailure; skip moves to the next segment, abort stops the run.
func (r *Runner) AutoRun(ctx context.Context, doc *Document) error {
	total := len(doc.Segments)
	previous := ""

	if doc.Analysis == nil {
		if err := r.runWithRetry(ctx, func(ctx context.Context) error {
			return r.AnalyzeDocument(ctx, doc)
		}); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &AutoRunError{Segment: 0, Stage: StageAnalyzeDocument, Cause: err}
		}
		if err := r.Delays.Wait(ctx); err != nil {
			return err
		}
	}

	for i, seg := range doc.Segments {
		n := i + 1

		steps := []struct {
			stage string
			fn    func(context.Context) error
		}{
			{StageCountActions, func(ctx context.Context) error { return r.CountSegment(ctx, doc, seg) }},
			{StageSplitRows, func(ctx context.Context) error { return r.SplitSegment(ctx, doc, seg) }},
			{StageImagePrompts, func(ctx context.Context) error { return r.GenerateImages(ctx, doc, seg, previous) }},
			{StageVideoPrompts, func(ctx context.Context) error { return r.GenerateVideos(ctx, doc, seg, previous) }},
		}

		skipped := false
		for j, step := range steps {
			r.progress(step.stage, n, total, "segment %d/%d: %s", n, total, step.stage)
			if err := r.runWithRetry(ctx, step.fn); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if r.decide(n, step.stage, err) == DecisionSkip {
					skipped = true
					break
				}
				return &AutoRunError{Segment: n, Stage: step.stage, Cause: err}
			}
			if j < len(steps)-1 || n < total {
				if err := r.Delays.Wait(ctx); err != nil {
					return err
				}
			}
		}

		if !skipped && len(seg.ImagePrompts) > 0 {
			previous = seg.ImagePrompts[len(seg.ImagePrompts)-1]
		}
	}
	return nil
}

func (r *Runner) runWithRetry(ctx context.Context, fn func(context.Context) error) error {
	attempts := 1 + r.StageRetries
	var last error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		last = fn(ctx)
		if last == nil {
			return nil
		}
	}
	return last
}

func (r *Runner) decide(segment int, stage string, err error) Decision {
	if r.OnFailure == nil {
		return DecisionAbort
	}
	return r.OnFailure(segment, stage, err)
}
