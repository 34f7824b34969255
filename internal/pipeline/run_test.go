package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel/scriptstudio/internal/llm"
	"github.com/daniel/scriptstudio/internal/stages"
)

// testRunner builds a runner with no delays and happy-path stage stubs.
// Individual tests overwrite the stages they exercise.
func testRunner() *Runner {
	return &Runner{
		FB:           &llm.Fallback{},
		RowCount:     4,
		Delays:       DelayPolicy{},
		StageRetries: 1,
		CountStage: func(ctx context.Context, fb *llm.Fallback, segment string) (int, error) {
			return 3, nil
		},
		SplitStage: func(ctx context.Context, fb *llm.Fallback, text string, rowCount int) ([]string, error) {
			return strings.Fields(text), nil
		},
		ImagePromptStage: func(ctx context.Context, fb *llm.Fallback, rows []string, style string, characters []stages.CharacterProfile, previous string) ([]string, error) {
			out := make([]string, len(rows))
			for i, row := range rows {
				out[i] = "image of " + row
			}
			return out, nil
		},
		VideoPromptStage: func(ctx context.Context, fb *llm.Fallback, rows []string, style string, characters []stages.CharacterProfile, previous string) ([]string, error) {
			out := make([]string, len(rows))
			for i, row := range rows {
				out[i] = "motion of " + row
			}
			return out, nil
		},
		AnalyzeStage: func(ctx context.Context, fb *llm.Fallback, text string) (*stages.Analysis, error) {
			return &stages.Analysis{Text: "analysis", Style: "noir"}, nil
		},
	}
}

func threeSegmentDoc() *Document {
	return &Document{Segments: []*Segment{
		{Source: "first part", Status: StatusIdle},
		{Source: "second part", Status: StatusIdle},
		{Source: "third part", Status: StatusIdle},
	}}
}

func TestAutoRun_AllSegmentsReachReady(t *testing.T) {
	r := testRunner()
	doc := threeSegmentDoc()

	var events []ProgressEvent
	r.OnProgress = func(ev ProgressEvent) { events = append(events, ev) }

	err := r.AutoRun(context.Background(), doc)
	require.NoError(t, err)

	for _, seg := range doc.Segments {
		assert.Equal(t, StatusReady, seg.Status)
		assert.Equal(t, 3, seg.ActionCount)
		assert.NotEmpty(t, seg.Rows)
		assert.Len(t, seg.ImagePrompts, len(seg.Rows))
		assert.Len(t, seg.VideoPrompts, len(seg.Rows))
	}

	// One document analysis, then four stages per segment.
	require.Len(t, events, 13)
	assert.Equal(t, StageAnalyzeDocument, events[0].Stage)
	assert.Equal(t, StageCountActions, events[1].Stage)
	assert.Equal(t, 1, events[1].Segment)
	assert.Equal(t, StageImagePrompts, events[3].Stage)
	assert.Equal(t, StageVideoPrompts, events[12].Stage)
	assert.Equal(t, 3, events[12].Segment)

	assert.Equal(t, "noir", doc.Style, "recommended style adopted during the run")
}

func TestAutoRun_ContinuityCarriesLastImagePrompt(t *testing.T) {
	r := testRunner()
	doc := threeSegmentDoc()

	var carried []string
	base := r.ImagePromptStage
	r.ImagePromptStage = func(ctx context.Context, fb *llm.Fallback, rows []string, style string, characters []stages.CharacterProfile, previous string) ([]string, error) {
		carried = append(carried, previous)
		return base(ctx, fb, rows, style, characters, previous)
	}

	require.NoError(t, r.AutoRun(context.Background(), doc))

	require.Len(t, carried, 3)
	assert.Empty(t, carried[0], "first segment starts without continuity")
	assert.Equal(t, "image of part", carried[1], "second segment carries the last prompt of the first")
	assert.Equal(t, "image of part", carried[2])
}

func TestAutoRun_SkipMovesToNextSegment(t *testing.T) {
	r := testRunner()
	doc := threeSegmentDoc()

	splitCalls := map[string]int{}
	r.SplitStage = func(ctx context.Context, fb *llm.Fallback, text string, rowCount int) ([]string, error) {
		splitCalls[text]++
		if text == "second part" {
			return nil, errors.New("persistent upstream refusal")
		}
		return strings.Fields(text), nil
	}

	var failures []string
	r.OnFailure = func(segment int, stage string, err error) Decision {
		failures = append(failures, stage)
		assert.Equal(t, 2, segment)
		return DecisionSkip
	}

	err := r.AutoRun(context.Background(), doc)
	require.NoError(t, err)

	require.Len(t, failures, 1, "failure handler consulted once per exhausted stage")
	assert.Equal(t, StageSplitRows, failures[0])
	assert.Equal(t, 2, splitCalls["second part"], "one retry after the first failure, then no more")

	assert.Equal(t, StatusReady, doc.Segments[0].Status)
	assert.Equal(t, StatusIdle, doc.Segments[1].Status, "skipped segment stays where the failure left it")
	assert.Empty(t, doc.Segments[1].Rows)
	assert.Equal(t, StatusReady, doc.Segments[2].Status, "run continues past the skipped segment")
}

func TestAutoRun_AbortIsTheDefault(t *testing.T) {
	r := testRunner()
	doc := threeSegmentDoc()

	r.SplitStage = func(ctx context.Context, fb *llm.Fallback, text string, rowCount int) ([]string, error) {
		return nil, errors.New("persistent upstream refusal")
	}

	err := r.AutoRun(context.Background(), doc)

	var runErr *AutoRunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, 1, runErr.Segment)
	assert.Equal(t, StageSplitRows, runErr.Stage)

	assert.Equal(t, StatusIdle, doc.Segments[1].Status, "later segments never started")
}

func TestAutoRun_ContextCancellationStopsRun(t *testing.T) {
	r := testRunner()
	doc := threeSegmentDoc()

	ctx, cancel := context.WithCancel(context.Background())
	r.CountStage = func(ctx context.Context, fb *llm.Fallback, segment string) (int, error) {
		cancel()
		return 0, ctx.Err()
	}

	err := r.AutoRun(ctx, doc)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSplitSegment_RequiresDocumentAnalysis(t *testing.T) {
	r := testRunner()
	doc := threeSegmentDoc()
	seg := doc.Segments[0]

	err := r.SplitSegment(context.Background(), doc, seg)

	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, StageSplitRows, depErr.Stage)
	assert.Contains(t, depErr.Missing, StageAnalyzeDocument)
	assert.Equal(t, StatusIdle, seg.Status)
}

func TestGeneratePrompts_RequiresRows(t *testing.T) {
	r := testRunner()
	doc := threeSegmentDoc()
	doc.Analysis = &stages.Analysis{Text: "a"}
	seg := doc.Segments[0]

	err := r.GeneratePrompts(context.Background(), doc, seg, "")

	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Contains(t, depErr.Missing, StageSplitRows)
}

func TestSplitSegment_StatusRollsBackOnFailure(t *testing.T) {
	r := testRunner()
	doc := threeSegmentDoc()
	doc.Analysis = &stages.Analysis{Text: "a"}
	seg := doc.Segments[0]

	r.SplitStage = func(ctx context.Context, fb *llm.Fallback, text string, rowCount int) ([]string, error) {
		return nil, errors.New("boom")
	}

	err := r.SplitSegment(context.Background(), doc, seg)
	require.Error(t, err)
	assert.Equal(t, StatusIdle, seg.Status)
}

func TestAutoRun_VideoRetryDoesNotRepeatImages(t *testing.T) {
	r := testRunner()
	doc := threeSegmentDoc()

	imageCalls := 0
	baseImages := r.ImagePromptStage
	r.ImagePromptStage = func(ctx context.Context, fb *llm.Fallback, rows []string, style string, characters []stages.CharacterProfile, previous string) ([]string, error) {
		imageCalls++
		return baseImages(ctx, fb, rows, style, characters, previous)
	}

	videoCalls := 0
	baseVideos := r.VideoPromptStage
	r.VideoPromptStage = func(ctx context.Context, fb *llm.Fallback, rows []string, style string, characters []stages.CharacterProfile, previous string) ([]string, error) {
		videoCalls++
		if videoCalls == 1 {
			return nil, errors.New("transient upstream refusal")
		}
		return baseVideos(ctx, fb, rows, style, characters, previous)
	}

	require.NoError(t, r.AutoRun(context.Background(), doc))

	assert.Equal(t, 3, imageCalls, "image stage runs once per segment even when the video stage needs a retry")
	assert.Equal(t, 4, videoCalls)
	for _, seg := range doc.Segments {
		assert.Equal(t, StatusReady, seg.Status)
		assert.Len(t, seg.VideoPrompts, len(seg.Rows))
	}
}

func TestSplitSegment_RowsLeaveSegmentReady(t *testing.T) {
	r := testRunner()
	doc := threeSegmentDoc()
	doc.Analysis = &stages.Analysis{Text: "a"}
	seg := doc.Segments[0]

	require.NoError(t, r.SplitSegment(context.Background(), doc, seg))

	assert.Equal(t, StatusReady, seg.Status)
	assert.NotEmpty(t, seg.Rows)
	assert.Equal(t, len(seg.Rows), seg.SceneCount)
}

func TestCountSegment_AnalyzingIsTransient(t *testing.T) {
	r := testRunner()
	doc := threeSegmentDoc()
	seg := doc.Segments[0]

	var during Status
	r.CountStage = func(ctx context.Context, fb *llm.Fallback, segment string) (int, error) {
		during = seg.Status
		return 5, nil
	}

	require.NoError(t, r.CountSegment(context.Background(), doc, seg))

	assert.Equal(t, StatusAnalyzing, during, "counting shows as a transient analyzing state")
	assert.Equal(t, StatusIdle, seg.Status, "status returns to its prior value afterwards")
	assert.Equal(t, 5, seg.ActionCount)
}

func TestAnalyzeDocument_AdoptsRecommendedStyle(t *testing.T) {
	r := testRunner()
	doc := threeSegmentDoc()

	require.NoError(t, r.AnalyzeDocument(context.Background(), doc))

	require.NotNil(t, doc.Analysis)
	assert.Equal(t, "noir", doc.Style)

	// An explicit style choice is never overwritten.
	doc2 := threeSegmentDoc()
	doc2.Style = "watercolor"
	require.NoError(t, r.AnalyzeDocument(context.Background(), doc2))
	assert.Equal(t, "watercolor", doc2.Style)
}

func TestRunWithRetry_SecondAttemptSucceeds(t *testing.T) {
	r := testRunner()
	calls := 0
	err := r.runWithRetry(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
