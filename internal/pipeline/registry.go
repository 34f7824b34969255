package pipeline

// Stage names used by the registry, the runner, and progress events.
const (
	StageAnalyzeDocument = "analyze_document"
	StageCountActions    = "count_actions"
	StageSplitRows       = "split_rows"
	StageImagePrompts    = "generate_image_prompts"
	StageVideoPrompts    = "generate_video_prompts"
)

// StageDefinition declares a stage and the stages whose output it needs.
type StageDefinition struct {
	Name     string
	Requires []string
}

// Registry holds the stage dependency graph. Manual invocation consults it so
// a stage is only enabled once its prerequisites have produced output.
var Registry = map[string]StageDefinition{
	StageAnalyzeDocument: {Name: StageAnalyzeDocument},
	StageCountActions:    {Name: StageCountActions},
	StageSplitRows:       {Name: StageSplitRows, Requires: []string{StageAnalyzeDocument}},
	StageImagePrompts:    {Name: StageImagePrompts, Requires: []string{StageSplitRows}},
	StageVideoPrompts:    {Name: StageVideoPrompts, Requires: []string{StageSplitRows}},
}

// CheckPrerequisites verifies that every prerequisite of stage has produced
// output for the given document and segment.
func CheckPrerequisites(doc *Document, seg *Segment, stage string) error {
	def, ok := Registry[stage]
	if !ok {
		return &DependencyError{Stage: stage, Missing: []string{"unknown stage"}}
	}

	var missing []string
	for _, dep := range def.Requires {
		if !stageProduced(doc, seg, dep) {
			missing = append(missing, dep)
		}
	}
	if len(missing) > 0 {
		return &DependencyError{Stage: stage, Missing: missing}
	}
	return nil
}

// stageProduced reports whether a stage's output exists.
func stageProduced(doc *Document, seg *Segment, stage string) bool {
	switch stage {
	case StageAnalyzeDocument:
		return doc.Analysis != nil
	case StageCountActions:
		return seg != nil && seg.ActionCount > 0
	case StageSplitRows:
		return seg != nil && len(seg.Rows) > 0
	case StageImagePrompts:
		return seg != nil && len(seg.ImagePrompts) > 0
	case StageVideoPrompts:
		return seg != nil && len(seg.VideoPrompts) > 0
	default:
		return false
	}
}
