package pipeline

import (
	"fmt"
	"strings"
)

// DependencyError reports a stage invoked before its prerequisites produced
// output. It is a user-input condition, never retried.
type DependencyError struct {
	Stage   string
	Missing []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("stage %s requires %s to run first", e.Stage, strings.Join(e.Missing, ", "))
}

// AutoRunError reports the stage failure that aborted an auto-run.
type AutoRunError struct {
	Segment int // 1-based
	Stage   string
	Cause   error
}

func (e *AutoRunError) Error() string {
	return fmt.Sprintf("auto-run aborted at segment %d, stage %s: %v", e.Segment, e.Stage, e.Cause)
}

func (e *AutoRunError) Unwrap() error {
	return e.Cause
}
