package pipeline

import (
	"context"
	"time"
)

// DelayPolicy is the single place inter-stage pacing lives. The pause between
// upstream calls is rate-limiting courtesy, not a correctness requirement.
type DelayPolicy struct {
	BetweenStages time.Duration
}

// DefaultDelayPolicy matches the pacing the apps ship with.
func DefaultDelayPolicy() DelayPolicy {
	return DelayPolicy{BetweenStages: 8 * time.Second}
}

// Wait sleeps for the configured pause, returning early if ctx is done.
func (p DelayPolicy) Wait(ctx context.Context) error {
	if p.BetweenStages <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.BetweenStages):
		return nil
	}
}
