package llm

import (
	"fmt"
	"strings"
)

// FailureKind classifies the last upstream error seen before exhaustion,
// derived from the error text. It drives the user-facing message only; retry
// behavior never depends on it.
type FailureKind string

// Failure kinds distinguished in exhaustion errors.
const (
	FailureQuota     FailureKind = "quota"
	FailureRateLimit FailureKind = "rate_limit"
	FailureNetwork   FailureKind = "network"
)

// ExhaustedError reports that every (credential, model) combination failed.
type ExhaustedError struct {
	Credentials int
	Models      int
	Attempts    int
	Kind        FailureKind
	Last        error
}

func (e *ExhaustedError) Error() string {
	if e.Attempts == 0 {
		return "no API credentials configured: add at least one key"
	}
	switch e.Kind {
	case FailureQuota:
		return fmt.Sprintf("all %d API keys exhausted their quota after %d attempts: add more keys or wait for the quota to reset: %v",
			e.Credentials, e.Attempts, e.Last)
	case FailureRateLimit:
		return fmt.Sprintf("rate limited on every key/model combination (%d attempts): slow down and retry: %v",
			e.Attempts, e.Last)
	default:
		return fmt.Sprintf("generation failed on all %d key/model combinations: %v", e.Attempts, e.Last)
	}
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// classifyFailure inspects upstream error text for quota and rate-limit
// signatures. Anything unrecognized is reported as a network failure.
func classifyFailure(err error) FailureKind {
	if err == nil {
		return FailureNetwork
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "quota") || strings.Contains(msg, "resource_exhausted"):
		return FailureQuota
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "too many requests"):
		return FailureRateLimit
	default:
		return FailureNetwork
	}
}
