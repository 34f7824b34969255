package stages

import "fmt"

// InputError reports invalid caller input detected before any network call.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Message)
}

// APICallError reports a failed generation call.
type APICallError struct {
	Stage string
	Cause error
}

func (e *APICallError) Error() string {
	return fmt.Sprintf("stage %s: API call failed: %v", e.Stage, e.Cause)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError reports a response that violated the stage's declared contract.
// It is treated like a call failure for retry purposes.
type ParseError struct {
	Stage   string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("stage %s: %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("stage %s: %s", e.Stage, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
