package llm

import (
	"context"
)

// Operation is one generation call executed against a bound client. It is
// retried verbatim against the next (credential, model) pair on any error.
type Operation func(ctx context.Context, client Client) (string, error)

// Fallback attempts an operation against every (credential × model) pair in
// order until one succeeds. Quota errors are credential-specific and model
// outages are model-specific; the nested loop covers both without the caller
// needing to know which failed. There is no backoff at this layer; retries
// are immediate and bounded by the two list lengths. Coarser pacing belongs
// to the pipeline's delay policy.
type Fallback struct {
	Credentials []string
	Models      []string
	// Factory constructs the bound client per attempt. Nil means Gemini.
	Factory ClientFactory
}

// NewFallback builds a Fallback over the given credentials and model rank
// list, using the Gemini client factory.
func NewFallback(credentials, models []string) *Fallback {
	return &Fallback{Credentials: credentials, Models: models}
}

// Do runs op against each (credential, model) pair in order and returns the
// first success. After exhausting the search space it returns an
// *ExhaustedError wrapping the last recorded error. An empty credential or
// model list fails immediately with zero attempts and no network call.
func (f *Fallback) Do(ctx context.Context, op Operation) (string, error) {
	factory := f.Factory
	if factory == nil {
		factory = NewGeminiClient
	}

	attempts := 0
	var lastErr error

	for _, key := range f.Credentials {
		for _, model := range f.Models {
			attempts++

			client, err := factory(ctx, key, model)
			if err != nil {
				lastErr = err
				continue
			}

			result, err := op(ctx, client)
			closeErr := client.Close()
			if err != nil {
				lastErr = err
				continue
			}
			if closeErr != nil {
				// The call already succeeded; a close failure is not
				// worth burning another attempt over.
				return result, nil
			}
			return result, nil
		}
	}

	return "", &ExhaustedError{
		Credentials: len(f.Credentials),
		Models:      len(f.Models),
		Attempts:    attempts,
		Kind:        classifyFailure(lastErr),
		Last:        lastErr,
	}
}
