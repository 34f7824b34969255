package stages

import (
	"context"
	"errors"

	"github.com/daniel/scriptstudio/internal/llm"
)

// stubClient answers every generation call with a canned response.
type stubClient struct {
	response string
	err      error
	prompts  *[]string
}

func (s *stubClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	if s.prompts != nil {
		*s.prompts = append(*s.prompts, prompt)
	}
	return s.response, s.err
}

func (s *stubClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return s.GenerateText(ctx, prompt)
}

func (s *stubClient) Close() error { return nil }

// stubFallback builds a single-pair fallback whose client returns response.
func stubFallback(response string) *llm.Fallback {
	return stubFallbackRecording(response, nil)
}

// stubFallbackRecording additionally captures the prompts sent upstream.
func stubFallbackRecording(response string, prompts *[]string) *llm.Fallback {
	return &llm.Fallback{
		Credentials: []string{"test-key"},
		Models:      []string{"test-model"},
		Factory: func(ctx context.Context, apiKey, model string) (llm.Client, error) {
			return &stubClient{response: response, prompts: prompts}, nil
		},
	}
}

// failingFallback always fails upstream.
func failingFallback() *llm.Fallback {
	return &llm.Fallback{
		Credentials: []string{"test-key"},
		Models:      []string{"test-model"},
		Factory: func(ctx context.Context, apiKey, model string) (llm.Client, error) {
			return &stubClient{err: errors.New("upstream down")}, nil
		},
	}
}
