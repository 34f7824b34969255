package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient records its binding and answers from a canned script.
type fakeClient struct {
	key    string
	model  string
	answer string
	err    error
	closed bool
}

func (f *fakeClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return f.GenerateText(ctx, prompt)
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

// scriptedFactory fails or succeeds per (key, model) pair and counts attempts.
func scriptedFactory(failing map[string]error, attempts *[]string) ClientFactory {
	return func(ctx context.Context, apiKey, model string) (Client, error) {
		pair := apiKey + "/" + model
		*attempts = append(*attempts, pair)
		if err, ok := failing[pair]; ok {
			return &fakeClient{key: apiKey, model: model, err: err}, nil
		}
		return &fakeClient{key: apiKey, model: model, answer: pair}, nil
	}
}

func textOp(ctx context.Context, c Client) (string, error) {
	return c.GenerateText(ctx, "prompt")
}

func TestFallback_FirstPairSucceeds(t *testing.T) {
	var attempts []string
	fb := &Fallback{
		Credentials: []string{"k1", "k2"},
		Models:      []string{"m1", "m2"},
		Factory:     scriptedFactory(nil, &attempts),
	}

	result, err := fb.Do(context.Background(), textOp)
	require.NoError(t, err)
	assert.Equal(t, "k1/m1", result)
	assert.Equal(t, []string{"k1/m1"}, attempts, "success must not trigger further attempts")
}

func TestFallback_ExhaustsAllPairsThenFails(t *testing.T) {
	upstream := errors.New("quota exceeded for project")
	failing := map[string]error{}
	creds := []string{"k1", "k2", "k3"}
	models := []string{"m1", "m2"}
	for _, k := range creds {
		for _, m := range models {
			failing[k+"/"+m] = upstream
		}
	}

	var attempts []string
	fb := &Fallback{Credentials: creds, Models: models, Factory: scriptedFactory(failing, &attempts)}

	_, err := fb.Do(context.Background(), textOp)
	require.Error(t, err)

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 6, exhausted.Attempts, "N credentials x M models attempts before giving up")
	assert.Equal(t, FailureQuota, exhausted.Kind)
	assert.ErrorIs(t, err, upstream)
	assert.Len(t, attempts, 6)
}

func TestFallback_SecondCredentialFirstModelWins(t *testing.T) {
	// Every model of the first credential fails; the second credential must
	// answer from its first model, not a later one.
	failing := map[string]error{
		"bad/m1": errors.New("503 unavailable"),
		"bad/m2": errors.New("503 unavailable"),
	}
	var attempts []string
	fb := &Fallback{
		Credentials: []string{"bad", "good"},
		Models:      []string{"m1", "m2"},
		Factory:     scriptedFactory(failing, &attempts),
	}

	result, err := fb.Do(context.Background(), textOp)
	require.NoError(t, err)
	assert.Equal(t, "good/m1", result)
	assert.Equal(t, []string{"bad/m1", "bad/m2", "good/m1"}, attempts)
}

func TestFallback_FactoryErrorCountsAsAttempt(t *testing.T) {
	calls := 0
	fb := &Fallback{
		Credentials: []string{"k1"},
		Models:      []string{"m1", "m2"},
		Factory: func(ctx context.Context, apiKey, model string) (Client, error) {
			calls++
			if model == "m1" {
				return nil, fmt.Errorf("construction failed")
			}
			return &fakeClient{answer: "ok"}, nil
		},
	}

	result, err := fb.Do(context.Background(), textOp)
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 2, calls)
}

func TestFallback_NoCredentials(t *testing.T) {
	factoryCalled := false
	fb := &Fallback{
		Models: []string{"m1"},
		Factory: func(ctx context.Context, apiKey, model string) (Client, error) {
			factoryCalled = true
			return &fakeClient{answer: "ok"}, nil
		},
	}

	_, err := fb.Do(context.Background(), textOp)
	require.Error(t, err)

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 0, exhausted.Attempts)
	assert.False(t, factoryCalled, "empty credential set must not attempt a call")
}

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		err  error
		want FailureKind
	}{
		{errors.New("googleapi: Error 429: quota exceeded"), FailureQuota},
		{errors.New("RESOURCE_EXHAUSTED: out of tokens"), FailureQuota},
		{errors.New("429 Too Many Requests"), FailureRateLimit},
		{errors.New("rate limit reached, retry later"), FailureRateLimit},
		{errors.New("connection reset by peer"), FailureNetwork},
		{nil, FailureNetwork},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyFailure(tt.err))
	}
}
