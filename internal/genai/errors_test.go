package genai

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorAction
	}{
		{"nil", nil, ActionFail},
		{"context canceled", context.Canceled, ActionFail},
		{"deadline exceeded", context.DeadlineExceeded, ActionRetry},
		{"empty completion", ErrEmptyCompletion, ActionFallback},
		{"wrapped empty completion", fmt.Errorf("outer: %w", ErrEmptyCompletion), ActionFallback},
		{"quota", errors.New("quota exceeded for project"), ActionFallback},
		{"rate limit", errors.New("429 too many requests"), ActionRetry},
		{"server error", errors.New("503 service unavailable"), ActionRetry},
		{"timeout", errors.New("connection timeout"), ActionRetry},
		{"bad request", errors.New("400 bad request"), ActionFail},
		{"unauthorized", errors.New("invalid api key"), ActionFail},
		{"forbidden", errors.New("403 forbidden"), ActionFail},
		{"not found", errors.New("model not found"), ActionFail},
		{"unknown", errors.New("something odd happened"), ActionRetry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyErrorStatusCode(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorAction
	}{
		{429, ActionRetry},
		{500, ActionRetry},
		{503, ActionRetry},
		{400, ActionFail},
		{401, ActionFail},
		{404, ActionFail},
	}
	for _, tt := range tests {
		err := WrapError(errors.New("api call failed"), ProviderOpenAI, tt.status)
		if got := ClassifyError(err); got != tt.want {
			t.Errorf("ClassifyError(status %d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestLLMErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	wrapped := WrapError(inner, ProviderGemini, 500)
	if !errors.Is(wrapped, inner) {
		t.Error("errors.Is() = false, want wrapped error to match inner")
	}

	var llmErr *LLMError
	if !errors.As(wrapped, &llmErr) {
		t.Fatal("errors.As() = false, want *LLMError")
	}
	if llmErr.Provider != ProviderGemini || llmErr.StatusCode != 500 {
		t.Errorf("got provider=%q status=%d", llmErr.Provider, llmErr.StatusCode)
	}
}

func TestWrapErrorNil(t *testing.T) {
	if WrapError(nil, ProviderOpenAI, 0) != nil {
		t.Error("WrapError(nil) != nil")
	}
}

func TestIsRetryableIsPermanent(t *testing.T) {
	if !IsRetryable(errors.New("503 service unavailable")) {
		t.Error("IsRetryable(503) = false, want true")
	}
	if !IsPermanent(errors.New("401 unauthorized")) {
		t.Error("IsPermanent(401) = false, want true")
	}
	if IsPermanent(errors.New("429 rate limit")) {
		t.Error("IsPermanent(429) = true, want false")
	}
}
