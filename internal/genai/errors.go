// Package genai provides content generation via LLM APIs.
// This file contains error classification for retry/fallback decisions.
package genai

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// ErrEmptyCompletion reports a successful API call that produced no text.
var ErrEmptyCompletion = errors.New("empty completion")

// ErrorAction defines the action to take based on error type.
type ErrorAction int

const (
	// ActionRetry indicates the request should be retried with the same provider.
	ActionRetry ErrorAction = iota
	// ActionFallback indicates the next provider should be attempted.
	ActionFallback
	// ActionFail indicates the request should fail immediately (permanent error).
	ActionFail
)

// String returns a human-readable string for the error action.
func (a ErrorAction) String() string {
	switch a {
	case ActionRetry:
		return "retry"
	case ActionFallback:
		return "fallback"
	case ActionFail:
		return "fail"
	default:
		return "unknown"
	}
}

// LLMError wraps a provider error with the context needed for
// retry/fallback decisions.
type LLMError struct {
	Err        error
	StatusCode int
	Provider   Provider
}

func (e *LLMError) Error() string {
	if e.StatusCode > 0 {
		return e.Err.Error() + " (status: " + strconv.Itoa(e.StatusCode) + ")"
	}
	return e.Err.Error()
}

func (e *LLMError) Unwrap() error { return e.Err }

// WrapError attaches provider and status code information to an error.
func WrapError(err error, provider Provider, statusCode int) error {
	if err == nil {
		return nil
	}
	return &LLMError{Err: err, StatusCode: statusCode, Provider: provider}
}

// ClassifyError determines the appropriate action for an error:
//   - transient failures (429, 5xx, network, timeout) → retry
//   - quota exhaustion → fall back to the other provider
//   - permanent failures (400, 401, 403, 404) → fail immediately
func ClassifyError(err error) ErrorAction {
	if err == nil {
		return ActionFail
	}

	if errors.Is(err, context.Canceled) {
		return ActionFail
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ActionRetry
	}
	if errors.Is(err, ErrEmptyCompletion) {
		// The call succeeded; another attempt with the same input is
		// unlikely to do better, but another provider might.
		return ActionFallback
	}

	var llmErr *LLMError
	if errors.As(err, &llmErr) && llmErr.StatusCode > 0 {
		return classifyStatusCode(llmErr.StatusCode)
	}

	errStr := strings.ToLower(err.Error())

	if containsAny(errStr, "quota", "daily limit", "monthly limit", "billing") {
		return ActionFallback
	}
	if containsAny(errStr, "429", "rate limit", "too many requests", "resource_exhausted") {
		return ActionRetry
	}
	if containsAny(errStr, "500", "502", "503", "504", "unavailable",
		"internal server error", "bad gateway", "gateway timeout", "overloaded") {
		return ActionRetry
	}
	if containsAny(errStr, "408", "timeout", "deadline", "connection") {
		return ActionRetry
	}
	if containsAny(errStr, "400", "invalid", "bad request", "malformed") {
		return ActionFail
	}
	if containsAny(errStr, "401", "unauthorized", "unauthenticated", "invalid api key") {
		return ActionFail
	}
	if containsAny(errStr, "403", "forbidden", "permission denied") {
		return ActionFail
	}
	if containsAny(errStr, "404", "not found") {
		return ActionFail
	}

	// Unknown errors get one more chance.
	return ActionRetry
}

func classifyStatusCode(statusCode int) ErrorAction {
	switch {
	case statusCode == http.StatusTooManyRequests,
		statusCode == http.StatusRequestTimeout,
		statusCode >= 500 && statusCode < 600:
		return ActionRetry
	case statusCode >= 400 && statusCode < 500:
		return ActionFail
	default:
		return ActionRetry
	}
}

// IsRetryable returns true if the error is transient and can be retried.
func IsRetryable(err error) bool { return ClassifyError(err) == ActionRetry }

// IsPermanent returns true if the error should not be retried.
func IsPermanent(err error) bool { return ClassifyError(err) == ActionFail }

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
