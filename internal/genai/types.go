// Package genai provides content generation via LLM APIs.
//
// Architecture:
// - OpenAI-compatible providers use github.com/openai/openai-go/v3 with a
//   configurable base URL.
// - Gemini uses google.golang.org/genai (official SDK).
//
// Fallback strategy:
// 1. Same provider retried with full-jitter exponential backoff
// 2. Secondary provider tried when the primary keeps failing
package genai

import (
	"context"
	"time"
)

// Provider represents an LLM provider.
type Provider string

const (
	// ProviderOpenAI represents any OpenAI-compatible chat completion API.
	ProviderOpenAI Provider = "openai"
	// ProviderGemini represents Google's Gemini API.
	ProviderGemini Provider = "gemini"
)

// String returns the string representation of the provider.
func (p Provider) String() string { return string(p) }

// Role tags a message in a generation request.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one role-tagged entry of a generation request.
type Message struct {
	Role    Role
	Content string
}

// System is shorthand for a system-role message.
func System(content string) Message { return Message{Role: RoleSystem, Content: content} }

// User is shorthand for a user-role message.
func User(content string) Message { return Message{Role: RoleUser, Content: content} }

// Generator produces one text completion from an ordered message list.
// Implementations include OpenAI-compatible providers and Gemini.
type Generator interface {
	// Generate returns the completion text. An empty completion is
	// reported as ErrEmptyCompletion, never as ("", nil).
	Generate(ctx context.Context, messages []Message) (string, error)
	// Provider returns the provider type for metrics.
	Provider() Provider
	// Close releases any resources held by the generator.
	Close() error
}

// RetryConfig defines retry behavior for LLM API calls.
// Uses AWS-recommended Full Jitter exponential backoff.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	MaxAttempts int

	// InitialDelay is the base delay before first retry.
	InitialDelay time.Duration

	// MaxDelay is the maximum delay between retries.
	MaxDelay time.Duration
}

// Retry configuration defaults.
const (
	DefaultMaxRetryAttempts  = 2
	DefaultInitialRetryDelay = 500 * time.Millisecond
	DefaultMaxRetryDelay     = 3 * time.Second
)

// DefaultRetryConfig returns the stock retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  DefaultMaxRetryAttempts,
		InitialDelay: DefaultInitialRetryDelay,
		MaxDelay:     DefaultMaxRetryDelay,
	}
}

// Default models per provider.
const (
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultGeminiModel = "gemini-2.5-flash"
)
