// Package genai provides content generation via LLM APIs.
// This file contains the OpenAI-compatible generator. It works with any
// OpenAI-compatible endpoint via a custom base URL.
package genai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// openaiGenerator implements Generator over an OpenAI-compatible chat
// completion API.
type openaiGenerator struct {
	client openai.Client
	model  string
}

// NewOpenAIGenerator creates an OpenAI-compatible generator.
// Returns nil if apiKey is empty (provider disabled). baseURL may be
// empty to use the official OpenAI endpoint.
func NewOpenAIGenerator(apiKey, model, baseURL string) (Generator, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &openaiGenerator{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

// Generate sends the messages as a single chat completion call.
func (g *openaiGenerator) Generate(ctx context.Context, messages []Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    g.model,
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)),
	}
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}

	start := time.Now()
	resp, err := g.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "chat completion failed",
			"provider", ProviderOpenAI,
			"model", g.model,
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return "", WrapError(fmt.Errorf("chat completion: %w", err), ProviderOpenAI, 0)
	}

	if len(resp.Choices) == 0 {
		return "", WrapError(ErrEmptyCompletion, ProviderOpenAI, 0)
	}
	result := strings.TrimSpace(resp.Choices[0].Message.Content)
	if result == "" {
		return "", WrapError(ErrEmptyCompletion, ProviderOpenAI, 0)
	}

	if resp.Usage.TotalTokens > 0 {
		slog.DebugContext(ctx, "chat completion succeeded",
			"provider", ProviderOpenAI,
			"model", g.model,
			"input_tokens", resp.Usage.PromptTokens,
			"output_tokens", resp.Usage.CompletionTokens,
			"duration_ms", duration.Milliseconds())
	}

	return result, nil
}

// Provider returns the provider type for this generator.
func (g *openaiGenerator) Provider() Provider { return ProviderOpenAI }

// Close releases resources.
func (g *openaiGenerator) Close() error {
	// openai-go client doesn't require cleanup
	return nil
}
