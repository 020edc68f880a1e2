// Package genai provides content generation via LLM APIs.
// This file contains the Gemini generator.
package genai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

// geminiGenerator implements Generator over the Gemini API.
type geminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini-based generator.
// Returns nil if apiKey is empty (provider disabled).
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (Generator, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &geminiGenerator{client: client, model: model}, nil
}

// Generate sends the messages as one generate-content call. System
// messages become the system instruction; user messages become the
// prompt content.
func (g *geminiGenerator) Generate(ctx context.Context, messages []Message) (string, error) {
	config := &genai.GenerateContentConfig{}

	var prompt strings.Builder
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			config.SystemInstruction = genai.NewContentFromText(m.Content, genai.RoleUser)
		default:
			if prompt.Len() > 0 {
				prompt.WriteString("\n")
			}
			prompt.WriteString(m.Content)
		}
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt.String()), config)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "generate content failed",
			"provider", ProviderGemini,
			"model", g.model,
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return "", WrapError(fmt.Errorf("generate content: %w", err), ProviderGemini, 0)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", WrapError(ErrEmptyCompletion, ProviderGemini, 0)
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			out.WriteString(part.Text)
		}
	}
	result := strings.TrimSpace(out.String())
	if result == "" {
		return "", WrapError(ErrEmptyCompletion, ProviderGemini, 0)
	}

	if resp.UsageMetadata != nil {
		slog.DebugContext(ctx, "generate content succeeded",
			"provider", ProviderGemini,
			"model", g.model,
			"input_tokens", resp.UsageMetadata.PromptTokenCount,
			"output_tokens", resp.UsageMetadata.CandidatesTokenCount,
			"duration_ms", duration.Milliseconds())
	}

	return result, nil
}

// Provider returns the provider type for this generator.
func (g *geminiGenerator) Provider() Provider { return ProviderGemini }

// Close releases resources.
func (g *geminiGenerator) Close() error {
	// genai.Client does not require explicit cleanup in current SDK version
	return nil
}
