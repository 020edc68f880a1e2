// Package genai provides content generation via LLM APIs.
// This file contains the fallback wrapper for cross-provider failover.
package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sotoasobi/camp-linebot-go/internal/metrics"
)

// FallbackGenerator wraps a primary and a secondary Generator.
// The primary is retried with backoff; when it keeps failing with a
// recoverable error, the secondary is tried the same way.
type FallbackGenerator struct {
	primary     Generator
	fallback    Generator
	retryConfig RetryConfig
	metrics     *metrics.Metrics
}

// NewFallbackGenerator creates a fallback-enabled generator.
// fallback and m may be nil; with a nil fallback only retry logic is
// applied to the primary provider.
func NewFallbackGenerator(primary, fallback Generator, cfg RetryConfig, m *metrics.Metrics) *FallbackGenerator {
	return &FallbackGenerator{
		primary:     primary,
		fallback:    fallback,
		retryConfig: cfg,
		metrics:     m,
	}
}

// Generate tries the primary generator with retry, then the fallback.
func (f *FallbackGenerator) Generate(ctx context.Context, messages []Message) (string, error) {
	if f == nil || f.primary == nil {
		return "", errors.New("generator not configured")
	}

	start := time.Now()
	provider := f.primary.Provider()

	result, err := f.generateWithRetry(ctx, f.primary, messages)
	if err == nil {
		f.record(provider, "success", start)
		return result, nil
	}

	action := ClassifyError(err)
	slog.WarnContext(ctx, "primary generator failed",
		"provider", provider,
		"error", err,
		"action", action.String(),
		"duration", time.Since(start))

	if action == ActionFail || f.fallback == nil {
		f.record(provider, "error", start)
		return "", err
	}

	slog.InfoContext(ctx, "falling back to secondary provider",
		"from", provider,
		"to", f.fallback.Provider())

	fallbackStart := time.Now()
	fallbackProvider := f.fallback.Provider()

	result, err = f.generateWithRetry(ctx, f.fallback, messages)
	if err == nil {
		f.record(fallbackProvider, "success", fallbackStart)
		return result, nil
	}

	f.record(fallbackProvider, "error", fallbackStart)
	slog.ErrorContext(ctx, "all generators failed",
		"primary", provider,
		"fallback", fallbackProvider,
		"error", err)

	return "", fmt.Errorf("all providers failed: %w", err)
}

func (f *FallbackGenerator) generateWithRetry(ctx context.Context, g Generator, messages []Message) (string, error) {
	var result string
	err := WithRetry(ctx, f.retryConfig, func() error {
		var genErr error
		result, genErr = g.Generate(ctx, messages)
		return genErr
	})
	return result, err
}

func (f *FallbackGenerator) record(p Provider, status string, start time.Time) {
	if f.metrics != nil {
		f.metrics.RecordLLM(p.String(), status, time.Since(start).Seconds())
	}
}

// Provider returns the primary provider.
func (f *FallbackGenerator) Provider() Provider {
	if f == nil || f.primary == nil {
		return ""
	}
	return f.primary.Provider()
}

// Close closes both wrapped generators.
func (f *FallbackGenerator) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	if f.primary != nil {
		errs = append(errs, f.primary.Close())
	}
	if f.fallback != nil {
		errs = append(errs, f.fallback.Close())
	}
	return errors.Join(errs...)
}
