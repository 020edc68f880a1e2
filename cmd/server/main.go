// Package main provides the LINE bot server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sotoasobi/camp-linebot-go/internal/archive"
	"github.com/sotoasobi/camp-linebot-go/internal/bot"
	"github.com/sotoasobi/camp-linebot-go/internal/bot/bivouac"
	"github.com/sotoasobi/camp-linebot-go/internal/bot/camp"
	"github.com/sotoasobi/camp-linebot-go/internal/bot/item"
	"github.com/sotoasobi/camp-linebot-go/internal/config"
	"github.com/sotoasobi/camp-linebot-go/internal/conversation"
	"github.com/sotoasobi/camp-linebot-go/internal/genai"
	"github.com/sotoasobi/camp-linebot-go/internal/lineutil"
	"github.com/sotoasobi/camp-linebot-go/internal/logger"
	"github.com/sotoasobi/camp-linebot-go/internal/metrics"
	"github.com/sotoasobi/camp-linebot-go/internal/r2client"
	"github.com/sotoasobi/camp-linebot-go/internal/ratelimit"
	"github.com/sotoasobi/camp-linebot-go/internal/sentry"
	"github.com/sotoasobi/camp-linebot-go/internal/storage"
	"github.com/sotoasobi/camp-linebot-go/internal/webhook"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		BetterstackToken:    cfg.BetterstackToken,
		BetterstackEndpoint: cfg.BetterstackEndpoint,
	})
	log.Info("Starting camp bot server")

	// Initialize error tracking
	if err := sentry.Initialize(sentry.Config{
		Token:       cfg.SentryToken,
		Host:        cfg.SentryHost,
		Environment: cfg.Environment,
	}); err != nil {
		log.WithError(err).Warn("Failed to initialize Sentry, error tracking disabled")
	} else if sentry.IsEnabled() {
		log.Info("Sentry error tracking enabled")
	}
	defer sentry.Flush(2 * time.Second)

	// Connect to database
	db, err := storage.New(cfg.SQLitePath())
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer func() { _ = db.Close() }()
	log.WithField("path", cfg.SQLitePath()).Info("Database connected")

	// Create Prometheus registry
	registry := prometheus.NewRegistry()

	// Register Go and process collectors
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())

	// Create metrics
	m := metrics.New(registry)
	log.Info("Metrics initialized")

	// Create the LLM generator chain (primary with retry, optional fallback)
	generator, err := buildGenerator(context.Background(), cfg, m, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create LLM generator")
	}

	// Create LINE messaging client
	messenger, err := lineutil.NewClient(cfg.LineChannelToken)
	if err != nil {
		log.WithError(err).Fatal("Failed to create LINE messaging client")
	}
	log.Info("LINE messaging client created")

	// Create transcript archiver (optional - requires R2 credentials)
	var recorder bot.TranscriptRecorder
	var archiveRecorder *archive.Recorder
	if cfg.HasArchive() {
		r2, err := r2client.New(context.Background(), r2client.Config{
			Endpoint:    cfg.ArchiveEndpoint,
			AccessKeyID: cfg.ArchiveAccessKeyID,
			SecretKey:   cfg.ArchiveSecretKey,
			BucketName:  cfg.ArchiveBucket,
		})
		if err != nil {
			log.WithError(err).Warn("Failed to create R2 client, transcript archive disabled")
		} else {
			archiveRecorder = archive.NewRecorder(r2, cfg.ArchivePrefix, log)
			recorder = archiveRecorder
			log.WithField("bucket", cfg.ArchiveBucket).Info("Transcript archive enabled")
		}
	} else {
		log.Info("Transcript archive not configured")
	}

	// Create per-user rate limiter
	userLimiter := ratelimit.NewPerKeyLimiter(ratelimit.PerKeyLimiterConfig{
		MaxTokens:     cfg.Bot.UserRateLimitBurst,
		RefillRate:    cfg.Bot.UserRateLimitRefillPerSec,
		CleanupPeriod: 10 * time.Minute,
	})
	defer userLimiter.Stop()

	// Create terminal actions for each conversation flow
	actions := map[conversation.Terminal]bot.Action{
		conversation.TerminalGeneral: bot.NewGeneralAction(generator, messenger, log, m),
		conversation.TerminalCamp:    camp.NewAction(generator, messenger, log, m),
		conversation.TerminalBivouac: bivouac.NewAction(generator, messenger, log, m),
		conversation.TerminalItem:    item.NewAction(generator, messenger, log, m),
	}

	// Create event processor
	processor := bot.NewProcessor(bot.ProcessorConfig{
		Store:       db,
		Messenger:   messenger,
		UserLimiter: userLimiter,
		Actions:     actions,
		Recorder:    recorder,
		Logger:      log,
		Metrics:     m,
	})
	log.Info("Event processor created")

	// Create webhook handler
	webhookHandler := webhook.NewHandler(cfg.LineChannelSecret, processor, log, m)
	log.Info("Webhook handler created")

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(requestIDMiddleware())
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(log))

	// Setup routes
	setupRoutes(router, webhookHandler, db, registry, cfg)

	// Create HTTP server with timeouts sized for LINE webhook handling
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	// Store metrics updater goroutine (every 5 minutes)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("Panic in store metrics goroutine")
			}
		}()
		updateStoreMetrics(ctx, db, m, log)
	}()

	// Start server in goroutine
	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Cancel context to stop the metrics updater
	cancel()

	// Wait for goroutines to finish (with timeout)
	goDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(goDone)
	}()

	select {
	case <-goDone:
		log.Info("All background goroutines stopped")
	case <-time.After(5 * time.Second):
		log.Warn("Timeout waiting for goroutines to stop")
	}

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	// Shutdown server gracefully
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	// Flush buffered transcripts before exit
	if archiveRecorder != nil {
		archiveRecorder.Close()
	}

	// Close generator clients
	if err := generator.Close(); err != nil {
		log.WithError(err).Error("Failed to close generator")
	}

	// Close database connection
	if err := db.Close(); err != nil {
		log.WithError(err).Error("Failed to close database")
	}

	log.Info("Server stopped")
}

// buildGenerator assembles the provider chain from configuration: the
// primary provider is retried with backoff, and the other configured
// provider (if any) serves as fallback.
func buildGenerator(ctx context.Context, cfg *config.Config, m *metrics.Metrics, log *logger.Logger) (genai.Generator, error) {
	var openAI, gemini genai.Generator
	var err error

	openAI, err = genai.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("create openai generator: %w", err)
	}
	gemini, err = genai.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, fmt.Errorf("create gemini generator: %w", err)
	}

	primary, fallback := openAI, gemini
	if cfg.LLMPrimaryProvider == "gemini" {
		primary, fallback = gemini, openAI
	}
	if primary == nil {
		// Config validation guarantees at least one provider key.
		primary, fallback = fallback, nil
	}

	log.WithField("primary", primary.Provider().String()).
		WithField("fallback_enabled", fallback != nil).
		Info("LLM generator chain created")

	return genai.NewFallbackGenerator(primary, fallback, genai.DefaultRetryConfig(), m), nil
}
