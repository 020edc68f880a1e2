// Package main provides the LINE bot server entry point.
package main

import (
	"context"
	"time"

	"github.com/sotoasobi/camp-linebot-go/internal/logger"
	"github.com/sotoasobi/camp-linebot-go/internal/metrics"
	"github.com/sotoasobi/camp-linebot-go/internal/storage"
)

const storeMetricsInterval = 5 * time.Minute

// updateStoreMetrics periodically updates conversation store gauge metrics
func updateStoreMetrics(ctx context.Context, db *storage.DB, m *metrics.Metrics, log *logger.Logger) {
	ticker := time.NewTicker(storeMetricsInterval)
	defer ticker.Stop()

	// Run initial update immediately
	performStoreMetricsUpdate(ctx, db, m, log)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			performStoreMetricsUpdate(ctx, db, m, log)
		}
	}
}

// performStoreMetricsUpdate updates store gauge metrics
func performStoreMetricsUpdate(ctx context.Context, db *storage.DB, m *metrics.Metrics, log *logger.Logger) {
	if userCount, err := db.CountConversations(ctx); err == nil {
		m.SetKnownUsers(userCount)
	} else {
		log.WithError(err).Debug("Failed to count users for metrics")
	}
}
