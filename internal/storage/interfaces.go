// Package storage provides repository interfaces for data access abstraction.
// These interfaces enable dependency inversion and facilitate testing by
// decoupling the webhook processor from the concrete SQLite implementation.
package storage

import (
	"context"
)

// ConversationRecord is the stored shape of one user's conversation.
// State and Data are empty when no flow is active; Data is the JSON-encoded
// collected-field payload for the active flow.
type ConversationRecord struct {
	UserID string
	State  string
	Data   string
}

// ConversationRepository defines the interface for the user store.
//
// Read/write failures are fatal for the triggering invocation; callers must
// propagate them rather than converting them into user-visible replies.
type ConversationRepository interface {
	// GetConversation retrieves a user's conversation record.
	// Returns nil (no error) when the user has no record yet.
	GetConversation(ctx context.Context, userID string) (*ConversationRecord, error)

	// PutConversation upserts the state and data for a user.
	PutConversation(ctx context.Context, userID, state, data string) error

	// ClearConversation resets a user to the "user id only" shape.
	// Clearing an already-clear conversation is a no-op with the same
	// stored shape (idempotent).
	ClearConversation(ctx context.Context, userID string) error

	// RegisterUser records a user id without touching any existing
	// state or data (used for follow events).
	RegisterUser(ctx context.Context, userID string) error

	// CountConversations returns the total number of stored users.
	CountConversations(ctx context.Context) (int, error)
}

// HealthRepository defines the interface for health check operations.
type HealthRepository interface {
	// Ping verifies the database connection is alive.
	Ping(ctx context.Context) error
}

// Repository is the aggregate interface combining all repository interfaces.
type Repository interface {
	ConversationRepository
	HealthRepository
	Close() error
}

// Ensure DB implements all repository interfaces at compile time.
var (
	_ ConversationRepository = (*DB)(nil)
	_ HealthRepository       = (*DB)(nil)
	_ Repository             = (*DB)(nil)
)
