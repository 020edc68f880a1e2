package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	domerrors "github.com/sotoasobi/camp-linebot-go/internal/errors"
)

// GetConversation retrieves a user's conversation record.
// Returns nil (no error) when the user has no record yet; NULL state/data
// columns read back as empty strings.
func (db *DB) GetConversation(ctx context.Context, userID string) (*ConversationRecord, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id must not be empty", domerrors.ErrInvalidInput)
	}

	const query = `SELECT state, data FROM conversations WHERE user_id = ?`

	var state, data sql.NullString
	err := db.conn.QueryRowContext(ctx, query, userID).Scan(&state, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation %q: %w", userID, err)
	}

	return &ConversationRecord{
		UserID: userID,
		State:  state.String,
		Data:   data.String,
	}, nil
}

// PutConversation upserts the state and data for a user.
func (db *DB) PutConversation(ctx context.Context, userID, state, data string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id must not be empty", domerrors.ErrInvalidInput)
	}

	const query = `
	INSERT INTO conversations (user_id, state, data, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		state = excluded.state,
		data = excluded.data,
		updated_at = excluded.updated_at`

	if _, err := db.conn.ExecContext(ctx, query, userID, state, data, time.Now().Unix()); err != nil {
		return fmt.Errorf("put conversation %q: %w", userID, err)
	}
	return nil
}

// ClearConversation resets a user to the "user id only" shape.
// Idempotent: clearing an already-clear conversation leaves the same shape.
func (db *DB) ClearConversation(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id must not be empty", domerrors.ErrInvalidInput)
	}

	const query = `
	INSERT INTO conversations (user_id, state, data, updated_at)
	VALUES (?, NULL, NULL, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		state = NULL,
		data = NULL,
		updated_at = excluded.updated_at`

	if _, err := db.conn.ExecContext(ctx, query, userID, time.Now().Unix()); err != nil {
		return fmt.Errorf("clear conversation %q: %w", userID, err)
	}
	return nil
}

// RegisterUser records a user id if absent. Existing state and data are
// left untouched so a re-follow never aborts an active flow.
func (db *DB) RegisterUser(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id must not be empty", domerrors.ErrInvalidInput)
	}

	const query = `
	INSERT INTO conversations (user_id, state, data, updated_at)
	VALUES (?, NULL, NULL, ?)
	ON CONFLICT(user_id) DO NOTHING`

	if _, err := db.conn.ExecContext(ctx, query, userID, time.Now().Unix()); err != nil {
		return fmt.Errorf("register user %q: %w", userID, err)
	}
	return nil
}

// CountConversations returns the total number of stored users.
func (db *DB) CountConversations(ctx context.Context) (int, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM conversations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count conversations: %w", err)
	}
	return count, nil
}

// Ping verifies the database connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}
