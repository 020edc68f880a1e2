// Package bot orchestrates inbound events: rate limiting, the
// conversation state machine step, persistence, and terminal action
// dispatch.
package bot

import (
	"context"

	"github.com/sotoasobi/camp-linebot-go/internal/conversation"
)

// Action is the side-effecting pipeline run when a flow completes (or
// when a message outside any flow arrives, for the general action).
//
// Run owns its own error boundary: generation, parsing, and delivery
// failures are handled inside (logged, converted into a single
// user-visible apology) and never propagate to the processor.
// Flow actions consume params and ignore text; the general action
// consumes the inbound text and ignores params.
type Action interface {
	Run(ctx context.Context, userID, replyToken, text string, params conversation.Params)
}

// TranscriptRecorder receives completed-flow summaries for archival.
// Implementations must be non-blocking; recording is best effort.
type TranscriptRecorder interface {
	RecordCompletion(flow, userID string, fields map[string]string)
}
