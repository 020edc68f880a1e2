// Package webhook receives LINE webhook callbacks and hands the first
// event of each batch to the bot processor.
package webhook

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/sotoasobi/camp-linebot-go/internal/logger"
	"github.com/sotoasobi/camp-linebot-go/internal/metrics"
)

// EventProcessor drives one conversation turn per event.
type EventProcessor interface {
	ProcessMessage(ctx context.Context, userID, replyToken, text string) error
	ProcessFollow(ctx context.Context, userID, replyToken string) error
}

// Handler handles LINE webhook callbacks.
type Handler struct {
	channelSecret string
	processor     EventProcessor
	logger        *logger.Logger
	metrics       *metrics.Metrics
}

// NewHandler creates a webhook handler.
func NewHandler(channelSecret string, processor EventProcessor, log *logger.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		channelSecret: channelSecret,
		processor:     processor,
		logger:        log.WithModule("webhook"),
		metrics:       m,
	}
}

// Handle is the gin handler for POST /callback.
//
// An invalid signature is rejected with 401 before any processing.
// Other parse failures and empty event lists return 200 with no
// processing so health checks and probes stay green. Exactly the first
// event of a batch is processed, synchronously; store failures fail the
// invocation with 500.
func (h *Handler) Handle(c *gin.Context) {
	cb, err := webhook.ParseRequest(h.channelSecret, c.Request)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			h.logger.Warn("invalid webhook signature")
			h.metrics.RecordWebhook("batch", "unauthorized", 0)
			c.Status(http.StatusUnauthorized)
			return
		}
		h.logger.WithError(err).Debug("unparseable webhook body, ignoring")
		h.metrics.RecordWebhook("batch", "ignored", 0)
		c.Status(http.StatusOK)
		return
	}

	if len(cb.Events) == 0 {
		h.metrics.RecordWebhook("batch", "empty", 0)
		c.Status(http.StatusOK)
		return
	}
	if len(cb.Events) > 1 {
		h.logger.WithField("event_count", len(cb.Events)).Debug("extra events in batch ignored")
	}

	start := time.Now()
	eventType, err := h.processEvent(c.Request.Context(), cb.Events[0])
	duration := time.Since(start).Seconds()

	if err != nil {
		h.metrics.RecordWebhook(eventType, "error", duration)
		h.logger.WithError(err).WithField("event_type", eventType).Error("event processing failed")
		c.Status(http.StatusInternalServerError)
		return
	}
	h.metrics.RecordWebhook(eventType, "success", duration)
	c.Status(http.StatusOK)
}

// processEvent routes one event. Unhandled event and message types are
// a successful no-op.
func (h *Handler) processEvent(ctx context.Context, event webhook.EventInterface) (string, error) {
	switch e := event.(type) {
	case webhook.MessageEvent:
		text, ok := e.Message.(webhook.TextMessageContent)
		if !ok {
			return "message", nil
		}
		return "message", h.processor.ProcessMessage(ctx, sourceUserID(e.Source), e.ReplyToken, text.Text)
	case webhook.FollowEvent:
		return "follow", h.processor.ProcessFollow(ctx, sourceUserID(e.Source), e.ReplyToken)
	default:
		return "other", nil
	}
}

// sourceUserID extracts the user id from an event source.
func sourceUserID(source webhook.SourceInterface) string {
	switch s := source.(type) {
	case webhook.UserSource:
		return s.UserId
	case *webhook.UserSource:
		return s.UserId
	case webhook.GroupSource:
		return s.UserId
	case *webhook.GroupSource:
		return s.UserId
	case webhook.RoomSource:
		return s.UserId
	case *webhook.RoomSource:
		return s.UserId
	default:
		return ""
	}
}
