package item

import (
	"context"
	"fmt"

	"github.com/sotoasobi/camp-linebot-go/internal/conversation"
	"github.com/sotoasobi/camp-linebot-go/internal/genai"
	"github.com/sotoasobi/camp-linebot-go/internal/lineutil"
	"github.com/sotoasobi/camp-linebot-go/internal/logger"
	"github.com/sotoasobi/camp-linebot-go/internal/metrics"
)

// Action runs the item suggestion terminal pipeline: acknowledgment,
// generation, parsing, a pushed text list, and one follow-up query per
// item. All failures are contained here and surface to the user as a
// single pushed apology.
type Action struct {
	generator genai.Generator
	messenger lineutil.Messenger
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

// NewAction creates the item terminal action.
func NewAction(g genai.Generator, m lineutil.Messenger, log *logger.Logger, met *metrics.Metrics) *Action {
	return &Action{
		generator: g,
		messenger: m,
		logger:    log.WithModule("item"),
		metrics:   met,
	}
}

// Run executes the pipeline for a completed item suggestion flow.
func (a *Action) Run(ctx context.Context, userID, replyToken, _ string, params conversation.Params) {
	log := a.logger.WithUserID(userID)

	p, ok := params.(*conversation.ItemParams)
	if !ok {
		log.WithField("params", params).Error("unexpected params type")
		return
	}

	if err := a.messenger.ReplyText(replyToken, AckMessage(p)); err != nil {
		log.WithError(err).Warn("failed to send acknowledgment")
	}

	completion, err := a.generator.Generate(ctx, []genai.Message{
		genai.System(systemPrompt),
		genai.User(queryPrompt(p)),
	})
	if err != nil {
		log.WithError(err).Error("item generation failed")
		a.apologize(log, userID)
		return
	}

	records := Parse(completion)
	if len(records) == 0 {
		log.WithField("completion_length", len(completion)).Info("no items parsed")
		a.apologize(log, userID)
		return
	}

	if err := a.messenger.PushText(userID, joinRecords(records)); err != nil {
		a.metrics.RecordDelivery("push", "error")
		log.WithError(err).Error("failed to push item list")
		a.apologize(log, userID)
		return
	}
	a.metrics.RecordDelivery("push", "success")

	a.pushItemTips(ctx, log, userID, records)
}

// pushItemTips runs one follow-up query per item, strictly sequential.
// Best effort: a failed sub-query is logged and skipped, the list
// already reached the user.
func (a *Action) pushItemTips(ctx context.Context, log *logger.Logger, userID string, records []Info) {
	for _, r := range records {
		tips, err := a.generator.Generate(ctx, []genai.Message{
			genai.System(systemPrompt),
			genai.User(subQueryPrompt(r)),
		})
		if err != nil {
			log.WithError(err).WithField("item", r.Name).Warn("item tip generation failed")
			continue
		}
		text := fmt.Sprintf("🔦 %sの選び方\n%s", r.Name, tips)
		if err := a.messenger.PushText(userID, text); err != nil {
			a.metrics.RecordDelivery("push", "error")
			log.WithError(err).WithField("item", r.Name).Warn("failed to push item tips")
			continue
		}
		a.metrics.RecordDelivery("push", "success")
	}
}

func (a *Action) apologize(log *logger.Logger, userID string) {
	if err := a.messenger.PushText(userID, ApologyMessage); err != nil {
		a.metrics.RecordDelivery("push", "error")
		log.WithError(err).Error("failed to push apology")
		return
	}
	a.metrics.RecordDelivery("push", "success")
}
