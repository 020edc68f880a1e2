package camp

import (
	"context"

	"github.com/sotoasobi/camp-linebot-go/internal/conversation"
	"github.com/sotoasobi/camp-linebot-go/internal/genai"
	"github.com/sotoasobi/camp-linebot-go/internal/lineutil"
	"github.com/sotoasobi/camp-linebot-go/internal/logger"
	"github.com/sotoasobi/camp-linebot-go/internal/metrics"
)

// Action runs the camp lookup terminal pipeline: acknowledgment,
// generation, parsing, Flex composition, and delivery. All failures are
// contained here and surface to the user as a single pushed apology.
type Action struct {
	generator genai.Generator
	messenger lineutil.Messenger
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

// NewAction creates the camp terminal action.
func NewAction(g genai.Generator, m lineutil.Messenger, log *logger.Logger, met *metrics.Metrics) *Action {
	return &Action{
		generator: g,
		messenger: m,
		logger:    log.WithModule("camp"),
		metrics:   met,
	}
}

// Run executes the pipeline for a completed camp lookup flow.
func (a *Action) Run(ctx context.Context, userID, replyToken, _ string, params conversation.Params) {
	log := a.logger.WithUserID(userID)

	p, ok := params.(*conversation.CampParams)
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
		log.WithError(err).Error("camp generation failed")
		a.apologize(log, userID)
		return
	}

	records := Parse(completion)
	if len(records) == 0 {
		log.WithField("completion_length", len(completion)).Info("no camp sites parsed")
		a.apologize(log, userID)
		return
	}

	if err := a.messenger.PushFlex(userID, AltText, Compose(records)); err != nil {
		a.metrics.RecordDelivery("push", "error")
		log.WithError(err).Error("failed to push camp carousel")
		a.apologize(log, userID)
		return
	}
	a.metrics.RecordDelivery("push", "success")

	a.pushDetails(ctx, log, userID, records)
}

// pushDetails sends one supplementary generation with per-site detail.
// Best effort: failures are logged and swallowed, the carousel already
// reached the user.
func (a *Action) pushDetails(ctx context.Context, log *logger.Logger, userID string, records []Info) {
	detail, err := a.generator.Generate(ctx, []genai.Message{
		genai.System(systemPrompt),
		genai.User(detailPrompt(records)),
	})
	if err != nil {
		log.WithError(err).Warn("camp detail generation failed")
		return
	}
	if err := a.messenger.PushText(userID, detail); err != nil {
		a.metrics.RecordDelivery("push", "error")
		log.WithError(err).Warn("failed to push camp details")
		return
	}
	a.metrics.RecordDelivery("push", "success")
}

func (a *Action) apologize(log *logger.Logger, userID string) {
	if err := a.messenger.PushText(userID, ApologyMessage); err != nil {
		a.metrics.RecordDelivery("push", "error")
		log.WithError(err).Error("failed to push apology")
		return
	}
	a.metrics.RecordDelivery("push", "success")
}
