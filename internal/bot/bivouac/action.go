package bivouac

import (
	"context"

	"github.com/sotoasobi/camp-linebot-go/internal/conversation"
	"github.com/sotoasobi/camp-linebot-go/internal/genai"
	"github.com/sotoasobi/camp-linebot-go/internal/lineutil"
	"github.com/sotoasobi/camp-linebot-go/internal/logger"
	"github.com/sotoasobi/camp-linebot-go/internal/metrics"
)

// Action runs the bivouac lookup terminal pipeline. All failures are
// contained here and surface to the user as a single pushed apology.
type Action struct {
	generator genai.Generator
	messenger lineutil.Messenger
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

// NewAction creates the bivouac terminal action.
func NewAction(g genai.Generator, m lineutil.Messenger, log *logger.Logger, met *metrics.Metrics) *Action {
	return &Action{
		generator: g,
		messenger: m,
		logger:    log.WithModule("bivouac"),
		metrics:   met,
	}
}

// Run executes the pipeline for a completed bivouac lookup flow.
func (a *Action) Run(ctx context.Context, userID, replyToken, _ string, params conversation.Params) {
	log := a.logger.WithUserID(userID)

	p, ok := params.(*conversation.BivouacParams)
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
		log.WithError(err).Error("bivouac generation failed")
		a.apologize(log, userID)
		return
	}

	records := Parse(completion)
	if len(records) == 0 {
		log.WithField("completion_length", len(completion)).Info("no bivouac spots parsed")
		a.apologize(log, userID)
		return
	}

	if err := a.messenger.PushFlex(userID, AltText, Compose(records)); err != nil {
		a.metrics.RecordDelivery("push", "error")
		log.WithError(err).Error("failed to push bivouac carousel")
		a.apologize(log, userID)
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
