package bot

import (
	"context"
	"time"

	"github.com/sotoasobi/camp-linebot-go/internal/conversation"
	domerrors "github.com/sotoasobi/camp-linebot-go/internal/errors"
	"github.com/sotoasobi/camp-linebot-go/internal/lineutil"
	"github.com/sotoasobi/camp-linebot-go/internal/logger"
	"github.com/sotoasobi/camp-linebot-go/internal/metrics"
	"github.com/sotoasobi/camp-linebot-go/internal/ratelimit"
	"github.com/sotoasobi/camp-linebot-go/internal/storage"
)

// Processor drives one conversation turn per inbound event.
//
// Store failures propagate to the caller and fail the invocation;
// everything downstream of a successful persist (replies, terminal
// actions) is user-local and never returns an error.
type Processor struct {
	store       storage.ConversationRepository
	messenger   lineutil.Messenger
	userLimiter *ratelimit.PerKeyLimiter
	actions     map[conversation.Terminal]Action
	recorder    TranscriptRecorder
	logger      *logger.Logger
	metrics     *metrics.Metrics
}

// ProcessorConfig holds the collaborators for a new Processor.
type ProcessorConfig struct {
	Store       storage.ConversationRepository
	Messenger   lineutil.Messenger
	UserLimiter *ratelimit.PerKeyLimiter
	Actions     map[conversation.Terminal]Action
	Recorder    TranscriptRecorder // optional
	Logger      *logger.Logger
	Metrics     *metrics.Metrics
}

// NewProcessor creates an event processor.
func NewProcessor(cfg ProcessorConfig) *Processor {
	return &Processor{
		store:       cfg.Store,
		messenger:   cfg.Messenger,
		userLimiter: cfg.UserLimiter,
		actions:     cfg.Actions,
		recorder:    cfg.Recorder,
		logger:      cfg.Logger.WithModule("bot"),
		metrics:     cfg.Metrics,
	}
}

// ProcessMessage handles one inbound text message. The returned error
// is non-nil only for store failures.
func (p *Processor) ProcessMessage(ctx context.Context, userID, replyToken, text string) error {
	if userID == "" || text == "" {
		return nil
	}
	log := p.logger.WithUserID(userID)

	if p.userLimiter != nil && !p.userLimiter.Allow(userID) {
		p.metrics.RecordRateLimiterDrop("user")
		p.reply(log, replyToken, RateLimitMessage)
		return nil
	}

	state, data, err := p.loadConversation(ctx, userID)
	if err != nil {
		return err
	}

	res := conversation.Step(text, state, data)

	if err := p.persist(ctx, userID, res); err != nil {
		return err
	}

	if res.Next != conversation.StateNone {
		p.metrics.RecordTransition(string(conversation.FlowOf(res.Next)), string(res.Next))
		log.WithField("state", string(res.Next)).Debug("conversation advanced")
	}

	if res.Reply != "" {
		p.reply(log, replyToken, res.Reply)
	}

	if res.Terminal != conversation.TerminalNone {
		p.dispatch(ctx, log, userID, replyToken, text, res)
	}
	return nil
}

// ProcessFollow handles a follow event: record the user id and send the
// fixed welcome. It never touches conversation state.
func (p *Processor) ProcessFollow(ctx context.Context, userID, replyToken string) error {
	if userID == "" {
		return nil
	}
	log := p.logger.WithUserID(userID)

	start := time.Now()
	if err := p.store.RegisterUser(ctx, userID); err != nil {
		p.metrics.RecordStoreOp("register", "error")
		return domerrors.NewStoreError("register", userID, err)
	}
	p.metrics.RecordStoreOp("register", "success")
	log.WithField("duration_ms", time.Since(start).Milliseconds()).Info("user registered")

	p.reply(log, replyToken, WelcomeMessage)
	return nil
}

func (p *Processor) loadConversation(ctx context.Context, userID string) (conversation.State, string, error) {
	rec, err := p.store.GetConversation(ctx, userID)
	if err != nil {
		p.metrics.RecordStoreOp("get", "error")
		return conversation.StateNone, "", domerrors.NewStoreError("get", userID, err)
	}
	p.metrics.RecordStoreOp("get", "success")
	if rec == nil {
		return conversation.StateNone, "", nil
	}
	return conversation.State(rec.State), rec.Data, nil
}

// persist applies the step's state change before any reply goes out.
func (p *Processor) persist(ctx context.Context, userID string, res conversation.StepResult) error {
	switch {
	case res.Next != conversation.StateNone:
		data, err := conversation.EncodeParams(res.Params)
		if err != nil {
			return err
		}
		if err := p.store.PutConversation(ctx, userID, string(res.Next), data); err != nil {
			p.metrics.RecordStoreOp("put", "error")
			return domerrors.NewStoreError("put", userID, err)
		}
		p.metrics.RecordStoreOp("put", "success")
	case res.Clear:
		if err := p.store.ClearConversation(ctx, userID); err != nil {
			p.metrics.RecordStoreOp("clear", "error")
			return domerrors.NewStoreError("clear", userID, err)
		}
		p.metrics.RecordStoreOp("clear", "success")
	}
	return nil
}

func (p *Processor) dispatch(ctx context.Context, log *logger.Logger, userID, replyToken, text string, res conversation.StepResult) {
	action, ok := p.actions[res.Terminal]
	if !ok {
		log.WithField("terminal", string(res.Terminal)).Error("no action registered")
		return
	}

	start := time.Now()
	action.Run(ctx, userID, replyToken, text, res.Params)
	p.metrics.RecordCompletion(string(res.Terminal), "done")
	log.WithField("terminal", string(res.Terminal)).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		Info("terminal action finished")

	if p.recorder != nil && res.Params != nil {
		p.recorder.RecordCompletion(string(res.Terminal), userID, res.Params.Fields())
	}
}

func (p *Processor) reply(log *logger.Logger, replyToken, text string) {
	if replyToken == "" {
		return
	}
	if err := p.messenger.ReplyText(replyToken, text); err != nil {
		p.metrics.RecordDelivery("reply", "error")
		log.WithError(err).Error("failed to send reply")
		return
	}
	p.metrics.RecordDelivery("reply", "success")
}
