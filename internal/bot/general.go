package bot

import (
	"context"

	"github.com/sotoasobi/camp-linebot-go/internal/conversation"
	"github.com/sotoasobi/camp-linebot-go/internal/genai"
	"github.com/sotoasobi/camp-linebot-go/internal/lineutil"
	"github.com/sotoasobi/camp-linebot-go/internal/logger"
	"github.com/sotoasobi/camp-linebot-go/internal/metrics"
)

// GeneralPersonaPrompt is the fixed system prompt for messages outside
// any flow.
const GeneralPersonaPrompt = "あなたはキャンプと野営が大好きなアシスタント「キャンプちゃん」です。" +
	"親しみやすい口調で、アウトドアの話題を中心に短く答えてください。" +
	"絵文字をほどよく使ってください。"

// GeneralFallbackMessage is sent when generation fails for a general
// message.
const GeneralFallbackMessage = "ごめんなさい、いまうまく答えられませんでした🙏 もう一度送ってみてください。"

// GeneralAction answers free text outside any flow with a single
// persona-prompted generation. The result is sent as the direct reply
// to the triggering event, never pushed.
type GeneralAction struct {
	generator genai.Generator
	messenger lineutil.Messenger
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

// NewGeneralAction creates the general message action.
func NewGeneralAction(g genai.Generator, m lineutil.Messenger, log *logger.Logger, met *metrics.Metrics) *GeneralAction {
	return &GeneralAction{
		generator: g,
		messenger: m,
		logger:    log.WithModule("general"),
		metrics:   met,
	}
}

// Run generates and replies to text that matched no trigger.
func (a *GeneralAction) Run(ctx context.Context, userID, replyToken, text string, _ conversation.Params) {
	log := a.logger.WithUserID(userID)

	reply := GeneralFallbackMessage
	completion, err := a.generator.Generate(ctx, []genai.Message{
		genai.System(GeneralPersonaPrompt),
		genai.User(text),
	})
	if err != nil {
		log.WithError(err).Warn("general generation failed, using fallback")
	} else {
		reply = completion
	}

	if replyToken == "" {
		return
	}
	if err := a.messenger.ReplyText(replyToken, reply); err != nil {
		a.metrics.RecordDelivery("reply", "error")
		log.WithError(err).Error("failed to reply general message")
		return
	}
	a.metrics.RecordDelivery("reply", "success")
}
