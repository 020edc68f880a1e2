package camp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sotoasobi/camp-linebot-go/internal/conversation"
	"github.com/sotoasobi/camp-linebot-go/internal/genai"
	"github.com/sotoasobi/camp-linebot-go/internal/logger"
	"github.com/sotoasobi/camp-linebot-go/internal/metrics"
)

type fakeGenerator struct {
	results []string
	err     error
	calls   int
}

func (f *fakeGenerator) Generate(_ context.Context, _ []genai.Message) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if f.calls <= len(f.results) {
		return f.results[f.calls-1], nil
	}
	return "", genai.ErrEmptyCompletion
}

func (f *fakeGenerator) Provider() genai.Provider { return "fake" }
func (f *fakeGenerator) Close() error             { return nil }

type fakeMessenger struct {
	replies []string
	pushes  []string
	flexes  int
	pushErr error
}

func (f *fakeMessenger) ReplyText(_ string, texts ...string) error {
	f.replies = append(f.replies, texts...)
	return nil
}

func (f *fakeMessenger) PushText(_ string, text string) error {
	if f.pushErr != nil {
		return f.pushErr
	}
	f.pushes = append(f.pushes, text)
	return nil
}

func (f *fakeMessenger) PushFlex(_, _ string, _ messaging_api.FlexContainerInterface) error {
	if f.pushErr != nil {
		return f.pushErr
	}
	f.flexes++
	return nil
}

func newTestAction(g *fakeGenerator, m *fakeMessenger) *Action {
	log := logger.New("error")
	met := metrics.New(prometheus.NewRegistry())
	return NewAction(g, m, log, met)
}

func campParams() *conversation.CampParams {
	return &conversation.CampParams{Region: "長野県", Date: "3/1", Conditions: "ペット可"}
}

func TestActionHappyPath(t *testing.T) {
	g := &fakeGenerator{results: []string{"1. ふもとっぱら\n2. 青川峡", "どちらも絶景です。"}}
	m := &fakeMessenger{}
	newTestAction(g, m).Run(context.Background(), "U1", "token", "", campParams())

	if len(m.replies) != 1 || !strings.Contains(m.replies[0], "長野県") {
		t.Errorf("ack replies = %v, want one mentioning the region", m.replies)
	}
	if m.flexes != 1 {
		t.Errorf("flex pushes = %d, want 1", m.flexes)
	}
	if len(m.pushes) != 1 || m.pushes[0] != "どちらも絶景です。" {
		t.Errorf("text pushes = %v, want detail text", m.pushes)
	}
}

func TestActionGenerationFailurePushesApology(t *testing.T) {
	g := &fakeGenerator{err: errors.New("503 unavailable")}
	m := &fakeMessenger{}
	newTestAction(g, m).Run(context.Background(), "U1", "token", "", campParams())

	if m.flexes != 0 {
		t.Errorf("flex pushes = %d, want 0", m.flexes)
	}
	if len(m.pushes) != 1 || m.pushes[0] != ApologyMessage {
		t.Errorf("pushes = %v, want single apology", m.pushes)
	}
}

func TestActionZeroRecordsPushesApology(t *testing.T) {
	g := &fakeGenerator{results: []string{"条件に合う場所が見つかりませんでした。"}}
	m := &fakeMessenger{}
	newTestAction(g, m).Run(context.Background(), "U1", "token", "", campParams())

	if g.calls != 1 {
		t.Errorf("generator calls = %d, want 1 (no detail call after empty parse)", g.calls)
	}
	if len(m.pushes) != 1 || m.pushes[0] != ApologyMessage {
		t.Errorf("pushes = %v, want single apology", m.pushes)
	}
}

func TestActionDetailFailureIsSwallowed(t *testing.T) {
	g := &fakeGenerator{results: []string{"1. ふもとっぱら"}}
	m := &fakeMessenger{}
	newTestAction(g, m).Run(context.Background(), "U1", "token", "", campParams())

	// Detail generation returned ErrEmptyCompletion; carousel still
	// delivered, no apology.
	if m.flexes != 1 {
		t.Errorf("flex pushes = %d, want 1", m.flexes)
	}
	for _, p := range m.pushes {
		if p == ApologyMessage {
			t.Error("apology pushed after successful carousel delivery")
		}
	}
}

func TestActionWrongParamsType(t *testing.T) {
	g := &fakeGenerator{}
	m := &fakeMessenger{}
	newTestAction(g, m).Run(context.Background(), "U1", "token", "", &conversation.ItemParams{})

	if g.calls != 0 || len(m.pushes) != 0 || len(m.replies) != 0 {
		t.Error("action ran with wrong params type")
	}
}
