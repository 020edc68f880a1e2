package item

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
}

func (f *fakeMessenger) ReplyText(_ string, texts ...string) error {
	f.replies = append(f.replies, texts...)
	return nil
}

func (f *fakeMessenger) PushText(_ string, text string) error {
	f.pushes = append(f.pushes, text)
	return nil
}

func (f *fakeMessenger) PushFlex(_, _ string, _ messaging_api.FlexContainerInterface) error {
	return nil
}

func newTestAction(g *fakeGenerator, m *fakeMessenger) *Action {
	return NewAction(g, m, logger.New("error"), metrics.New(prometheus.NewRegistry()))
}

func itemParams() *conversation.ItemParams {
	return &conversation.ItemParams{Location: "山", Duration: "1泊2日", Conditions: "冬キャンプ"}
}

func TestActionHappyPath(t *testing.T) {
	g := &fakeGenerator{results: []string{
		"1. テント: 必須\n2. 寝袋: 冬用を\n3. バーナー: 調理用",
		"テントのポイント",
		"寝袋のポイント",
		"バーナーのポイント",
	}}
	m := &fakeMessenger{}
	newTestAction(g, m).Run(context.Background(), "U1", "token", "", itemParams())

	if len(m.replies) != 1 || !strings.Contains(m.replies[0], "山") {
		t.Errorf("ack replies = %v", m.replies)
	}
	// 1 list push + 3 per-item tip pushes.
	if len(m.pushes) != 4 {
		t.Fatalf("pushes = %d, want 4: %v", len(m.pushes), m.pushes)
	}
	if !strings.Contains(m.pushes[0], "1. テント: 必須") {
		t.Errorf("list push = %q", m.pushes[0])
	}
	if !strings.Contains(m.pushes[1], "テントのポイント") {
		t.Errorf("first tip push = %q", m.pushes[1])
	}
	// 1 list query + 3 sub-queries, strictly sequential.
	if g.calls != 4 {
		t.Errorf("generator calls = %d, want 4", g.calls)
	}
}

func TestActionSubQueryCap(t *testing.T) {
	// Five numbered lines parse to three records, so at most three
	// sub-queries run.
	g := &fakeGenerator{results: []string{
		"1. A: a\n2. B: b\n3. C: c\n4. D: d\n5. E: e",
		"tip", "tip", "tip", "tip", "tip",
	}}
	m := &fakeMessenger{}
	newTestAction(g, m).Run(context.Background(), "U1", "token", "", itemParams())

	if g.calls != 1+MaxRecords {
		t.Errorf("generator calls = %d, want %d", g.calls, 1+MaxRecords)
	}
}

func TestActionGenerationFailurePushesApology(t *testing.T) {
	g := &fakeGenerator{err: errors.New("503 unavailable")}
	m := &fakeMessenger{}
	newTestAction(g, m).Run(context.Background(), "U1", "token", "", itemParams())

	if len(m.pushes) != 1 || m.pushes[0] != ApologyMessage {
		t.Errorf("pushes = %v, want single apology", m.pushes)
	}
}

func TestActionZeroRecordsPushesApology(t *testing.T) {
	g := &fakeGenerator{results: []string{"特に思いつきません"}}
	m := &fakeMessenger{}
	newTestAction(g, m).Run(context.Background(), "U1", "token", "", itemParams())

	if g.calls != 1 {
		t.Errorf("generator calls = %d, want 1", g.calls)
	}
	if len(m.pushes) != 1 || m.pushes[0] != ApologyMessage {
		t.Errorf("pushes = %v, want single apology", m.pushes)
	}
}

func TestActionTipFailureSkipsItem(t *testing.T) {
	g := &fakeGenerator{results: []string{"1. テント: 必須"}}
	m := &fakeMessenger{}
	newTestAction(g, m).Run(context.Background(), "U1", "token", "", itemParams())

	// Tip generation failed (empty completion); list still delivered,
	// no apology.
	if len(m.pushes) != 1 {
		t.Fatalf("pushes = %v, want list only", m.pushes)
	}
	if m.pushes[0] == ApologyMessage {
		t.Error("apology pushed after successful list delivery")
	}
}
