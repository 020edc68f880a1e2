// Package item implements the item suggestion flow's terminal action.
package item

import (
	"fmt"
	"strings"

	"github.com/sotoasobi/camp-linebot-go/internal/conversation"
)

// MaxRecords caps how many items one completion may yield, and with it
// the number of per-item follow-up queries.
const MaxRecords = 3

// ApologyMessage is pushed when generation or delivery fails, or when
// no item could be extracted from the completion.
const ApologyMessage = "ごめんなさい、持ち物をうまく提案できませんでした🙏\n" +
	"条件を変えて、もう一度「持ち物提案」から試してください。"

const systemPrompt = "あなたはキャンプ道具に詳しいアドバイザーです。" +
	"指定されたフォーマットで、実用的な持ち物を簡潔に提案してください。"

// AckMessage echoes the collected fields back before generation starts.
func AckMessage(p *conversation.ItemParams) string {
	return fmt.Sprintf("「%s」で「%s」、「%s」な条件の持ち物を考えています…🎒",
		p.Location, p.Duration, p.Conditions)
}

// queryPrompt builds the generation request for the collected fields.
func queryPrompt(p *conversation.ItemParams) string {
	return fmt.Sprintf(
		"%sで%sのキャンプに持っていくべき道具を、条件「%s」を考慮して特に重要なものを%d個教えてください。\n"+
			"次のフォーマットで1行ずつ答えてください。\n"+
			"1. 道具名: ひとことの説明\n2. 道具名: ひとことの説明\n3. 道具名: ひとことの説明",
		p.Location, p.Duration, p.Conditions, MaxRecords)
}

// subQueryPrompt asks for selection pointers for one suggested item.
func subQueryPrompt(r Info) string {
	return fmt.Sprintf("キャンプ道具の「%s」を選ぶときのポイントを3つ、簡潔に教えてください。", r.Name)
}

// joinRecords renders the parsed items as the pushed list text.
func joinRecords(records []Info) string {
	var b strings.Builder
	b.WriteString("おすすめの持ち物はこちらです🎒\n")
	for i, r := range records {
		fmt.Fprintf(&b, "\n%d. %s: %s", i+1, r.Name, r.Description)
	}
	return b.String()
}
