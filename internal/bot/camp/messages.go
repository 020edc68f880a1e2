// Package camp implements the camp lookup flow's terminal action:
// generation, response parsing, and Flex card composition.
package camp

import (
	"fmt"
	"strings"

	"github.com/sotoasobi/camp-linebot-go/internal/conversation"
)

// MaxRecords caps how many camp sites one completion may yield.
const MaxRecords = 3

// ApologyMessage is pushed when generation or delivery fails, or when
// no camp site could be extracted from the completion.
const ApologyMessage = "ごめんなさい、条件に合うキャンプ場を見つけられませんでした🙏\n" +
	"地域や条件を変えて、もう一度「きゃんぷ場調べ」から試してください。"

const systemPrompt = "あなたは日本全国のキャンプ場に詳しいガイドです。" +
	"実在するキャンプ場だけを、指定されたフォーマットで簡潔に答えてください。"

// AckMessage echoes the collected fields back before generation starts.
func AckMessage(p *conversation.CampParams) string {
	return fmt.Sprintf("「%s」の「%s」に利用できる、「%s」なキャンプ場を探しています…🔍",
		p.Region, p.Date, p.Conditions)
}

// queryPrompt builds the generation request for the collected fields.
func queryPrompt(p *conversation.CampParams) string {
	return fmt.Sprintf(
		"%sで%sに利用できるキャンプ場を、条件「%s」を考慮して最大%d件教えてください。\n"+
			"次のフォーマットで、キャンプ場名だけを1行ずつ答えてください。\n"+
			"1. キャンプ場名\n2. キャンプ場名\n3. キャンプ場名",
		p.Region, p.Date, p.Conditions, MaxRecords)
}

// detailPrompt asks for a short supplementary description of the found
// camp sites.
func detailPrompt(records []Info) string {
	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.Name)
	}
	return fmt.Sprintf(
		"次のキャンプ場それぞれについて、特徴とおすすめポイントを2文程度で教えてください。\n%s",
		strings.Join(names, "\n"))
}
