// Package bivouac implements the bivouac lookup flow's terminal action.
package bivouac

import (
	"fmt"

	"github.com/sotoasobi/camp-linebot-go/internal/conversation"
)

// MaxRecords caps how many bivouac spots one completion may yield.
const MaxRecords = 3

// Labels of the structured lines inside one numbered block.
const (
	spotLabel        = "おすすめスポット:"
	descriptionLabel = "特徴・注意点:"
)

// ApologyMessage is pushed when generation or delivery fails, or when
// no bivouac spot could be extracted from the completion.
const ApologyMessage = "ごめんなさい、条件に合う野営地を見つけられませんでした🙏\n" +
	"都道府県や条件を変えて、もう一度「野営地調べ」から試してください。"

const systemPrompt = "あなたは野営やブッシュクラフトに詳しいガイドです。" +
	"野営が許可されている実在の場所だけを、指定されたフォーマットで答えてください。" +
	"安全とマナーに関わる注意点を必ず添えてください。"

// AckMessage echoes the collected fields back before generation starts.
func AckMessage(p *conversation.BivouacParams) string {
	return fmt.Sprintf("「%s」で「%s」な野営地を探しています…🔍", p.Prefecture, p.Conditions)
}

// queryPrompt builds the generation request for the collected fields.
func queryPrompt(p *conversation.BivouacParams) string {
	return fmt.Sprintf(
		"%sで野営ができる場所を、条件「%s」を考慮して最大%d件教えてください。\n"+
			"1件ごとに次のフォーマットで答えてください。\n"+
			"1. 場所の名前\n"+
			"おすすめスポット: その場所の中で野営に向くスポット\n"+
			"特徴・注意点: 特徴と注意点の説明",
		p.Prefecture, p.Conditions, MaxRecords)
}
