package bot

// Fixed user-facing texts outside the flow prompts.
const (
	// WelcomeMessage is replied to a follow event.
	WelcomeMessage = "友だち追加ありがとうございます!🏕️\n" +
		"キャンプ場探し・野営地探し・持ち物の相談ができます。\n\n" +
		"メニューから選ぶか、次のどれかを送ってください:\n" +
		"・きゃんぷ場調べ\n・野営地調べ\n・持ち物提案"

	// RateLimitMessage is replied when a user sends messages too fast.
	RateLimitMessage = "メッセージが多すぎます🙏 少し待ってからもう一度送ってください。"
)
