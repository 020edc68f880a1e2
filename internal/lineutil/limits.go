package lineutil

// LINE API character limits (rune count).
// Reference: https://developers.line.biz/en/reference/messaging-api/
const (
	MaxTextMessageLength = 5000 // Text message max content length
	MaxAltTextLength     = 400  // Flex message alt text length

	MaxFlexCarouselBubbleCount = 12 // Max bubbles in a Flex carousel

	MaxMessagesPerReply = 5 // Max messages per reply/push request
)
