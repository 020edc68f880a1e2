package lineutil

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// Messenger is the outbound messaging surface the bot depends on.
// Reply is tied to an inbound event's reply token and usable at most
// once; push targets a user id and is usable any number of times.
type Messenger interface {
	// ReplyText sends one or more text messages as the reply to an
	// inbound event.
	ReplyText(replyToken string, texts ...string) error
	// PushText pushes text to a user, auto-split into chunks of at
	// most MaxTextMessageLength runes.
	PushText(userID, text string) error
	// PushFlex pushes a Flex container to a user.
	PushFlex(userID, altText string, contents messaging_api.FlexContainerInterface) error
}

// Client implements Messenger over the LINE Messaging API.
type Client struct {
	api *messaging_api.MessagingApiAPI
}

// NewClient creates a messaging client from a channel access token.
func NewClient(channelToken string) (*Client, error) {
	api, err := messaging_api.NewMessagingApiAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging client: %w", err)
	}
	return &Client{api: api}, nil
}

// ReplyText sends text messages as a single reply.
func (c *Client) ReplyText(replyToken string, texts ...string) error {
	if len(texts) == 0 {
		return nil
	}
	messages := make([]messaging_api.MessageInterface, 0, len(texts))
	for _, text := range texts {
		if len([]rune(text)) > MaxTextMessageLength {
			text = TruncateRunes(text, MaxTextMessageLength-3) + "..."
		}
		messages = append(messages, &messaging_api.TextMessage{Text: text})
	}

	_, err := c.api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   messages,
	})
	if err != nil {
		return fmt.Errorf("reply message: %w", err)
	}
	return nil
}

// PushText pushes text to a user, splitting long text into multiple
// messages of at most MaxTextMessageLength runes each.
func (c *Client) PushText(userID, text string) error {
	chunks := SplitText(text, MaxTextMessageLength)
	if len(chunks) == 0 {
		return nil
	}

	// One push request carries at most MaxMessagesPerReply messages.
	for start := 0; start < len(chunks); start += MaxMessagesPerReply {
		end := start + MaxMessagesPerReply
		if end > len(chunks) {
			end = len(chunks)
		}
		messages := make([]messaging_api.MessageInterface, 0, end-start)
		for _, chunk := range chunks[start:end] {
			messages = append(messages, &messaging_api.TextMessage{Text: chunk})
		}
		if err := c.push(userID, messages); err != nil {
			return err
		}
	}
	return nil
}

// PushFlex pushes a single Flex message to a user.
func (c *Client) PushFlex(userID, altText string, contents messaging_api.FlexContainerInterface) error {
	if len([]rune(altText)) > MaxAltTextLength {
		altText = TruncateRunes(altText, MaxAltTextLength-3) + "..."
	}
	return c.push(userID, []messaging_api.MessageInterface{
		&messaging_api.FlexMessage{
			AltText:  altText,
			Contents: contents,
		},
	})
}

func (c *Client) push(userID string, messages []messaging_api.MessageInterface) error {
	// Retry key makes the push idempotent on the LINE side if the
	// request is redelivered.
	_, err := c.api.PushMessage(&messaging_api.PushMessageRequest{
		To:       userID,
		Messages: messages,
	}, uuid.NewString())
	if err != nil {
		return fmt.Errorf("push message: %w", err)
	}
	return nil
}
