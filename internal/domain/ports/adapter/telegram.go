package adapter

import "context"

// TelegramBotAdapter is the outbound port to the chat transport. The core
// only ever sends plain text replies.
type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}
