package adapter

import "context"

// Photo is an image payload plus the caption shown under it.
type Photo struct {
	Name    string
	Data    []byte
	Caption string
}

// MessageRef identifies a message the bot previously sent so it can be
// edited or deleted later (the "generating..." status flow).
type MessageRef struct {
	ChatID    int64
	MessageID int
}

type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, chatID int64, text string) (MessageRef, error)
	SendPhoto(ctx context.Context, chatID int64, photo Photo) error
	EditMessage(ctx context.Context, ref MessageRef, text string) error
	DeleteMessage(ctx context.Context, ref MessageRef) error
}
