package telegram

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-image-bot/internal/domain/ports/adapter"
)

var _ adapter.TelegramBotAdapter = (*NoopBotAdapter)(nil)

// NoopBotAdapter implements adapter.TelegramBotAdapter for local/dev runs.
// It logs outgoing traffic instead of talking to Telegram.
type NoopBotAdapter struct {
	log *zerolog.Logger
}

func NewNoopBotAdapter(log *zerolog.Logger) *NoopBotAdapter {
	return &NoopBotAdapter{log: log}
}

func (n *NoopBotAdapter) SendMessage(ctx context.Context, chatID int64, text string) (adapter.MessageRef, error) {
	n.log.Info().Int64("chat_id", chatID).Str("text", text).Msg("[noop-bot] send message")
	return adapter.MessageRef{ChatID: chatID, MessageID: 1}, nil
}

func (n *NoopBotAdapter) SendPhoto(ctx context.Context, chatID int64, photo adapter.Photo) error {
	n.log.Info().Int64("chat_id", chatID).Int("bytes", len(photo.Data)).Str("caption", photo.Caption).Msg("[noop-bot] send photo")
	return nil
}

func (n *NoopBotAdapter) EditMessage(ctx context.Context, ref adapter.MessageRef, text string) error {
	n.log.Info().Int64("chat_id", ref.ChatID).Int("message_id", ref.MessageID).Str("text", text).Msg("[noop-bot] edit message")
	return nil
}

func (n *NoopBotAdapter) DeleteMessage(ctx context.Context, ref adapter.MessageRef) error {
	n.log.Info().Int64("chat_id", ref.ChatID).Int("message_id", ref.MessageID).Msg("[noop-bot] delete message")
	return nil
}
