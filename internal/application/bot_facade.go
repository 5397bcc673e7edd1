package application

import (
	"context"
	"fmt"
	"strings"

	"telegram-image-bot/internal/domain/model"
	"telegram-image-bot/internal/usecase"
)

// BotFacade composes usecases into high-level bot commands.
// Facade methods return strings so the Telegram adapter just forwards them to the chat.
type BotFacade struct {
	GenUC    usecase.GenerationUseCase
	provider string
}

func NewBotFacade(genUC usecase.GenerationUseCase, defaultProvider string) *BotFacade {
	return &BotFacade{GenUC: genUC, provider: defaultProvider}
}

// HandleStart returns the welcome text with example prompts and commands.
func (b *BotFacade) HandleStart(ctx context.Context, username string) (string, error) {
	sb := strings.Builder{}
	sb.WriteString("🎨 AI Image Generator Bot\n\n")
	sb.WriteString("Send me any text description and I'll generate an image for you!\n\n")
	sb.WriteString("Examples:\n")
	sb.WriteString("• Astronaut riding a horse\n")
	sb.WriteString("• Beautiful sunset over mountains\n")
	sb.WriteString("• Cute cat wearing sunglasses\n")
	sb.WriteString("• Cyberpunk city at night\n\n")
	sb.WriteString("Commands:\n")
	sb.WriteString("/start - show this welcome message\n")
	sb.WriteString("/help - get detailed help\n")
	sb.WriteString("/status - check bot status\n\n")
	sb.WriteString("Just type your description and wait for the magic! ✨")
	return sb.String(), nil
}

// HandleHelp returns the usage guide.
func (b *BotFacade) HandleHelp(ctx context.Context) (string, error) {
	sb := strings.Builder{}
	sb.WriteString("🤖 How to use this bot:\n\n")
	sb.WriteString("1. Send a text description of what you want to see\n")
	sb.WriteString("2. Wait while the image is generated (10-30 seconds)\n")
	sb.WriteString("3. Receive your AI-generated image\n\n")
	sb.WriteString("Tips for better results:\n")
	sb.WriteString("• Be specific and descriptive\n")
	sb.WriteString("• Include style keywords (photorealistic, cartoon, oil painting)\n")
	sb.WriteString("• Mention colors, lighting and mood\n")
	sb.WriteString(fmt.Sprintf("• Keep the prompt under %d characters\n", model.MaxPromptChars))
	if b.GenUC != nil {
		sb.WriteString(fmt.Sprintf("\nModel: %s", b.GenUC.DefaultModel()))
	}
	return sb.String(), nil
}

// HandleStatus reports the bot mode, active provider/model and the caller's IDs.
func (b *BotFacade) HandleStatus(ctx context.Context, telegramID, chatID int64) (string, error) {
	if b.GenUC == nil {
		return "", fmt.Errorf("generation usecase not available")
	}
	sb := strings.Builder{}
	sb.WriteString("🟢 Bot Status: Online\n\n")
	sb.WriteString("• Mode: background worker (polling)\n")
	sb.WriteString(fmt.Sprintf("• Provider: %s\n", b.provider))
	sb.WriteString(fmt.Sprintf("• Model: %s\n", b.GenUC.DefaultModel()))
	sb.WriteString("• Status: ready to generate images\n\n")
	sb.WriteString(fmt.Sprintf("• Your ID: %d\n", telegramID))
	sb.WriteString(fmt.Sprintf("• Chat ID: %d", chatID))
	return sb.String(), nil
}
