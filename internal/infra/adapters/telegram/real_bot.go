package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-image-bot/internal/application"
	"telegram-image-bot/internal/config"
	"telegram-image-bot/internal/domain/ports/adapter"
	"telegram-image-bot/internal/infra/logging"
	"telegram-image-bot/internal/infra/metrics"
	red "telegram-image-bot/internal/infra/redis"
	"telegram-image-bot/internal/infra/worker"
	"telegram-image-bot/internal/usecase"
)

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// RealTelegramBotAdapter uses tgbotapi to poll updates and delegates to
// BotFacade for commands and to the generation flow for prompts.
type RealTelegramBotAdapter struct {
	bot         *tgbotapi.BotAPI
	cfg         *config.Config
	facade      *application.BotFacade
	rateLimiter *red.RateLimiter
	flow        *generationFlow
	log         *zerolog.Logger

	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(
	cfg *config.Config,
	facade *application.BotFacade,
	genUC usecase.GenerationUseCase,
	rateLimiter *red.RateLimiter,
	locker red.Locker,
	pool *worker.Pool,
	log *zerolog.Logger,
) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	if genUC == nil {
		return nil, errors.New("generation usecase is nil")
	}
	if pool == nil {
		return nil, errors.New("worker pool is nil")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		return nil, err
	}

	workers := cfg.Bot.Workers
	if workers <= 0 {
		workers = 5
	}

	r := &RealTelegramBotAdapter{
		bot:           bot,
		cfg:           cfg,
		facade:        facade,
		rateLimiter:   rateLimiter,
		log:           log,
		updateWorkers: workers,
	}
	r.flow = newGenerationFlow(r, genUC, rateLimiter, locker, pool, cfg.RateLimit.GenerationsPerMinute, log)
	return r, nil
}

func (r *RealTelegramBotAdapter) Username() string {
	if r.bot.Self.UserName != "" {
		return r.bot.Self.UserName
	}
	return r.cfg.Bot.Username
}

func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					if err := r.handleUpdate(ctx, up); err != nil {
						r.log.Error().Err(err).Int("worker", id).Msg("update handling failed")
					}
				}
			}
		}(i)
	}

	r.log.Info().Str("username", r.Username()).Int("workers", r.updateWorkers).Msg("polling for updates")

	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

// StopPolling closes the long-poll connection and stops the update workers.
func (r *RealTelegramBotAdapter) StopPolling() {
	r.bot.StopReceivingUpdates()
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

// classifyMessage maps incoming message text to a command name ("/start"),
// "message" for a plain prompt, or "" for updates that carry no text at all
// (stickers, photos, voice notes), which the bot ignores. A "/start@BotName"
// group-chat suffix is stripped before matching.
func classifyMessage(text string) string {
	fields := strings.Fields(text)
	if len(fields) > 0 && strings.HasPrefix(fields[0], "/") {
		command := strings.ToLower(fields[0])
		if i := strings.Index(command, "@"); i > 0 {
			command = command[:i]
		}
		return command
	}
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return "message"
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.Message == nil {
		return nil
	}
	tgUser := update.Message.From
	if tgUser == nil {
		return nil
	}

	command := classifyMessage(update.Message.Text)
	if command == "" {
		metrics.IncUpdate("ignored")
		return nil
	}

	chatID := update.Message.Chat.ID
	ctx = logging.WithTraceID(ctx, uuid.NewString())
	ctx = logging.WithTgID(logging.WithChatID(ctx, chatID), tgUser.ID)

	// Basic rate limiting per user per command
	if r.rateLimiter != nil {
		allowed, err := r.rateLimiter.Allow(ctx, red.UserCommandKey(tgUser.ID, command),
			r.cfg.RateLimit.CommandsPerMinute, time.Minute)
		if err != nil {
			r.log.Warn().Err(err).Msg("rate limit check failed")
		} else if !allowed {
			metrics.IncRateLimitHit("command")
			_, err := r.SendMessage(ctx, chatID, "Rate limit exceeded. Please try again later.")
			return err
		}
	}

	switch command {
	case "/start":
		metrics.IncUpdate("command")
		text, err := r.facade.HandleStart(ctx, tgUser.UserName)
		if err != nil {
			text = "Failed to initialize. Please try again."
		}
		_, err = r.SendMessage(ctx, chatID, text)
		return err

	case "/help":
		metrics.IncUpdate("command")
		text, err := r.facade.HandleHelp(ctx)
		if err != nil {
			text = "Help is unavailable right now."
		}
		_, err = r.SendMessage(ctx, chatID, text)
		return err

	case "/status":
		metrics.IncUpdate("command")
		text, err := r.facade.HandleStatus(ctx, tgUser.ID, chatID)
		if err != nil {
			text = "Failed to get status."
		}
		_, err = r.SendMessage(ctx, chatID, text)
		return err

	case "message":
		metrics.IncUpdate("prompt")
		return r.flow.HandlePrompt(ctx, chatID, tgUser.ID, update.Message.Text)

	default:
		metrics.IncUpdate("other")
		_, err := r.SendMessage(ctx, chatID, "Unknown command. Try /help.")
		return err
	}
}

// ---- adapter.TelegramBotAdapter ----

func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, chatID int64, text string) (adapter.MessageRef, error) {
	select {
	case <-ctx.Done():
		return adapter.MessageRef{}, ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(chatID, text)
	sent, err := r.bot.Send(msg)
	metrics.IncReply("text", err == nil)
	if err != nil {
		return adapter.MessageRef{}, err
	}
	return adapter.MessageRef{ChatID: chatID, MessageID: sent.MessageID}, nil
}

func (r *RealTelegramBotAdapter) SendPhoto(ctx context.Context, chatID int64, photo adapter.Photo) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	msg := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: photo.Name, Bytes: photo.Data})
	msg.Caption = photo.Caption
	_, err := r.bot.Send(msg)
	metrics.IncReply("photo", err == nil)
	return err
}

func (r *RealTelegramBotAdapter) EditMessage(ctx context.Context, ref adapter.MessageRef, text string) error {
	edit := tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, text)
	_, err := r.bot.Request(edit)
	metrics.IncReply("edit", err == nil)
	return err
}

func (r *RealTelegramBotAdapter) DeleteMessage(ctx context.Context, ref adapter.MessageRef) error {
	del := tgbotapi.NewDeleteMessage(ref.ChatID, ref.MessageID)
	_, err := r.bot.Request(del)
	metrics.IncReply("delete", err == nil)
	return err
}
