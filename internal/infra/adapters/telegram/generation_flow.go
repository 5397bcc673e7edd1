package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"telegram-image-bot/internal/domain"
	"telegram-image-bot/internal/domain/model"
	"telegram-image-bot/internal/domain/ports/adapter"
	"telegram-image-bot/internal/infra/metrics"
	red "telegram-image-bot/internal/infra/redis"
	"telegram-image-bot/internal/infra/worker"
	"telegram-image-bot/internal/usecase"
)

// generationLockTTL caps how long a chat stays locked when a worker dies
// mid-generation; normal completion unlocks explicitly.
const generationLockTTL = 3 * time.Minute

// generationFlow drives the prompt-to-image conversation: validate, lock the
// chat, show a status message, run the provider call on the worker pool, then
// deliver the photo and delete the status (or edit it with the failure).
// It talks to Telegram only through the TelegramBotAdapter port.
type generationFlow struct {
	bot           adapter.TelegramBotAdapter
	genUC         usecase.GenerationUseCase
	rateLimiter   *red.RateLimiter
	locker        red.Locker
	pool          *worker.Pool
	gensPerMinute int
	log           *zerolog.Logger
}

func newGenerationFlow(
	bot adapter.TelegramBotAdapter,
	genUC usecase.GenerationUseCase,
	rateLimiter *red.RateLimiter,
	locker red.Locker,
	pool *worker.Pool,
	gensPerMinute int,
	log *zerolog.Logger,
) *generationFlow {
	return &generationFlow{
		bot:           bot,
		genUC:         genUC,
		rateLimiter:   rateLimiter,
		locker:        locker,
		pool:          pool,
		gensPerMinute: gensPerMinute,
		log:           log,
	}
}

func (f *generationFlow) HandlePrompt(ctx context.Context, chatID, telegramID int64, prompt string) error {
	if f.rateLimiter != nil {
		allowed, err := f.rateLimiter.Allow(ctx, red.UserGenerationKey(telegramID),
			f.gensPerMinute, time.Minute)
		if err != nil {
			f.log.Warn().Err(err).Msg("generation rate limit check failed")
		} else if !allowed {
			metrics.IncRateLimitHit("generation")
			_, sendErr := f.bot.SendMessage(ctx, chatID, rejectionText(domain.ErrRateLimited))
			return sendErr
		}
	}

	job, err := f.genUC.NewJob(ctx, chatID, telegramID, prompt)
	if err != nil {
		_, sendErr := f.bot.SendMessage(ctx, chatID, rejectionText(err))
		return sendErr
	}

	var lockToken string
	if f.locker != nil {
		lockKey := red.GenerationLockKey(chatID)
		lockToken, err = f.locker.TryLock(ctx, lockKey, generationLockTTL)
		if err != nil {
			if errors.Is(err, domain.ErrGenerationInFlight) {
				_, sendErr := f.bot.SendMessage(ctx, chatID, "⏳ Still working on your previous image. Please wait for it to finish.")
				return sendErr
			}
			return err
		}
	}

	status, err := f.bot.SendMessage(ctx, chatID,
		fmt.Sprintf("🎨 Generating your image...\n\nPrompt: %s\n⏳ This may take 10-30 seconds...", job.Prompt))
	if err != nil {
		f.unlock(ctx, chatID, lockToken)
		return err
	}

	task := func(taskCtx context.Context) error {
		defer f.unlock(taskCtx, chatID, lockToken)
		return f.runGeneration(taskCtx, job, status)
	}
	if err := f.pool.Submit(task); err != nil {
		f.unlock(ctx, chatID, lockToken)
		if errors.Is(err, domain.ErrQueueFull) {
			return f.bot.EditMessage(ctx, status, "😓 The bot is busy right now. Please try again in a moment.")
		}
		return err
	}
	return nil
}

func (f *generationFlow) runGeneration(ctx context.Context, job *model.GenerationJob, status adapter.MessageRef) error {
	img, err := f.genUC.Run(ctx, job)
	if err != nil {
		return f.bot.EditMessage(ctx, status, fmt.Sprintf(
			"❌ Generation failed\n\nSorry, I couldn't generate an image for that prompt.\nPlease try again with a different description.\n\nError: %s",
			job.LastError))
	}

	photo := adapter.Photo{
		Name:    job.ID + ".png",
		Data:    img.Data,
		Caption: fmt.Sprintf("🎨 Generated image\n\nPrompt: %s", job.Prompt),
	}
	if err := f.bot.SendPhoto(ctx, job.ChatID, photo); err != nil {
		return f.bot.EditMessage(ctx, status, "❌ Image was generated but could not be delivered. Please try again.")
	}
	return f.bot.DeleteMessage(ctx, status)
}

func (f *generationFlow) unlock(ctx context.Context, chatID int64, token string) {
	if f.locker == nil || token == "" {
		return
	}
	if err := f.locker.Unlock(ctx, red.GenerationLockKey(chatID), token); err != nil {
		f.log.Warn().Err(err).Int64("chat_id", chatID).Msg("unlock failed")
	}
}

func rejectionText(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyPrompt):
		return "Please provide a description for the image!"
	case errors.Is(err, domain.ErrPromptTooLong):
		return fmt.Sprintf("Please keep your description under %d characters!", model.MaxPromptChars)
	case errors.Is(err, domain.ErrPromptTokenBudget):
		return "That description is too complex. Please try a shorter one."
	case errors.Is(err, domain.ErrRateLimited):
		return "You are generating too fast. Please wait a minute."
	default:
		return "Sorry, I couldn't accept that prompt. Please try again."
	}
}
