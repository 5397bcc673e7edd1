package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"telegram-image-bot/internal/domain"
	"telegram-image-bot/internal/domain/model"
	"telegram-image-bot/internal/domain/ports/adapter"
	"telegram-image-bot/internal/infra/logging"
	"telegram-image-bot/internal/infra/metrics"
)

// Compile-time check
var _ GenerationUseCase = (*generationUC)(nil)

type GenerationUseCase interface {
	// NewJob validates the prompt and returns a pending job, or a domain
	// error describing why the prompt was rejected.
	NewJob(ctx context.Context, chatID, telegramID int64, prompt string) (*model.GenerationJob, error)

	// Run executes the job against the image provider and returns the image.
	// The job is mutated to its terminal status.
	Run(ctx context.Context, job *model.GenerationJob) (adapter.Image, error)

	ListModels(ctx context.Context) ([]string, error)
	DefaultModel() string
}

type generationUC struct {
	gen            adapter.ImageGenAdapter
	defaultModel   string
	promptTokenMax int
	log            *zerolog.Logger
	devMode        bool
}

func NewGenerationUseCase(gen adapter.ImageGenAdapter, defaultModel string, promptTokenMax int, log *zerolog.Logger, devMode bool) *generationUC {
	return &generationUC{
		gen:            gen,
		defaultModel:   defaultModel,
		promptTokenMax: promptTokenMax,
		log:            log,
		devMode:        devMode,
	}
}

func (g *generationUC) DefaultModel() string { return g.defaultModel }

func (g *generationUC) ListModels(ctx context.Context) ([]string, error) {
	return g.gen.ListModels(ctx)
}

func (g *generationUC) NewJob(ctx context.Context, chatID, telegramID int64, prompt string) (*model.GenerationJob, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		metrics.IncPromptReject("empty")
		return nil, domain.ErrEmptyPrompt
	}
	if len([]rune(prompt)) > model.MaxPromptChars {
		metrics.IncPromptReject("too_long")
		return nil, domain.ErrPromptTooLong
	}

	job := model.NewGenerationJob(newJobID(), chatID, telegramID, prompt, g.defaultModel)
	if info, err := g.gen.GetModelInfo(job.Model); err == nil {
		job.Provider = info.Provider
	}

	// Best-effort token budget check; a counting failure never blocks the job.
	if tokens, err := g.gen.CountPromptTokens(ctx, job.Model, prompt); err == nil {
		job.PromptTokens = tokens
		if g.promptTokenMax > 0 && tokens > g.promptTokenMax {
			metrics.IncPromptReject("token_budget")
			return nil, domain.ErrPromptTokenBudget
		}
	} else {
		logging.With(ctx, g.log).Warn().Err(err).Msg("prompt token count failed")
	}

	return job, nil
}

func (g *generationUC) Run(ctx context.Context, job *model.GenerationJob) (adapter.Image, error) {
	ctx = logging.WithJobID(ctx, job.ID)
	log := logging.With(ctx, g.log)
	defer logging.TraceDuration(log, "GenerationUC.Run")()

	job.MarkProcessing()
	log.Info().
		Str("model", job.Model).
		Int("prompt_tokens", job.PromptTokens).
		Str("prompt", logging.Redact(job.Prompt, g.devMode)).
		Msg("generation started")

	start := time.Now()
	img, err := g.gen.Generate(ctx, job.Model, job.Prompt)
	latency := time.Since(start)

	if err != nil {
		job.MarkFailed(err)
		// Failed calls return a zero Image, so the label comes from the job's
		// resolved provider rather than an empty string.
		provider := job.Provider
		if provider == "" {
			provider = "unknown"
		}
		metrics.ObserveGeneration(provider, job.Model, job.PromptTokens, 0, int(latency/time.Millisecond), false)
		log.Error().Err(err).Dur("duration", latency).Msg("generation failed")
		return adapter.Image{}, err
	}

	job.Provider = img.Provider
	if img.Model != "" {
		job.Model = img.Model
	}
	job.MarkCompleted()
	metrics.ObserveGeneration(img.Provider, job.Model, job.PromptTokens, len(img.Data), int(latency/time.Millisecond), true)
	log.Info().
		Str("provider", img.Provider).
		Int("image_bytes", len(img.Data)).
		Dur("duration", latency).
		Msg("generation completed")
	return img, nil
}

func newJobID() string {
	return ulid.Make().String()
}
