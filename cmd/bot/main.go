package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"telegram-image-bot/internal/application"
	"telegram-image-bot/internal/config"
	"telegram-image-bot/internal/domain/ports/adapter"
	aiAdapters "telegram-image-bot/internal/infra/adapters/ai"
	tele "telegram-image-bot/internal/infra/adapters/telegram"
	"telegram-image-bot/internal/infra/logging"
	"telegram-image-bot/internal/infra/metrics"
	red "telegram-image-bot/internal/infra/redis"
	"telegram-image-bot/internal/infra/web"
	"telegram-image-bot/internal/infra/worker"
	"telegram-image-bot/internal/probe"
	"telegram-image-bot/internal/usecase"
)

// Overridden at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop providers allowed)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	locker := red.NewLocker(redisClient)

	// ---- Image providers ----
	byProvider := map[string]adapter.ImageGenAdapter{}
	if cfg.Image.HFToken != "" {
		hf, err := aiAdapters.NewHuggingFaceAdapter(cfg.Image.HFToken, cfg.Image.HFBaseURL, cfg.Image.DefaultModel, cfg.Image.RequestTimeout)
		if err != nil {
			log.Fatalf("huggingface adapter: %v", err)
		}
		byProvider["huggingface"] = hf
		logger.Info().Str("model", cfg.Image.DefaultModel).Msg("image provider: Hugging Face")
	}
	if cfg.Image.OpenAIKey != "" {
		oa, err := aiAdapters.NewOpenAIAdapter(cfg.Image.OpenAIKey, "")
		if err != nil {
			log.Fatalf("openai adapter: %v", err)
		}
		byProvider["openai"] = oa
		logger.Info().Msg("image provider: OpenAI")
	}
	if cfg.Image.GeminiKey != "" {
		gm, err := aiAdapters.NewGeminiAdapter(ctx, cfg.Image.GeminiKey, cfg.Image.GeminiURL, "")
		if err != nil {
			log.Fatalf("gemini adapter: %v", err)
		}
		byProvider["gemini"] = gm
		logger.Info().Msg("image provider: Gemini")
	}
	if len(byProvider) == 0 {
		if !cfg.Runtime.Dev {
			log.Fatalf("no image provider configured: set image.hf_token, image.openai_key or image.gemini_key in %s", *cfgPath)
		}
		byProvider[cfg.Image.DefaultProvider] = aiAdapters.NewNoopImageGen()
		logger.Warn().Msg("image provider: noop (dev mode)")
	}
	gen := aiAdapters.NewLimitedImageGen(
		aiAdapters.NewMultiImageAdapter(cfg.Image.DefaultProvider, byProvider, cfg.Image.ModelProviders),
		cfg.Image.ConcurrentLimit,
	)

	// ---- Use cases & facade ----
	genUC := usecase.NewGenerationUseCase(gen, cfg.Image.DefaultModel, cfg.Image.PromptTokenMax, logger, cfg.Runtime.Dev)
	facade := application.NewBotFacade(genUC, cfg.Image.DefaultProvider)

	// ---- Generation worker pool ----
	pool := worker.NewPool(cfg.Image.ConcurrentLimit, logger)
	pool.Start(ctx)

	// ---- Telegram ----
	botAdapter, err := tele.NewRealTelegramBotAdapter(cfg, facade, genUC, rateLimiter, locker, pool, logger)
	if err != nil {
		log.Fatalf("telegram: %v", err)
	}
	if strings.ToLower(cfg.Bot.Mode) != "polling" {
		logger.Warn().Str("mode", cfg.Bot.Mode).Msg("bot mode not implemented; falling back to polling")
	}
	go func() {
		if err := botAdapter.StartPolling(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Ops server ----
	checker := probe.New(probe.DefaultBaseURL, probe.DefaultTimeout)
	auth := web.NewAuthManager(cfg.Ops.JWTSecret, 30*time.Minute)
	srv := web.NewServer(cfg.Ops.Port, redisClient, checker, cfg.Bot.Token, genUC, cfg.Image.DefaultProvider, auth, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Error().Err(err).Msg("ops server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	botAdapter.StopPolling()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("ops server shutdown failed")
	}
	pool.Stop()
}
