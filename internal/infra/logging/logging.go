package logging

import (
	"context"
	"os"
	"strings"
	"time"

	"telegram-image-bot/internal/config"

	"github.com/rs/zerolog"
)

// New creates a zerolog logger configured from config.
// Supports "trace" | "debug" | "info" | "warn" | "error" levels
// and "json" | "console" formats. Sampling can be enabled to reduce noise in prod.
func New(cfg config.LogConfig, dev bool) *zerolog.Logger {
	level, _ := zerolog.ParseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	var base zerolog.Logger
	if strings.ToLower(cfg.Format) == "console" || dev {
		out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		base = zerolog.New(out).With().Timestamp().Logger()
	} else {
		base = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	if cfg.Sampling && !dev {
		// Keep first 100, then 1 every 100 thereafter.
		sampled := base.Sample(&zerolog.BasicSampler{N: 100})
		return &sampled
	}
	return &base
}

type ctxKey string

const (
	ctxTraceID ctxKey = "trace_id"
	ctxTgID    ctxKey = "tg_id"
	ctxChatID  ctxKey = "chat_id"
	ctxJobID   ctxKey = "job_id"
)

// With attaches common context fields such as trace_id, tg_id, chat_id, job_id.
func With(ctx context.Context, base *zerolog.Logger) *zerolog.Logger {
	l := base.With()
	if v := ctx.Value(ctxTraceID); v != nil {
		l = l.Str("trace_id", v.(string))
	}
	if v := ctx.Value(ctxTgID); v != nil {
		l = l.Int64("tg_id", v.(int64))
	}
	if v := ctx.Value(ctxChatID); v != nil {
		l = l.Int64("chat_id", v.(int64))
	}
	if v := ctx.Value(ctxJobID); v != nil {
		l = l.Str("job_id", v.(string))
	}
	logger := l.Logger()
	return &logger
}

// TraceDuration logs start and end with elapsed duration at TRACE level.
// Usage: defer logging.TraceDuration(logger, "GenerationUC.Generate")()
func TraceDuration(logger *zerolog.Logger, name string) func() {
	start := time.Now()
	logger.Trace().Str("method", name).Msg("start")
	return func() {
		logger.Trace().Str("method", name).Dur("duration", time.Since(start)).Msg("finish")
	}
}

// Redact hides prompt text and tokens when not in dev; keep a short preview.
// Slices runes so multibyte prompts stay valid UTF-8.
func Redact(s string, dev bool) string {
	if dev {
		return s
	}
	runes := []rune(s)
	if len(runes) <= 8 {
		return "***"
	}
	return string(runes[:4]) + "..." + string(runes[len(runes)-2:])
}

// Helpers to put IDs into context.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxTraceID, id)
}
func WithTgID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, ctxTgID, id)
}
func WithChatID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, ctxChatID, id)
}
func WithJobID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxJobID, id)
}
