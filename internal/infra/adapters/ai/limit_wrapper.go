package ai

import (
	"context"

	"telegram-image-bot/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.ImageGenAdapter = (*limitedImageGen)(nil)

type limitedImageGen struct {
	inner adapter.ImageGenAdapter
	sem   chan struct{}
}

// NewLimitedImageGen bounds concurrent Generate calls with a semaphore.
// Cheap metadata calls pass through unlimited.
func NewLimitedImageGen(inner adapter.ImageGenAdapter, maxConcurrent int) adapter.ImageGenAdapter {
	if maxConcurrent <= 0 {
		return inner
	}
	return &limitedImageGen{
		inner: inner,
		sem:   make(chan struct{}, maxConcurrent),
	}
}

func (l *limitedImageGen) ListModels(ctx context.Context) ([]string, error) {
	return l.inner.ListModels(ctx)
}

func (l *limitedImageGen) GetModelInfo(model string) (adapter.ModelInfo, error) {
	return l.inner.GetModelInfo(model)
}

func (l *limitedImageGen) CountPromptTokens(ctx context.Context, model, prompt string) (int, error) {
	return l.inner.CountPromptTokens(ctx, model, prompt)
}

func (l *limitedImageGen) Generate(ctx context.Context, model, prompt string) (adapter.Image, error) {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return adapter.Image{}, ctx.Err()
	}
	defer func() { <-l.sem }()
	return l.inner.Generate(ctx, model, prompt)
}
