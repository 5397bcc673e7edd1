package ai

import (
	"context"
	"strings"
	"time"

	"telegram-image-bot/internal/domain/ports/adapter"
)

var _ adapter.ImageGenAdapter = (*NoopImageGen)(nil)

// NoopImageGen implements adapter.ImageGenAdapter for local/dev testing.
// It returns a fixed 1x1 PNG instead of calling a real provider.
type NoopImageGen struct{}

func NewNoopImageGen() *NoopImageGen {
	return &NoopImageGen{}
}

// onePixelPNG is a valid 1x1 transparent PNG.
var onePixelPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func (a *NoopImageGen) ListModels(ctx context.Context) ([]string, error) {
	return []string{"noop-image-model"}, nil
}

func (a *NoopImageGen) GetModelInfo(model string) (adapter.ModelInfo, error) {
	return adapter.ModelInfo{
		Name:        "noop-image-model",
		Description: "Noop image model for testing",
		Provider:    "noop",
		Supports:    []string{"text-to-image"},
	}, nil
}

func (a *NoopImageGen) CountPromptTokens(ctx context.Context, model, prompt string) (int, error) {
	return len(strings.Fields(prompt)), nil
}

// Generate simulates a small delay and respects ctx.
func (a *NoopImageGen) Generate(ctx context.Context, model, prompt string) (adapter.Image, error) {
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return adapter.Image{}, ctx.Err()
	}
	return adapter.Image{
		Data:     onePixelPNG,
		MIMEType: "image/png",
		Model:    "noop-image-model",
		Provider: "noop",
	}, nil
}
