package ai

import (
	"context"
	"strings"

	"telegram-image-bot/internal/domain"
	"telegram-image-bot/internal/domain/ports/adapter"
)

var _ adapter.ImageGenAdapter = (*MultiImageAdapter)(nil)

// MultiImageAdapter routes calls to a provider adapter by model name.
type MultiImageAdapter struct {
	defaultProvider string // e.g. "huggingface", "openai" or "gemini"
	byProvider      map[string]adapter.ImageGenAdapter
	modelToProvider map[string]string // model -> provider
}

// NewMultiImageAdapter does not inject any default model; it only knows a
// default provider. Each provider adapter carries its own default model.
func NewMultiImageAdapter(
	defaultProvider string,
	byProvider map[string]adapter.ImageGenAdapter,
	modelToProvider map[string]string,
) *MultiImageAdapter {
	return &MultiImageAdapter{
		defaultProvider: strings.ToLower(defaultProvider),
		byProvider:      byProvider,
		modelToProvider: modelToProvider,
	}
}

func (m *MultiImageAdapter) resolveProvider(model string) string {
	if p := m.modelToProvider[model]; p != "" {
		return strings.ToLower(p)
	}
	l := strings.ToLower(model)
	switch {
	case strings.HasPrefix(l, "gemini"):
		return "gemini"
	case strings.HasPrefix(l, "gpt") || strings.HasPrefix(l, "dall-e"):
		return "openai"
	case strings.Contains(l, "flux") || strings.Contains(l, "stable-diffusion"):
		return "huggingface"
	default:
		return m.defaultProvider
	}
}

func (m *MultiImageAdapter) pick(model string) adapter.ImageGenAdapter {
	prov := m.resolveProvider(model)
	if a := m.byProvider[prov]; a != nil {
		return a
	}
	// last resort: first available
	for _, a := range m.byProvider {
		if a != nil {
			return a
		}
	}
	return nil
}

func (m *MultiImageAdapter) ListModels(ctx context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(m.modelToProvider)+4)

	// 1) models explicitly mapped in config
	for model := range m.modelToProvider {
		if _, ok := seen[model]; !ok {
			seen[model] = struct{}{}
			out = append(out, model)
		}
	}

	// 2) union of each provider's ListModels (often returns their default)
	for _, a := range m.byProvider {
		list, _ := a.ListModels(ctx)
		for _, name := range list {
			if name == "" {
				continue
			}
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				out = append(out, name)
			}
		}
	}
	return out, nil
}

func (m *MultiImageAdapter) GetModelInfo(model string) (adapter.ModelInfo, error) {
	a := m.pick(model)
	if a == nil {
		return adapter.ModelInfo{Name: model}, nil
	}
	return a.GetModelInfo(model)
}

func (m *MultiImageAdapter) CountPromptTokens(ctx context.Context, model, prompt string) (int, error) {
	a := m.pick(model)
	if a == nil {
		return 0, nil
	}
	return a.CountPromptTokens(ctx, model, prompt)
}

func (m *MultiImageAdapter) Generate(ctx context.Context, model, prompt string) (adapter.Image, error) {
	a := m.pick(model)
	if a == nil {
		return adapter.Image{}, domain.ErrNoProvider
	}
	return a.Generate(ctx, model, prompt)
}
