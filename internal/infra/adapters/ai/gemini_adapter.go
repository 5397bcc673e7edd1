package ai

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"telegram-image-bot/internal/domain/ports/adapter"
)

var _ adapter.ImageGenAdapter = (*GeminiAdapter)(nil)

type GeminiAdapter struct {
	client       *genai.Client
	defaultModel string
}

// NewGeminiAdapter creates a Gemini adapter using the official SDK.
func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, defaultModel string) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	if defaultModel == "" {
		defaultModel = "gemini-2.0-flash-preview-image-generation"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdapter{client: c, defaultModel: defaultModel}, nil
}

func (g *GeminiAdapter) ListModels(ctx context.Context) ([]string, error) {
	models := g.client.Models.All(ctx)
	var out []string
	for m := range models {
		if m.Name != "" && strings.Contains(strings.ToLower(m.Name), "image") {
			out = append(out, m.Name)
		}
	}
	if len(out) == 0 && g.defaultModel != "" {
		out = []string{g.defaultModel}
	}
	return out, nil
}

func (g *GeminiAdapter) GetModelInfo(model string) (adapter.ModelInfo, error) {
	ctx := context.Background()
	m, err := g.client.Models.Get(ctx, modelOrDefault(model, g.defaultModel), nil)
	if err != nil {
		return adapter.ModelInfo{Name: model, Provider: "gemini"}, nil
	}
	return adapter.ModelInfo{
		Name:        m.Name,
		Description: m.Description,
		Provider:    "gemini",
		Supports:    m.SupportedActions,
	}, nil
}

func (g *GeminiAdapter) CountPromptTokens(ctx context.Context, model, prompt string) (int, error) {
	resp, err := g.client.Models.CountTokens(ctx, modelOrDefault(model, g.defaultModel), genai.Text(prompt), nil)
	if err != nil {
		return 0, err
	}
	return int(resp.TotalTokens), nil
}

func (g *GeminiAdapter) Generate(ctx context.Context, model, prompt string) (adapter.Image, error) {
	if strings.TrimSpace(prompt) == "" {
		return adapter.Image{}, errors.New("gemini: empty prompt")
	}
	name := modelOrDefault(model, g.defaultModel)

	resp, err := g.client.Models.GenerateContent(
		ctx,
		name,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		},
	)
	if err != nil {
		return adapter.Image{}, err
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return adapter.Image{}, errors.New("gemini: empty response")
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			mime := part.InlineData.MIMEType
			if mime == "" {
				mime = "image/png"
			}
			return adapter.Image{Data: part.InlineData.Data, MIMEType: mime, Model: name, Provider: "gemini"}, nil
		}
	}
	return adapter.Image{}, errors.New("gemini: response contained no image part")
}

func modelOrDefault(model, def string) string {
	if strings.TrimSpace(model) != "" {
		return model
	}
	return def
}
