package ai

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/pkoukk/tiktoken-go"

	"telegram-image-bot/internal/domain/ports/adapter"
)

var _ adapter.ImageGenAdapter = (*OpenAIAdapter)(nil)

// OpenAIAdapter implements adapter.ImageGenAdapter using the Images API.
type OpenAIAdapter struct {
	client openai.Client
	model  string
	enc    *tiktoken.Tiktoken
}

func NewOpenAIAdapter(apiKey, model string) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if model == "" {
		model = string(openai.ImageModelDallE3)
	}
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, err
	}
	return &OpenAIAdapter{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		enc:    enc,
	}, nil
}

func (o *OpenAIAdapter) ListModels(ctx context.Context) ([]string, error) {
	return []string{o.model}, nil
}

func (o *OpenAIAdapter) GetModelInfo(model string) (adapter.ModelInfo, error) {
	if model == "" {
		model = o.model
	}
	return adapter.ModelInfo{
		Name:        model,
		Description: "OpenAI Images API model",
		Provider:    "openai",
		Supports:    []string{"text-to-image"},
	}, nil
}

func (o *OpenAIAdapter) CountPromptTokens(ctx context.Context, model, prompt string) (int, error) {
	return len(o.enc.Encode(prompt, nil, nil)), nil
}

func (o *OpenAIAdapter) Generate(ctx context.Context, model, prompt string) (adapter.Image, error) {
	if model == "" {
		model = o.model
	}

	res, err := o.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(model),
		N:              openai.Int(1),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
		Size:           openai.ImageGenerateParamsSize1024x1024,
	})
	if err != nil {
		return adapter.Image{}, err
	}
	if len(res.Data) == 0 || res.Data[0].B64JSON == "" {
		return adapter.Image{}, errors.New("openai returned no image data")
	}

	data, err := base64.StdEncoding.DecodeString(res.Data[0].B64JSON)
	if err != nil {
		return adapter.Image{}, err
	}
	return adapter.Image{Data: data, MIMEType: "image/png", Model: model, Provider: "openai"}, nil
}
