package adapter

import "context"

// Image is a generated picture ready to be sent to a chat.
type Image struct {
	Data     []byte
	MIMEType string // e.g. "image/png"
	Model    string // model that produced it
	Provider string // provider that served the call
}

// ModelInfo describes an image model.
type ModelInfo struct {
	Name        string
	Description string
	Provider    string
	Supports    []string
}

// ImageGenAdapter is the port for text-to-image providers.
type ImageGenAdapter interface {
	ListModels(ctx context.Context) ([]string, error)
	GetModelInfo(model string) (ModelInfo, error)

	// CountPromptTokens returns a best-effort token count for the prompt
	// (provider-specific counting when available).
	CountPromptTokens(ctx context.Context, model, prompt string) (int, error)

	// Generate turns a text prompt into an image.
	Generate(ctx context.Context, model, prompt string) (Image, error)
}
