package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"telegram-image-bot/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.ImageGenAdapter = (*HuggingFaceAdapter)(nil)

const hfDefaultBaseURL = "https://api-inference.huggingface.co"

// HuggingFaceAdapter implements adapter.ImageGenAdapter against the
// Hugging Face Inference API. The API returns raw image bytes on success
// and a JSON error body otherwise.
type HuggingFaceAdapter struct {
	token  string
	base   string
	model  string
	client *http.Client
}

func NewHuggingFaceAdapter(token, baseURL, model string, timeout time.Duration) (*HuggingFaceAdapter, error) {
	if token == "" {
		return nil, errors.New("huggingface token empty")
	}
	if baseURL == "" {
		baseURL = hfDefaultBaseURL
	}
	if model == "" {
		model = "black-forest-labs/FLUX.1-dev"
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &HuggingFaceAdapter{
		token:  token,
		base:   strings.TrimRight(baseURL, "/"),
		model:  model,
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (h *HuggingFaceAdapter) ListModels(ctx context.Context) ([]string, error) {
	return []string{h.model}, nil
}

func (h *HuggingFaceAdapter) GetModelInfo(model string) (adapter.ModelInfo, error) {
	if model == "" {
		model = h.model
	}
	return adapter.ModelInfo{
		Name:        model,
		Description: "Hugging Face hosted text-to-image model",
		Provider:    "huggingface",
		Supports:    []string{"text-to-image"},
	}, nil
}

// CountPromptTokens is a heuristic; the Inference API exposes no tokenizer
// endpoint, and ~4 bytes per token tracks common BPE vocabularies closely
// enough for budget checks.
func (h *HuggingFaceAdapter) CountPromptTokens(ctx context.Context, model, prompt string) (int, error) {
	n := len(prompt) / 4
	if n == 0 && prompt != "" {
		n = 1
	}
	return n, nil
}

func (h *HuggingFaceAdapter) Generate(ctx context.Context, model, prompt string) (adapter.Image, error) {
	if model == "" {
		model = h.model
	}

	reqBody := struct {
		Inputs string `json:"inputs"`
	}{Inputs: prompt}

	b, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.base+"/models/"+model, bytes.NewReader(b))
	if err != nil {
		return adapter.Image{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "image/png")
	req.Header.Set("Authorization", "Bearer "+h.token)

	resp, err := h.client.Do(req)
	if err != nil {
		return adapter.Image{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		// Error responses are JSON: {"error": "...", "estimated_time": ...}
		var payload struct {
			Error string `json:"error"`
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
			return adapter.Image{}, fmt.Errorf("huggingface http %d: %s", resp.StatusCode, payload.Error)
		}
		return adapter.Image{}, fmt.Errorf("huggingface http %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return adapter.Image{}, err
	}
	if len(data) == 0 {
		return adapter.Image{}, errors.New("huggingface returned empty image")
	}

	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = "image/png"
	}
	return adapter.Image{Data: data, MIMEType: mime, Model: model, Provider: "huggingface"}, nil
}
