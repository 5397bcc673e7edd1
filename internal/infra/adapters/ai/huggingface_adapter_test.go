package ai_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ai "telegram-image-bot/internal/infra/adapters/ai"
)

func TestHuggingFaceGenerate_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if !strings.HasSuffix(r.URL.Path, "/models/test/model") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer hf_x" {
			t.Errorf("auth header = %q", got)
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte{0x89, 0x50, 0x4e, 0x47})
	}))
	defer srv.Close()

	a, err := ai.NewHuggingFaceAdapter("hf_x", srv.URL, "test/model", 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	img, err := a.Generate(context.Background(), "", "a cat wearing sunglasses")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if img.MIMEType != "image/png" || len(img.Data) != 4 {
		t.Fatalf("unexpected image: mime=%q len=%d", img.MIMEType, len(img.Data))
	}
	if img.Provider != "huggingface" || img.Model != "test/model" {
		t.Fatalf("unexpected attribution: %+v", img)
	}
}

func TestHuggingFaceGenerate_ErrorBody(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"Model is currently loading","estimated_time":60}`))
	}))
	defer srv.Close()

	a, err := ai.NewHuggingFaceAdapter("hf_x", srv.URL, "test/model", 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	_, err = a.Generate(context.Background(), "", "prompt")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Model is currently loading") {
		t.Fatalf("error should surface the API message, got: %v", err)
	}
}

func TestHuggingFaceAdapter_EmptyToken(t *testing.T) {
	t.Parallel()
	if _, err := ai.NewHuggingFaceAdapter("", "", "", 0); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestHuggingFaceCountPromptTokens_Heuristic(t *testing.T) {
	t.Parallel()
	a, err := ai.NewHuggingFaceAdapter("hf_x", "", "", 0)
	if err != nil {
		t.Fatal(err)
	}
	n, err := a.CountPromptTokens(context.Background(), "", "abcdefgh")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("token estimate = %d, want 2", n)
	}
	if n, _ = a.CountPromptTokens(context.Background(), "", "ab"); n != 1 {
		t.Fatalf("short prompt estimate = %d, want 1", n)
	}
}
