package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"telegram-image-bot/internal/config"
	"telegram-image-bot/internal/domain/model"
	"telegram-image-bot/internal/domain/ports/adapter"
	"telegram-image-bot/internal/infra/logging"
)

// --- Mocks ---

type mockRedis struct {
	pingErr error
}

func (m *mockRedis) Ping(ctx context.Context) error { return m.pingErr }
func (m *mockRedis) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	return nil
}
func (m *mockRedis) Get(ctx context.Context, key string) (string, error) { return "", nil }
func (m *mockRedis) Incr(ctx context.Context, key string) (int64, error) { return 0, nil }
func (m *mockRedis) Expire(ctx context.Context, key string, exp time.Duration) error {
	return nil
}
func (m *mockRedis) Del(ctx context.Context, keys ...string) error { return nil }
func (m *mockRedis) Close() error                                  { return nil }

type mockGenUC struct{}

func (m *mockGenUC) NewJob(ctx context.Context, chatID, telegramID int64, prompt string) (*model.GenerationJob, error) {
	return nil, nil
}
func (m *mockGenUC) Run(ctx context.Context, job *model.GenerationJob) (adapter.Image, error) {
	return adapter.Image{}, nil
}
func (m *mockGenUC) ListModels(ctx context.Context) ([]string, error) {
	return []string{"flux"}, nil
}
func (m *mockGenUC) DefaultModel() string { return "flux" }

func testServer(redisErr error) *Server {
	log := logging.New(config.LogConfig{Level: "error", Format: "console"}, true)
	auth := NewAuthManager("test-secret", time.Minute)
	return NewServer(0, &mockRedis{pingErr: redisErr}, nil, "", &mockGenUC{}, "huggingface", auth, log)
}

func TestHealthz_OK(t *testing.T) {
	s := testServer(nil)
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("healthz code = %d, want 200", rec.Code)
	}
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || body.Checks["redis"] != "ok" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestHealthz_DegradedOnRedisFailure(t *testing.T) {
	s := testServer(errors.New("connection refused"))
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("healthz code = %d, want 503", rec.Code)
	}
}

func TestStatus_RequiresAuth(t *testing.T) {
	s := testServer(nil)

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: code = %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	s.routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("bad token: code = %d, want 403", rec.Code)
	}
}

func TestStatus_WithValidToken(t *testing.T) {
	s := testServer(nil)
	token, err := s.auth.Mint("ops-test")
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	s.routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["default_model"] != "flux" || body["provider"] != "huggingface" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestMint_RequiresSecret(t *testing.T) {
	a := NewAuthManager("", time.Minute)
	if _, err := a.Mint("x"); err == nil {
		t.Fatal("expected error without secret")
	}
}
