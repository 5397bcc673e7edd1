// Package probe implements the container liveness check: a single getMe
// round-trip against the Telegram Bot API. It is used by cmd/healthcheck
// (the Docker HEALTHCHECK command) and by the ops server's /healthz.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.telegram.org"

	// DefaultTimeout bounds one probe invocation; the orchestrator's
	// 10s command timeout sits above it.
	DefaultTimeout = 5 * time.Second
)

var ErrTokenMissing = errors.New("TELEGRAM_BOT_TOKEN is not set")

type Checker struct {
	base   string
	client *http.Client
}

func New(baseURL string, timeout time.Duration) *Checker {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Checker{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

// Check performs one getMe call. It never retries; retry policy belongs to
// the orchestrator across 30s interval boundaries. Returns the bot username
// on success.
func (c *Checker) Check(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrTokenMissing
	}

	url := fmt.Sprintf("%s/bot%s/getMe", c.base, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
		Result      struct {
			Username string `json:"username"`
		} `json:"result"`
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", err
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("getMe http %d: malformed response", resp.StatusCode)
	}
	if !payload.OK {
		if payload.Description != "" {
			return "", fmt.Errorf("getMe http %d: %s", resp.StatusCode, payload.Description)
		}
		return "", fmt.Errorf("getMe http %d", resp.StatusCode)
	}
	return payload.Result.Username, nil
}
