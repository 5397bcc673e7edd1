package telegram

import (
	"errors"
	"strings"
	"testing"

	"telegram-image-bot/internal/domain"
)

func TestRejectionText_MapsDomainErrors(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"empty", domain.ErrEmptyPrompt, "provide a description"},
		{"too long", domain.ErrPromptTooLong, "under 500 characters"},
		{"token budget", domain.ErrPromptTokenBudget, "too complex"},
		{"rate limited", domain.ErrRateLimited, "too fast"},
		{"unknown", errors.New("boom"), "couldn't accept"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := rejectionText(tc.err)
			if !strings.Contains(got, tc.want) {
				t.Errorf("rejectionText(%v) = %q, want substring %q", tc.err, got, tc.want)
			}
		})
	}
}

func TestClassifyMessage(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		text string
		want string
	}{
		{"plain prompt", "a cat in space", "message"},
		{"command", "/start", "/start"},
		{"command uppercase", "/START", "/start"},
		{"command with args", "/help me please", "/help"},
		{"group chat suffix", "/start@ImageGenBot", "/start"},
		{"unknown command keeps suffixless form", "/frobnicate@ImageGenBot", "/frobnicate"},
		{"empty text ignored", "", ""},
		{"whitespace ignored", "   \n ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyMessage(tc.text); got != tc.want {
				t.Errorf("classifyMessage(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}
