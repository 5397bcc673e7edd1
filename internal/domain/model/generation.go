package model

import (
	"strings"
	"time"
)

type GenerationStatus string

const (
	GenerationPending    GenerationStatus = "pending"
	GenerationProcessing GenerationStatus = "processing"
	GenerationCompleted  GenerationStatus = "completed"
	GenerationFailed     GenerationStatus = "failed"
)

// MaxPromptChars mirrors the prompt cap enforced by the bot.
const MaxPromptChars = 500

// GenerationJob tracks a single prompt-to-image request through its lifecycle.
type GenerationJob struct {
	ID           string
	ChatID       int64
	TelegramID   int64
	Prompt       string
	Model        string
	Provider     string
	Status       GenerationStatus
	PromptTokens int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewGenerationJob(id string, chatID, telegramID int64, prompt, modelName string) *GenerationJob {
	now := time.Now()
	return &GenerationJob{
		ID:         id,
		ChatID:     chatID,
		TelegramID: telegramID,
		Prompt:     strings.TrimSpace(prompt),
		Model:      modelName,
		Status:     GenerationPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (j *GenerationJob) MarkProcessing() {
	j.Status = GenerationProcessing
	j.UpdatedAt = time.Now()
}

func (j *GenerationJob) MarkCompleted() {
	j.Status = GenerationCompleted
	j.LastError = ""
	j.UpdatedAt = time.Now()
}

// MarkFailed records the failure reason, truncated so it stays safe to echo
// back into a chat message.
func (j *GenerationJob) MarkFailed(err error) {
	j.Status = GenerationFailed
	if err != nil {
		j.LastError = TruncateError(err.Error(), 100)
	}
	j.UpdatedAt = time.Now()
}

func (j *GenerationJob) Terminal() bool {
	return j.Status == GenerationCompleted || j.Status == GenerationFailed
}

// TruncateError shortens an error string to at most max characters,
// appending an ellipsis when cut. Counts runes, not bytes, so a multibyte
// character at the limit is never split into invalid UTF-8.
func TruncateError(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
