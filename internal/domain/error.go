package domain

import "errors"

var (
	// Common domain errors
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrEmptyPrompt        = errors.New("prompt is empty")
	ErrPromptTooLong      = errors.New("prompt exceeds the allowed length")
	ErrPromptTokenBudget  = errors.New("prompt exceeds the token budget")
	ErrGenerationInFlight = errors.New("a generation is already in progress for this chat")
	ErrRateLimited        = errors.New("rate limit exceeded")
	ErrQueueFull          = errors.New("generation queue is full")
	ErrNoProvider         = errors.New("no image provider configured")
)
