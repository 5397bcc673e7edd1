package application_test

import (
	"context"
	"strings"
	"testing"

	"telegram-image-bot/internal/application"
	"telegram-image-bot/internal/domain/model"
	"telegram-image-bot/internal/domain/ports/adapter"
)

// mock generation usecase implementing the methods used by BotFacade
type mockGenUC struct {
	defaultModel string
	models       []string
}

func (m *mockGenUC) NewJob(ctx context.Context, chatID, telegramID int64, prompt string) (*model.GenerationJob, error) {
	return model.NewGenerationJob("job", chatID, telegramID, prompt, m.defaultModel), nil
}

func (m *mockGenUC) Run(ctx context.Context, job *model.GenerationJob) (adapter.Image, error) {
	return adapter.Image{}, nil
}

func (m *mockGenUC) ListModels(ctx context.Context) ([]string, error) { return m.models, nil }

func (m *mockGenUC) DefaultModel() string { return m.defaultModel }

func TestHandleStart_ListsCommands(t *testing.T) {
	f := application.NewBotFacade(&mockGenUC{defaultModel: "flux"}, "huggingface")
	msg, err := f.HandleStart(context.Background(), "alice")
	if err != nil {
		t.Fatalf("HandleStart: %v", err)
	}
	for _, want := range []string{"/start", "/help", "/status"} {
		if !strings.Contains(msg, want) {
			t.Errorf("welcome text missing %q", want)
		}
	}
}

func TestHandleStatus_IncludesIDsAndModel(t *testing.T) {
	f := application.NewBotFacade(&mockGenUC{defaultModel: "black-forest-labs/FLUX.1-dev"}, "huggingface")
	msg, err := f.HandleStatus(context.Background(), 12345, 67890)
	if err != nil {
		t.Fatalf("HandleStatus: %v", err)
	}
	for _, want := range []string{"12345", "67890", "black-forest-labs/FLUX.1-dev", "huggingface"} {
		if !strings.Contains(msg, want) {
			t.Errorf("status text missing %q in:\n%s", want, msg)
		}
	}
}

func TestHandleStatus_NilUseCase(t *testing.T) {
	f := application.NewBotFacade(nil, "huggingface")
	if _, err := f.HandleStatus(context.Background(), 1, 2); err == nil {
		t.Fatal("expected error with nil usecase")
	}
}

func TestHandleHelp_MentionsModel(t *testing.T) {
	f := application.NewBotFacade(&mockGenUC{defaultModel: "flux-dev"}, "huggingface")
	msg, err := f.HandleHelp(context.Background())
	if err != nil {
		t.Fatalf("HandleHelp: %v", err)
	}
	if !strings.Contains(msg, "flux-dev") {
		t.Errorf("help text missing model name:\n%s", msg)
	}
}
