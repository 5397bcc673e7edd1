package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return p
}

func TestLoadConfig_DefaultsAndValidation(t *testing.T) {
	p := writeTemp(t, `
bot:
  token: "123:abc"
redis:
  url: "localhost:6379"
image:
  hf_token: "hf_x"
`)
	cfg, err := LoadConfig(p, false)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Bot.Workers != 8 {
		t.Errorf("default workers = %d, want 8", cfg.Bot.Workers)
	}
	if cfg.Bot.Mode != "polling" {
		t.Errorf("default mode = %q, want polling", cfg.Bot.Mode)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("log defaults = %q/%q", cfg.Log.Level, cfg.Log.Format)
	}
	if cfg.Image.DefaultModel != "black-forest-labs/FLUX.1-dev" {
		t.Errorf("default model = %q", cfg.Image.DefaultModel)
	}
	if cfg.Image.DefaultProvider != "huggingface" {
		t.Errorf("default provider = %q", cfg.Image.DefaultProvider)
	}
	if cfg.Redis.TTL != time.Hour {
		t.Errorf("redis ttl = %v, want 1h", cfg.Redis.TTL)
	}
	if cfg.RateLimit.GenerationsPerMinute != 5 {
		t.Errorf("generations/min = %d, want 5", cfg.RateLimit.GenerationsPerMinute)
	}
}

func TestLoadConfig_MissingToken(t *testing.T) {
	p := writeTemp(t, `
redis:
  url: "localhost:6379"
image:
  hf_token: "hf_x"
`)
	if _, err := LoadConfig(p, false); err == nil {
		t.Fatal("expected error for missing bot token")
	}
}

func TestLoadConfig_NoProviderOutsideDev(t *testing.T) {
	p := writeTemp(t, `
bot:
  token: "123:abc"
redis:
  url: "localhost:6379"
`)
	if _, err := LoadConfig(p, false); err == nil {
		t.Fatal("expected error when no provider key is set")
	}
	// dev mode tolerates it (noop provider is wired instead)
	if _, err := LoadConfig(p, true); err != nil {
		t.Fatalf("dev mode should not require a provider: %v", err)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	p := writeTemp(t, `
bot:
  token: "from-file"
redis:
  url: "localhost:6379"
image:
  hf_token: "file-token"
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "from-env")
	t.Setenv("HF_TOKEN", "env-token")
	cfg, err := LoadConfig(p, false)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Bot.Token != "from-env" {
		t.Errorf("bot token = %q, want env override", cfg.Bot.Token)
	}
	if cfg.Image.HFToken != "env-token" {
		t.Errorf("hf token = %q, want env override", cfg.Image.HFToken)
	}
}

func TestLoadConfig_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("HF_TOKEN", "hf_x")
	t.Setenv("REDIS_URL", "redis:6379")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), false)
	if err != nil {
		t.Fatalf("LoadConfig without file: %v", err)
	}
	if cfg.Redis.URL != "redis:6379" {
		t.Errorf("redis url = %q", cfg.Redis.URL)
	}
}
