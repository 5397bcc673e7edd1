package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token    string `yaml:"token"`
	Mode     string `yaml:"mode"` // polling | webhook (future)
	Username string `yaml:"username"`
	Workers  int    `yaml:"workers"` // polling workers
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type OpsConfig struct {
	Port      int    `yaml:"port"`
	JWTSecret string `yaml:"jwt_secret"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type ImageGenConfig struct {
	HFToken         string            `yaml:"hf_token"`
	HFBaseURL       string            `yaml:"hf_base_url"`
	OpenAIKey       string            `yaml:"openai_key"`
	GeminiKey       string            `yaml:"gemini_key"`
	GeminiURL       string            `yaml:"gemini_url"`
	DefaultModel    string            `yaml:"default_model"`
	DefaultProvider string            `yaml:"default_provider"`
	ModelProviders  map[string]string `yaml:"model_providers"` // model -> provider
	ConcurrentLimit int               `yaml:"concurrent_limit"`
	PromptTokenMax  int               `yaml:"prompt_token_max"`
	RequestTimeout  time.Duration     `yaml:"request_timeout"`
}

type RateLimitConfig struct {
	CommandsPerMinute    int `yaml:"commands_per_minute"`
	GenerationsPerMinute int `yaml:"generations_per_minute"`
}

type Config struct {
	Bot       BotConfig       `yaml:"bot"`
	Log       LogConfig       `yaml:"log"`
	Ops       OpsConfig       `yaml:"ops"`
	Redis     RedisConfig     `yaml:"redis"`
	Image     ImageGenConfig  `yaml:"image"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path and applies defaults, env overrides
// and minimal validation. Secrets always win from the environment so the
// container env contract (TELEGRAM_BOT_TOKEN, HF_TOKEN, ...) works without a
// config file edit.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	if b, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnv(&cfg)

	// defaults
	if cfg.Bot.Mode == "" {
		cfg.Bot.Mode = "polling"
	}
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Ops.Port == 0 {
		cfg.Ops.Port = 8080
	}
	if cfg.Image.ConcurrentLimit <= 0 {
		cfg.Image.ConcurrentLimit = 4
	}
	if cfg.Image.PromptTokenMax <= 0 {
		cfg.Image.PromptTokenMax = 256
	}
	if cfg.Image.RequestTimeout <= 0 {
		cfg.Image.RequestTimeout = 120 * time.Second
	}
	if cfg.Image.DefaultModel == "" {
		cfg.Image.DefaultModel = "black-forest-labs/FLUX.1-dev"
	}
	if cfg.Image.DefaultProvider == "" {
		cfg.Image.DefaultProvider = "huggingface"
	}
	if cfg.RateLimit.CommandsPerMinute <= 0 {
		cfg.RateLimit.CommandsPerMinute = 20
	}
	if cfg.RateLimit.GenerationsPerMinute <= 0 {
		cfg.RateLimit.GenerationsPerMinute = 5
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required (or set TELEGRAM_BOT_TOKEN)")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if !dev && cfg.Image.HFToken == "" && cfg.Image.OpenAIKey == "" && cfg.Image.GeminiKey == "" {
		return nil, errors.New("no image provider configured: set image.hf_token, image.openai_key or image.gemini_key")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Bot.Token = v
	}
	if v := os.Getenv("HF_TOKEN"); v != "" {
		cfg.Image.HFToken = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Image.OpenAIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Image.GeminiKey = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("OPS_JWT_SECRET"); v != "" {
		cfg.Ops.JWTSecret = v
	}
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
