package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"renohub/internal/ai"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Port     string `envconfig:"PORT" default:"8081"`
	Env      string `envconfig:"APP_ENV" default:"local"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	// CORSOrigins lists browser origins allowed to call the gateway. Empty
	// allows any origin.
	CORSOrigins []string `envconfig:"CORS_ORIGINS"`

	// AIProvider picks the chat backend: gemini, openai or fake. Images are
	// always served by Gemini except under fake.
	AIProvider       string  `envconfig:"AI_PROVIDER" default:"gemini"`
	GeminiAPIKey     string  `envconfig:"GEMINI_API_KEY"`
	LegacyAPIKey     string  `envconfig:"API_KEY"`
	GeminiBaseURL    string  `envconfig:"GEMINI_BASE_URL"`
	GeminiChatModel  string  `envconfig:"GEMINI_CHAT_MODEL" default:"gemini-3-flash-preview"`
	GeminiImageModel string  `envconfig:"GEMINI_IMAGE_MODEL" default:"gemini-3-pro-image-preview"`
	OpenAIAPIKey     string  `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL    string  `envconfig:"OPENAI_BASE_URL"`
	OpenAIChatModel  string  `envconfig:"OPENAI_CHAT_MODEL"`
	LLMRPS           float64 `envconfig:"LLM_RPS" default:"0"`
	LLMBurst         int     `envconfig:"LLM_BURST" default:"1"`

	ChatStreamTimeout time.Duration `envconfig:"CHAT_STREAM_TIMEOUT" default:"60s"`
	ImageTimeout      time.Duration `envconfig:"IMAGE_TIMEOUT" default:"120s"`

	Rendering RenderingConfig `envconfig:"RENDERING"`
}

type RenderingConfig struct {
	MemoryEntries int           `envconfig:"MEMORY_ENTRIES" default:"64"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"10m"`
	Endpoint      string        `envconfig:"S3_ENDPOINT"`
	Region        string        `envconfig:"S3_REGION" default:"us-east-1"`
	AccessKey     string        `envconfig:"S3_ACCESS_KEY"`
	SecretKey     string        `envconfig:"S3_SECRET_KEY"`
	Bucket        string        `envconfig:"S3_BUCKET" default:"renohub-renderings"`
	UseSSL        bool          `envconfig:"S3_USE_SSL" default:"true"`
}

// S3Enabled reports whether renderings go to an S3-compatible bucket
// instead of process memory.
func (r RenderingConfig) S3Enabled() bool {
	return strings.TrimSpace(r.Endpoint) != "" && strings.TrimSpace(r.Bucket) != ""
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg.Port = normalizePort(cfg.Port)
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	cfg.AIProvider = strings.ToLower(strings.TrimSpace(cfg.AIProvider))
	cfg.GeminiAPIKey = firstNonEmpty(strings.TrimSpace(cfg.GeminiAPIKey), strings.TrimSpace(cfg.LegacyAPIKey))
	return &cfg, nil
}

// Validate fails fast when the selected provider lacks a credential.
func (c *Config) Validate() error {
	switch c.AIProvider {
	case ai.ProviderFake:
	case ai.ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("%w: set GEMINI_API_KEY (or API_KEY)", ai.ErrMissingCredential)
		}
	case ai.ProviderOpenAI:
		if strings.TrimSpace(c.OpenAIAPIKey) == "" {
			return fmt.Errorf("%w: set OPENAI_API_KEY", ai.ErrMissingCredential)
		}
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("%w: set GEMINI_API_KEY for image generation", ai.ErrMissingCredential)
		}
	default:
		return fmt.Errorf("%w: AI_PROVIDER %q", ErrInvalidConfig, c.AIProvider)
	}
	if c.ChatStreamTimeout <= 0 || c.ImageTimeout <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	}
	if c.Rendering.S3Enabled() && (c.Rendering.AccessKey == "" || c.Rendering.SecretKey == "") {
		return fmt.Errorf("%w: RENDERING_S3_ACCESS_KEY and RENDERING_S3_SECRET_KEY are required with RENDERING_S3_ENDPOINT", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) IsLocal() bool {
	return c.Env == "local" || c.Env == "development"
}

func (c *Config) Provider() ai.ProviderConfig {
	return ai.ProviderConfig{
		Provider: c.AIProvider,
		Gemini: ai.GeminiConfig{
			APIKey:     c.GeminiAPIKey,
			BaseURL:    c.GeminiBaseURL,
			ChatModel:  c.GeminiChatModel,
			ImageModel: c.GeminiImageModel,
		},
		OpenAI: ai.OpenAIConfig{
			APIKey:  c.OpenAIAPIKey,
			BaseURL: c.OpenAIBaseURL,
			Model:   c.OpenAIChatModel,
		},
	}
}

func normalizePort(port string) string {
	port = strings.TrimSpace(port)
	if port == "" {
		return ":8081"
	}
	if strings.HasPrefix(port, ":") || strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
