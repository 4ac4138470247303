package openai

import (
	"log/slog"
	"os"
	"strings"
	"time"

	sdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	OpenAIBaseURL = "https://api.openai.com/v1/"
)

// Config for the chat completions client.
type Config struct {
	Provider    string        // gemini | openai
	APIKey      string        // if empty, falls back to GEMINI_API_KEY / OPENAI_API_KEY
	BaseURL     string        // defaults per provider
	Model       string        // defaults per provider
	Temperature float32       // 0..2
	Timeout     time.Duration // per request
}

type Client struct {
	cfg    Config
	api    sdk.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cfg.Provider == "" {
		cfg.Provider = ProviderGemini
	}
	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.BaseURL == "" {
			cfg.BaseURL = OpenAIBaseURL
		}
		if cfg.Model == "" {
			cfg.Model = "gpt-4o-mini"
		}
	default:
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("GEMINI_API_KEY")
		}
		if cfg.BaseURL == "" {
			cfg.BaseURL = GeminiBaseURL
		}
		if cfg.Model == "" {
			cfg.Model = "gemini-2.5-flash"
		}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	// Retries are owned by llm.RateLimited.
	api := sdk.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithRequestTimeout(cfg.Timeout),
		option.WithMaxRetries(0),
	)
	return &Client{cfg: cfg, api: api, logger: logger}
}

// Model reports the model the client talks to.
func (c *Client) Model() string { return c.cfg.Model }
