package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	OCR    OCRConfig    `yaml:"ocr"`
	LLM    LLMConfig    `yaml:"llm"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr    string `yaml:"http_addr"`
	GRPCAddr    string `yaml:"grpc_addr"`
	StaticDir   string `yaml:"static_dir"`
	UploadDir   string `yaml:"upload_dir"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	APIKey   string        `yaml:"api_key"`
	Endpoint string        `yaml:"endpoint"`
	Language string        `yaml:"language"`
	Engine   int           `yaml:"engine"`
	MaxWidth int           `yaml:"max_width"`
	Timeout  time.Duration `yaml:"timeout"`
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	Provider          string        `yaml:"provider"` // gemini | openai
	APIKey            string        `yaml:"api_key"`
	BaseURL           string        `yaml:"base_url"`
	Model             string        `yaml:"model"`
	Temperature       float32       `yaml:"temperature"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxInputChars     int           `yaml:"max_input_chars"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	MaxRetries        int           `yaml:"max_retries"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // json | text
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:    ":8000",
			GRPCAddr:    ":8081",
			UploadDir:   filepath.Join(os.TempDir(), "docsum_uploads"),
			MaxUploadMB: 25,
		},
		OCR: OCRConfig{
			Endpoint: "https://api.ocr.space/parse/image",
			Language: "eng",
			Engine:   2,
			MaxWidth: 1200,
			Timeout:  60 * time.Second,
		},
		LLM: LLMConfig{
			Provider:          "gemini",
			Temperature:       0.3,
			Timeout:           60 * time.Second,
			MaxInputChars:     30000,
			RequestsPerMinute: 30,
			MaxRetries:        2,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig loads configuration from the YAML file named by DOCSUM_CONFIG (if any),
// then applies environment variables on top.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()
	if path := os.Getenv("DOCSUM_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	// PORT is what most hosts inject; HTTP_ADDR wins when both are set.
	if port := os.Getenv("PORT"); port != "" {
		c.Server.HTTPAddr = ":" + strings.TrimPrefix(port, ":")
	}
	c.Server.HTTPAddr = getEnv("HTTP_ADDR", c.Server.HTTPAddr)
	c.Server.GRPCAddr = getEnv("GRPC_ADDR", c.Server.GRPCAddr)
	c.Server.StaticDir = getEnv("STATIC_DIR", c.Server.StaticDir)
	c.Server.UploadDir = getEnv("UPLOAD_DIR", c.Server.UploadDir)
	c.Server.MaxUploadMB = getEnvAsInt("MAX_UPLOAD_MB", c.Server.MaxUploadMB)

	c.OCR.APIKey = getEnv("OCR_SPACE_API_KEY", c.OCR.APIKey)
	c.OCR.Endpoint = getEnv("OCR_SPACE_URL", c.OCR.Endpoint)
	c.OCR.Language = getEnv("OCR_LANGUAGE", c.OCR.Language)
	c.OCR.Engine = getEnvAsInt("OCR_ENGINE", c.OCR.Engine)
	c.OCR.MaxWidth = getEnvAsInt("OCR_MAX_WIDTH", c.OCR.MaxWidth)
	c.OCR.Timeout = getEnvAsDuration("OCR_TIMEOUT", c.OCR.Timeout)

	c.LLM.Provider = strings.ToLower(getEnv("LLM_PROVIDER", c.LLM.Provider))
	c.LLM.APIKey = getEnv("LLM_API_KEY", c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		switch c.LLM.Provider {
		case "gemini":
			c.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		case "openai":
			c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	c.LLM.BaseURL = getEnv("LLM_BASE_URL", c.LLM.BaseURL)
	c.LLM.Model = getEnv("LLM_MODEL", c.LLM.Model)
	c.LLM.Temperature = getEnvAsFloat32("LLM_TEMPERATURE", c.LLM.Temperature)
	c.LLM.Timeout = getEnvAsDuration("LLM_TIMEOUT", c.LLM.Timeout)
	c.LLM.MaxInputChars = getEnvAsInt("LLM_MAX_INPUT_CHARS", c.LLM.MaxInputChars)
	c.LLM.RequestsPerMinute = getEnvAsInt("LLM_REQUESTS_PER_MINUTE", c.LLM.RequestsPerMinute)
	c.LLM.MaxRetries = getEnvAsInt("LLM_MAX_RETRIES", c.LLM.MaxRetries)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration. API keys are not required here:
// a missing OCR key only degrades OCR, a missing LLM key only fails mode=ai.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Server.MaxUploadMB <= 0 {
		return NewAppError("CONFIG_ERROR", "MAX_UPLOAD_MB must be > 0", ErrInvalidInput)
	}
	if c.OCR.MaxWidth <= 0 {
		return NewAppError("CONFIG_ERROR", "OCR_MAX_WIDTH must be > 0", ErrInvalidInput)
	}
	switch c.LLM.Provider {
	case "gemini", "openai":
	default:
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("unsupported LLM_PROVIDER %q (use gemini or openai)", c.LLM.Provider), ErrInvalidInput)
	}
	if c.LLM.MaxInputChars <= 0 {
		return NewAppError("CONFIG_ERROR", "LLM_MAX_INPUT_CHARS must be > 0", ErrInvalidInput)
	}
	return nil
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 { return int64(c.Server.MaxUploadMB) * 1024 * 1024 }
