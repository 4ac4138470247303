package app

import (
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/docsum/internal/common"
	"github.com/joseph-ayodele/docsum/internal/extract"
	"github.com/joseph-ayodele/docsum/internal/llm"
	"github.com/joseph-ayodele/docsum/internal/llm/openai"
	"github.com/joseph-ayodele/docsum/internal/ocr"
	"github.com/joseph-ayodele/docsum/internal/pipeline"
	"github.com/joseph-ayodele/docsum/internal/summarize"
)

// Version is stamped at build time with -ldflags "-X ...app.Version=...".
var Version = "dev"

// NewPipeline wires OCR, the text-generation client and both summarizers
// from configuration. Missing API keys degrade the matching feature only.
func NewPipeline(cfg *common.Config, logger *slog.Logger) (*pipeline.Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ocrClient, err := ocr.NewSpaceClient(ocr.Config{
		APIKey:   cfg.OCR.APIKey,
		Endpoint: cfg.OCR.Endpoint,
		Language: cfg.OCR.Language,
		Engine:   cfg.OCR.Engine,
		MaxWidth: cfg.OCR.MaxWidth,
		Timeout:  cfg.OCR.Timeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("ocr client: %w", err)
	}
	if cfg.OCR.APIKey == "" {
		logger.Warn("OCR_SPACE_API_KEY not configured, scanned documents will yield no text")
	}

	gen := openai.NewClient(openai.Config{
		Provider:    cfg.LLM.Provider,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	if cfg.LLM.APIKey == "" {
		logger.Warn("LLM API key not configured, mode=ai requests will fail", "provider", cfg.LLM.Provider)
	} else {
		logger.Info("llm client initialized", "provider", cfg.LLM.Provider, "model", gen.Model())
	}

	limited := llm.NewRateLimited(gen, cfg.LLM.RequestsPerMinute, cfg.LLM.MaxRetries, logger)
	ai := llm.NewSummarizer(limited, cfg.LLM.MaxInputChars, logger)

	return pipeline.New(
		extract.NewExtractor(ocrClient, logger),
		ai,
		summarize.NewExtractive(),
		logger,
	), nil
}
