package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/docsum/constants"
	"github.com/joseph-ayodele/docsum/internal/common"
)

const DefaultMaxInputChars = 30000

// Summarizer asks a Generator for a two-section summary of a document.
type Summarizer struct {
	gen           Generator
	maxInputChars int
	logger        *slog.Logger
}

func NewSummarizer(gen Generator, maxInputChars int, logger *slog.Logger) *Summarizer {
	if maxInputChars <= 0 {
		maxInputChars = DefaultMaxInputChars
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{gen: gen, maxInputChars: maxInputChars, logger: logger}
}

// Summarize returns the generator's raw reply. Errors are fatal for the
// request and are not retried here.
func (s *Summarizer) Summarize(ctx context.Context, text string, length constants.Length) (string, error) {
	if s.gen == nil {
		return "", fmt.Errorf("ai generate: no generator configured")
	}
	log := common.LoggerFor(ctx, s.logger)
	start := time.Now()

	input, truncated := truncateRunes(text, s.maxInputChars)
	if truncated {
		log.Warn("llm.summarize.truncated", "chars", len(text), "max_chars", s.maxInputChars)
	}

	log.Info("llm.summarize.start", "length", length, "input_chars", len(input))
	out, err := s.gen.Generate(ctx, systemPrompt, buildUserPrompt(input, length))
	if err != nil {
		log.Error("llm.summarize.error", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("ai generate: %w", err)
	}
	log.Info("llm.summarize.ok", "reply_chars", len(out), "elapsed_ms", time.Since(start).Milliseconds())
	return out, nil
}
