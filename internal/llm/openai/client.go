package openai

import (
	"context"
	"errors"
	"strings"
	"time"

	sdk "github.com/openai/openai-go/v3"

	"github.com/joseph-ayodele/docsum/internal/common"
)

// ErrNoAPIKey is returned before any network call when no key is configured.
var ErrNoAPIKey = errors.New("llm api key is not configured")

// Generate implements llm.Generator with a single chat completion.
func (c *Client) Generate(ctx context.Context, system, user string) (string, error) {
	log := common.LoggerFor(ctx, c.logger)
	if c.cfg.APIKey == "" {
		log.Error("llm.generate.no_api_key", "provider", c.cfg.Provider)
		return "", ErrNoAPIKey
	}
	start := time.Now()

	log.Info("llm.generate.start",
		"provider", c.cfg.Provider,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"prompt_chars", len(system)+len(user),
	)

	resp, err := c.api.Chat.Completions.New(ctx, sdk.ChatCompletionNewParams{
		Model: c.cfg.Model,
		Messages: []sdk.ChatCompletionMessageParamUnion{
			sdk.SystemMessage(system),
			sdk.UserMessage(user),
		},
		Temperature: sdk.Float(float64(c.cfg.Temperature)),
	})
	if err != nil {
		log.Error("llm.generate.http_error",
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}
	if len(resp.Choices) == 0 {
		log.Error("llm.generate.no_choices", "elapsed_ms", time.Since(start).Milliseconds())
		return "", errors.New("no choices in chat completion response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	log.Info("llm.generate.ok",
		"model", resp.Model,
		"reply_chars", len(content),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}
