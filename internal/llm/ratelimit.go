package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"golang.org/x/time/rate"
)

const (
	baseRetryDelay = 1 * time.Second
	maxRetryDelay  = 32 * time.Second
)

// RateLimited wraps a Generator with a shared requests-per-minute limiter and
// retries calls that failed with a rate-limit error.
type RateLimited struct {
	next       Generator
	limiter    *rate.Limiter
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewRateLimited allows rpm requests per minute (unlimited when rpm <= 0).
func NewRateLimited(next Generator, rpm, maxRetries int, logger *slog.Logger) *RateLimited {
	limit := rate.Inf
	burst := 1
	if rpm > 0 {
		limit = rate.Limit(float64(rpm) / 60)
		burst = max(1, rpm/10)
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RateLimited{
		next:       next,
		limiter:    rate.NewLimiter(limit, burst),
		maxRetries: maxRetries,
		baseDelay:  baseRetryDelay,
		logger:     logger,
	}
}

func (r *RateLimited) Generate(ctx context.Context, system, user string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(float64(r.baseDelay) * math.Pow(2, float64(attempt-1)))
			if delay > maxRetryDelay {
				delay = maxRetryDelay
			}
			r.logger.Info("llm.ratelimit.retry", "attempt", attempt, "max_retries", r.maxRetries, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		if err := r.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter wait failed: %w", err)
		}

		out, err := r.next.Generate(ctx, system, user)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !isRateLimitError(err) {
			return "", err
		}
		r.logger.Warn("llm.ratelimit.throttled", "attempt", attempt+1, "error", err)
	}
	return "", fmt.Errorf("max retries (%d) exceeded, last error: %w", r.maxRetries, lastErr)
}

// isRateLimitError recognises 429s from the SDK and from plain error text.
func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"429", "rate limit", "rate_limit_exceeded", "too many requests", "resource_exhausted"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
