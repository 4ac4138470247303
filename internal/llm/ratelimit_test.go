package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetry(r *RateLimited) *RateLimited {
	r.baseDelay = time.Millisecond
	return r
}

func TestRateLimited_PassesThrough(t *testing.T) {
	calls := 0
	r := fastRetry(NewRateLimited(GeneratorFunc(func(context.Context, string, string) (string, error) {
		calls++
		return "ok", nil
	}), 0, 2, quietLogger()))

	out, err := r.Generate(context.Background(), "s", "u")
	if err != nil || out != "ok" || calls != 1 {
		t.Fatalf("out=%q err=%v calls=%d", out, err, calls)
	}
}

func TestRateLimited_RetriesOnlyRateLimits(t *testing.T) {
	calls := 0
	r := fastRetry(NewRateLimited(GeneratorFunc(func(context.Context, string, string) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("429 Too Many Requests")
		}
		return "after retry", nil
	}), 0, 3, quietLogger()))

	out, err := r.Generate(context.Background(), "s", "u")
	if err != nil || out != "after retry" {
		t.Fatalf("out=%q err=%v", out, err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestRateLimited_OtherErrorsAreNotRetried(t *testing.T) {
	boom := errors.New("bad request")
	calls := 0
	r := fastRetry(NewRateLimited(GeneratorFunc(func(context.Context, string, string) (string, error) {
		calls++
		return "", boom
	}), 0, 3, quietLogger()))

	if _, err := r.Generate(context.Background(), "s", "u"); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestRateLimited_GivesUp(t *testing.T) {
	calls := 0
	r := fastRetry(NewRateLimited(GeneratorFunc(func(context.Context, string, string) (string, error) {
		calls++
		return "", errors.New("rate limit reached")
	}), 0, 2, quietLogger()))

	if _, err := r.Generate(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected error")
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestRateLimited_HonoursContext(t *testing.T) {
	r := NewRateLimited(GeneratorFunc(func(context.Context, string, string) (string, error) {
		return "", errors.New("429")
	}), 0, 5, quietLogger())
	r.baseDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := r.Generate(ctx, "s", "u"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestRateLimited_LimiterThrottles(t *testing.T) {
	// 600 rpm = 10/s, burst 60: the 61st call must wait.
	r := NewRateLimited(GeneratorFunc(func(context.Context, string, string) (string, error) {
		return "", nil
	}), 600, 0, quietLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	var err error
	for i := 0; i < 61 && err == nil; i++ {
		_, err = r.Generate(ctx, "s", "u")
	}
	if err == nil {
		t.Fatal("expected limiter to block past the burst")
	}
}
