package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/joseph-ayodele/docsum/constants"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSummarizer_PromptCarriesFormatAndText(t *testing.T) {
	var gotSystem, gotUser string
	gen := GeneratorFunc(func(_ context.Context, system, user string) (string, error) {
		gotSystem, gotUser = system, user
		return "raw reply", nil
	})
	s := NewSummarizer(gen, 100, quietLogger())

	out, err := s.Summarize(context.Background(), "The document body.", constants.LengthShort)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if out != "raw reply" {
		t.Fatalf("reply = %q, want verbatim", out)
	}
	if gotSystem == "" {
		t.Fatal("system prompt empty")
	}
	for _, want := range []string{LabelSummary, LabelHighlights, "The document body.", "short summary"} {
		if !strings.Contains(gotUser, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}
}

func TestSummarizer_TruncatesInput(t *testing.T) {
	var gotUser string
	gen := GeneratorFunc(func(_ context.Context, _, user string) (string, error) {
		gotUser = user
		return "", nil
	})
	s := NewSummarizer(gen, 10, quietLogger())

	text := strings.Repeat("é", 50)
	if _, err := s.Summarize(context.Background(), text, constants.LengthMedium); err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if !strings.HasSuffix(gotUser, strings.Repeat("é", 10)) || strings.Contains(gotUser, strings.Repeat("é", 11)) {
		t.Fatalf("input not truncated to 10 runes: %q", gotUser)
	}
	if !utf8.ValidString(gotUser) {
		t.Fatal("truncation split a rune")
	}
}

func TestSummarizer_WrapsGeneratorError(t *testing.T) {
	boom := errors.New("quota exceeded")
	s := NewSummarizer(GeneratorFunc(func(context.Context, string, string) (string, error) {
		return "", boom
	}), 0, quietLogger())

	_, err := s.Summarize(context.Background(), "text", constants.LengthLong)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
	if !strings.HasPrefix(err.Error(), "ai generate: ") {
		t.Fatalf("err = %q, want ai generate prefix", err)
	}
}

func TestSummarizer_NoGenerator(t *testing.T) {
	if _, err := NewSummarizer(nil, 0, quietLogger()).Summarize(context.Background(), "x", constants.LengthShort); err == nil {
		t.Fatal("expected error")
	}
}
