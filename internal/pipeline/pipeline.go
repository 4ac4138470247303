package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/joseph-ayodele/docsum/constants"
	"github.com/joseph-ayodele/docsum/internal/common"
	"github.com/joseph-ayodele/docsum/internal/extract"
	"github.com/joseph-ayodele/docsum/internal/llm"
	"github.com/joseph-ayodele/docsum/internal/summarize"
)

// Pipeline runs one document through validation, extraction, summarization
// and assembly. It is read-only after construction and safe for concurrent use.
type Pipeline struct {
	extractor  extract.TextExtractor
	ai         AISummarizer
	extractive ExtractiveSummarizer
	logger     *slog.Logger
}

func New(extractor extract.TextExtractor, ai AISummarizer, extractive ExtractiveSummarizer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if extractive == nil {
		extractive = summarize.NewExtractive()
	}
	return &Pipeline{extractor: extractor, ai: ai, extractive: extractive, logger: logger}
}

// Run returns either a complete Result or an *common.AppError, never both.
// doc.Release, when set, is called exactly once before Run returns.
func (p *Pipeline) Run(ctx context.Context, doc extract.Document, req Request) (res Result, err error) {
	ctx, _ = common.EnsureRequestID(ctx)
	log := common.LoggerFor(ctx, p.logger).With("filename", doc.Filename)
	start := time.Now()

	release := releaseOnce(doc.Release)
	defer release()
	defer func() {
		if r := recover(); r != nil {
			log.Error("pipeline.panic", "panic", r, "stack", string(debug.Stack()))
			res, err = Result{}, common.InternalAppError(fmt.Errorf("%v", r))
		}
		if err != nil {
			err = common.AsAppError(err)
			stage(log, constants.StageFailed, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		}
	}()

	stage(log, constants.StageValidating)
	length, mode, err := validate(doc, req)
	if err != nil {
		return Result{}, err
	}
	if doc.Kind == "" {
		doc.Kind = constants.DetectKind(doc.Filename, doc.MediaType)
	}

	stage(log, constants.StageExtracting, "kind", doc.Kind, "bytes", len(doc.Data))
	ext := p.extractor.Extract(ctx, doc)
	release()
	if ext.Method == extract.MethodPDFOCR {
		stage(log, constants.StageOCRFallback)
	}
	text := strings.TrimSpace(ext.Text)
	log.Info("pipeline.extracted",
		"method", ext.Method,
		"pages", ext.Pages,
		"chars", len(text),
		"extract_ms", ext.Duration.Milliseconds(),
	)
	if text == "" {
		return Result{}, common.NoTextError()
	}

	stage(log, constants.StageSummarizing, "mode", mode, "length", length)
	var paragraph, highlights string
	switch mode {
	case constants.ModeAI:
		paragraph, highlights, err = p.summarizeAI(ctx, text, length)
		if err != nil {
			return Result{}, common.AIGenerationError(err)
		}
	case constants.ModeTraditional:
		paragraph, highlights = p.summarizeExtractive(text, length)
	}

	stage(log, constants.StageAssembling)
	res = Result{
		Filename:         doc.Filename,
		Pages:            ext.Pages,
		SummaryParagraph: llm.SummaryPrefix + paragraph,
		HighlightsList:   llm.HighlightsPrefix + highlights,
		ModelType:        mode,
		Length:           length,
	}
	stage(log, constants.StageDone, "elapsed_ms", time.Since(start).Milliseconds())
	return res, nil
}

// validate checks, in order: file present, extension allowed, mode, length.
func validate(doc extract.Document, req Request) (constants.Length, constants.Mode, error) {
	if doc.Filename == "" && len(doc.Data) == 0 {
		return "", "", common.NoFileError()
	}
	if !constants.IsAllowedFilename(doc.Filename) {
		return "", "", common.UnsupportedTypeError(doc.Filename)
	}
	mode, ok := constants.ParseMode(req.Mode)
	if !ok {
		return "", "", common.InvalidModeError(req.Mode)
	}
	length, ok := constants.ParseLength(req.Length)
	if !ok {
		return "", "", common.InvalidLengthError(req.Length)
	}
	return length, mode, nil
}

func (p *Pipeline) summarizeAI(ctx context.Context, text string, length constants.Length) (string, string, error) {
	if p.ai == nil {
		return "", "", fmt.Errorf("ai summarizer is not configured")
	}
	raw, err := p.ai.Summarize(ctx, text, length)
	if err != nil {
		return "", "", err
	}
	sec := llm.ParseSections(raw)
	return sec.Paragraph, sec.Highlights, nil
}

func (p *Pipeline) summarizeExtractive(text string, length constants.Length) (string, string) {
	summary := p.extractive.Summarize(text, length)
	points := summarize.KeyPoints(summary)
	return summary, "- " + strings.Join(points, "\n- ")
}

func stage(log *slog.Logger, s constants.Stage, args ...any) {
	log.Info("pipeline.stage", append([]any{"stage", s}, args...)...)
}

func releaseOnce(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	var once sync.Once
	return func() { once.Do(fn) }
}
