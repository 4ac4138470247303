package extract

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/docsum/constants"
	"github.com/joseph-ayodele/docsum/internal/common"
	"github.com/joseph-ayodele/docsum/internal/ocr"
)

// Extractor decides between the embedded PDF text layer and OCR.
type Extractor struct {
	ocr    ocr.Provider
	logger *slog.Logger
}

func NewExtractor(provider ocr.Provider, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{ocr: provider, logger: logger}
}

// Extract picks a strategy based on the document kind.
func (e *Extractor) Extract(ctx context.Context, doc Document) (res Result) {
	start := time.Now()
	log := common.LoggerFor(ctx, e.logger)
	defer func() {
		if r := recover(); r != nil {
			log.Error("extract.panic", "filename", doc.Filename, "panic", r)
			res = Result{Method: MethodNone}
		}
		res.Duration = time.Since(start)
	}()

	log.Debug("extract.start", "filename", doc.Filename, "kind", doc.Kind, "bytes", len(doc.Data))
	switch doc.Kind {
	case constants.PDF:
		return e.extractPDF(ctx, log, doc)
	case constants.IMAGE:
		return Result{
			Text:   e.recognize(ctx, doc.Data),
			Pages:  1,
			Method: MethodImageOCR,
		}
	default:
		log.Error("extract.unsupported_kind", "kind", doc.Kind)
		return Result{Method: MethodNone}
	}
}

func (e *Extractor) extractPDF(ctx context.Context, log *slog.Logger, doc Document) Result {
	text, pages, err := pdfTextLayer(doc.Data)
	if err != nil {
		// Treated like a missing text layer: OCR may still read it.
		log.Warn("extract.pdf.text_layer_failed", "filename", doc.Filename, "error", err)
	}
	if n, cerr := pdfPageCount(doc.Data); cerr == nil {
		pages = n
	} else {
		log.Debug("extract.pdf.page_count_fallback", "error", cerr, "pages", pages)
	}

	if text = strings.TrimSpace(text); text != "" {
		log.Info("extract.pdf.text_layer", "pages", pages, "chars", len(text))
		return Result{Text: text, Pages: pages, Method: MethodPDFText}
	}

	log.Info("extract.pdf.ocr_fallback", "filename", doc.Filename, "pages", pages)
	return Result{
		Text:   e.recognize(ctx, doc.Data),
		Pages:  pages,
		Method: MethodPDFOCR,
	}
}

func (e *Extractor) recognize(ctx context.Context, data []byte) string {
	if e.ocr == nil {
		return ""
	}
	return ocr.Normalize(e.ocr.Recognize(ctx, data))
}
