package extract

import (
	"context"
	"time"

	"github.com/joseph-ayodele/docsum/constants"
)

// TextExtractor is Stage 1: document -> text. It never fails: an empty Text
// means nothing could be extracted.
type TextExtractor interface {
	Extract(ctx context.Context, doc Document) Result
}

// Document is one uploaded file, owned by a single request.
type Document struct {
	Filename  string
	MediaType string // as declared by the client, may be empty
	Kind      constants.DocumentKind
	Data      []byte
	// Release frees any staging copy of Data. Optional.
	Release func()
}

type Result struct {
	Text     string
	Pages    int
	Method   string // "pdf-text" | "pdf-ocr" | "image-ocr" | "none"
	Duration time.Duration
}

const (
	MethodPDFText  = "pdf-text"
	MethodPDFOCR   = "pdf-ocr"
	MethodImageOCR = "image-ocr"
	MethodNone     = "none"
)
