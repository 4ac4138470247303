package pipeline

import (
	"context"

	"github.com/joseph-ayodele/docsum/constants"
)

// Request carries the caller's raw options; Run validates them.
type Request struct {
	Length string
	Mode   string
}

// Result is the assembled summary returned to callers.
type Result struct {
	Filename         string           `json:"filename"`
	Pages            int              `json:"pages"`
	SummaryParagraph string           `json:"summaryParagraph"`
	HighlightsList   string           `json:"highlightsList"`
	ModelType        constants.Mode   `json:"modelType"`
	Length           constants.Length `json:"length"`
}

// AISummarizer produces a raw two-section reply for text.
type AISummarizer interface {
	Summarize(ctx context.Context, text string, length constants.Length) (string, error)
}

// ExtractiveSummarizer selects sentences from text without any remote call.
type ExtractiveSummarizer interface {
	Summarize(text string, length constants.Length) string
}
