package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/docsum/internal/common"
)

// Provider turns an image (or scanned PDF) into plain text. Implementations
// never fail to their caller: any problem yields "".
type Provider interface {
	Recognize(ctx context.Context, data []byte) string
}

// RecoverableError marks an OCR failure the pipeline absorbs as "no text".
type RecoverableError struct {
	Op  string // build | send | status | decode | schema | config | remote
	Err error
}

func (e *RecoverableError) Error() string {
	return fmt.Sprintf("ocr %s: %v", e.Op, e.Err)
}

func (e *RecoverableError) Unwrap() error { return e.Err }

func recoverable(op string, err error) error {
	return &RecoverableError{Op: op, Err: err}
}

// Collapse reduces a (text, err) outcome to its text. Errors are logged, never returned.
func Collapse(ctx context.Context, logger *slog.Logger, text string, err error) string {
	if err == nil {
		return text
	}
	log := common.LoggerFor(ctx, logger)
	var re *RecoverableError
	if errors.As(err, &re) {
		log.Warn("ocr.degraded", "op", re.Op, "error", re.Err)
	} else {
		log.Error("ocr.degraded", "op", "unknown", "error", err)
	}
	return ""
}
