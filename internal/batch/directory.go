package batch

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/docsum/internal/export"
	"github.com/joseph-ayodele/docsum/internal/pipeline"
)

// SummarizeDirectory summarizes every supported file under root with the
// same options. Rows come back in walk order; failures are rows with Err set.
func SummarizeDirectory(ctx context.Context, runner Runner, root string, req pipeline.Request, logger *slog.Logger, opts ...Option) ([]export.Row, DirStats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	paths, skipped, stats, err := CollectFiles(root, true)
	if err != nil {
		return nil, stats, err
	}
	for path, werr := range skipped {
		logger.Warn("batch.walk.skipped", "path", path, "error", werr)
	}
	logger.Info("batch.start", "root", root, "files", len(paths), "scanned", stats.Scanned)

	q := NewQueue(ctx, runner, logger, opts...)
	for i, p := range paths {
		if err := q.Enqueue(ctx, Job{Index: i, Path: p, Request: req}); err != nil {
			logger.Error("batch.enqueue.failed", "path", p, "error", err)
			break
		}
	}
	if err := q.Shutdown(ctx); err != nil {
		return q.Rows(), stats, err
	}

	rows := q.Rows()
	for _, r := range rows {
		if r.Err != "" {
			stats.Failed++
		} else {
			stats.Succeeded++
		}
	}
	logger.Info("batch.done",
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rows, stats, ctx.Err()
}
