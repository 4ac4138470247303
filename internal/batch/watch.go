package batch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/joseph-ayodele/docsum/constants"
	"github.com/joseph-ayodele/docsum/internal/export"
	"github.com/joseph-ayodele/docsum/internal/pipeline"
)

type WatchConfig struct {
	Root        string        // watched recursively
	InitialScan bool          // also emit files already present
	Debounce    time.Duration // coalesce rapid write/rename bursts
	SkipHidden  bool
}

// Watch emits supported documents created or modified under cfg.Root until
// ctx ends. The returned channel is closed on exit.
func Watch(ctx context.Context, cfg WatchConfig, logger *slog.Logger) (<-chan string, error) {
	if cfg.Root == "" {
		return nil, errors.New("watch root is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	var initial []string
	err = filepath.WalkDir(cfg.Root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if cfg.SkipHidden && path != cfg.Root && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return w.Add(path)
		}
		if cfg.InitialScan && constants.IsAllowedFilename(path) {
			initial = append(initial, path)
		}
		return nil
	})
	if err != nil {
		_ = w.Close()
		return nil, err
	}

	out := make(chan string, 64)
	go func() {
		defer close(out)
		defer func() { _ = w.Close() }()

		emit := func(path string) bool {
			select {
			case out <- path:
				return true
			case <-ctx.Done():
				return false
			}
		}
		for _, p := range initial {
			if !emit(p) {
				return
			}
		}

		pending := map[string]struct{}{}
		timer := time.NewTimer(time.Hour)
		timer.Stop()
		flush := func() bool {
			for p := range pending {
				delete(pending, p)
				if !emit(p) {
					return false
				}
			}
			return true
		}

		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if e.Has(fsnotify.Create) {
					if st, err := os.Stat(e.Name); err == nil && st.IsDir() {
						if err := w.Add(e.Name); err != nil {
							logger.Warn("batch.watch.add_dir_failed", "path", e.Name, "error", err)
						}
						continue
					}
				}
				if cfg.SkipHidden && isHidden(e.Name) {
					continue
				}
				if !constants.IsAllowedFilename(e.Name) || !(e.Has(fsnotify.Create) || e.Has(fsnotify.Write) || e.Has(fsnotify.Rename)) {
					continue
				}
				pending[e.Name] = struct{}{}
				if cfg.Debounce <= 0 {
					if !flush() {
						return
					}
					continue
				}
				timer.Reset(cfg.Debounce)
			case <-timer.C:
				if !flush() {
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("batch.watch.error", "error", err)
			}
		}
	}()
	return out, nil
}

// WatchDirectory summarizes documents as they appear under cfg.Root and hands
// each outcome to onResult. It returns when ctx ends.
func WatchDirectory(ctx context.Context, runner Runner, cfg WatchConfig, req pipeline.Request, onResult func(export.Row), logger *slog.Logger, opts ...Option) error {
	if logger == nil {
		logger = slog.Default()
	}
	paths, err := Watch(ctx, cfg, logger)
	if err != nil {
		return err
	}
	q := NewQueue(ctx, runner, logger, append(opts, WithOnResult(onResult))...)
	logger.Info("batch.watch.start", "root", cfg.Root)

	i := 0
	for p := range paths {
		if err := q.Enqueue(ctx, Job{Index: i, Path: p, Request: req}); err != nil {
			break
		}
		i++
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Minute)
	defer cancel()
	return q.Shutdown(shutdownCtx)
}
