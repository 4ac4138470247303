package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/docsum/internal/app"
	"github.com/joseph-ayodele/docsum/internal/batch"
	"github.com/joseph-ayodele/docsum/internal/common"
	"github.com/joseph-ayodele/docsum/internal/export"
	"github.com/joseph-ayodele/docsum/internal/extract"
	"github.com/joseph-ayodele/docsum/internal/pipeline"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		file    = flag.String("file", "", "document to summarize (pdf, png, jpg, jpeg, tif, tiff)")
		dir     = flag.String("dir", "", "directory of documents to summarize")
		length  = flag.String("length", "medium", "summary length: short, medium or long")
		mode    = flag.String("mode", "ai", "summarization mode: ai or traditional")
		out     = flag.String("out", "", "output file (.txt, .xlsx or .json); stdout JSON when empty for -file")
		workers = flag.Int("workers", 4, "parallel documents for -dir")
		timeout = flag.Duration("timeout", 3*time.Minute, "per-document timeout")
		watch   = flag.Bool("watch", false, "with -dir: keep running and summarize new files into <file>.summary.txt")
	)
	flag.Parse()

	if (*file == "") == (*dir == "") {
		printError("Error: exactly one of --file or --dir is required\n")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := common.LoadConfig()
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	logger := common.NewLogger(cfg.Log, os.Stderr)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pipe, err := app.NewPipeline(cfg, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}
	req := pipeline.Request{Length: *length, Mode: *mode}
	exporter := export.NewService(logger)

	if *watch {
		if *dir == "" {
			printError("Error: --watch requires --dir\n")
			os.Exit(2)
		}
		err := batch.WatchDirectory(ctx, pipe, batch.WatchConfig{
			Root:        *dir,
			InitialScan: true,
			Debounce:    500 * time.Millisecond,
			SkipHidden:  true,
		}, req, func(row export.Row) {
			if row.Err != "" {
				logger.Warn("watch.summarize_failed", "path", row.Source, "error", row.Err)
				return
			}
			target := row.Source + ".summary.txt"
			if err := os.WriteFile(target, export.Text([]export.Row{row}), 0o644); err != nil {
				logger.Error("watch.write_failed", "path", target, "error", err)
				return
			}
			logger.Info("watch.summarized", "path", row.Source, "output", target)
		}, logger, batch.WithWorkers(*workers), batch.WithProcessTimeout(*timeout))
		if err != nil {
			logger.Error("watch failed", "error", err)
			os.Exit(1)
		}
		return
	}

	var rows []export.Row
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			printError("Error: %v\n", err)
			os.Exit(1)
		}
		runCtx, cancel := context.WithTimeout(ctx, *timeout)
		res, err := pipe.Run(runCtx, extract.Document{Filename: filepath.Base(*file), Data: data}, req)
		cancel()
		if err != nil {
			printError("Error: %s\n", common.AsAppError(err).Message)
			os.Exit(1)
		}
		if *out == "" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			_ = enc.Encode(res)
			return
		}
		rows = []export.Row{{Source: *file, Result: res}}
	} else {
		if *out == "" {
			*out = filepath.Join(filepath.Dir(filepath.Clean(*dir)), "summaries.xlsx")
		}
		var stats batch.DirStats
		rows, stats, err = batch.SummarizeDirectory(ctx, pipe, *dir, req, logger,
			batch.WithWorkers(*workers),
			batch.WithProcessTimeout(*timeout),
		)
		if err != nil {
			logger.Error("batch failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Batch processing complete!\n")
		fmt.Printf("- Files matched: %d\n", stats.Matched)
		fmt.Printf("- Summarized: %d\n", stats.Succeeded)
		fmt.Printf("- Failures: %d\n", stats.Failed)
	}

	format, ok := export.ParseFormat(filepath.Ext(*out))
	if !ok {
		printError("Error: unsupported output extension %q (use .txt, .xlsx or .json)\n", filepath.Ext(*out))
		os.Exit(1)
	}
	body, err := exporter.Render(ctx, format, rows)
	if err != nil {
		logger.Error("failed to render output", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, body, 0o644); err != nil {
		logger.Error("failed to write output file", "error", err)
		os.Exit(1)
	}
	fmt.Printf("- Output: %s\n", *out)
}
