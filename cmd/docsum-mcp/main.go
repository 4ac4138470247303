package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/joseph-ayodele/docsum/internal/app"
	"github.com/joseph-ayodele/docsum/internal/common"
	"github.com/joseph-ayodele/docsum/internal/mcptool"
)

func main() {
	cfg, err := common.LoadConfig()
	if err != nil {
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	// stdout carries the MCP protocol; logs go to stderr.
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

	srv := mcptool.NewServer(pipe, app.Version, logger)
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}
