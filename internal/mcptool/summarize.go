package mcptool

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/joseph-ayodele/docsum/internal/common"
	"github.com/joseph-ayodele/docsum/internal/extract"
	"github.com/joseph-ayodele/docsum/internal/pipeline"
)

const ToolName = "docsum.summarize"

// Runner is the pipeline entry point the tool calls.
type Runner interface {
	Run(ctx context.Context, doc extract.Document, req pipeline.Request) (pipeline.Result, error)
}

type SummarizeQuery struct {
	Filename string `json:"filename" jsonschema:"original file name; the extension (pdf, png, jpg, jpeg, tif, tiff) selects the extraction path"`
	RawData  []byte `json:"raw_data" jsonschema:"file contents, base64 encoded"`
	Length   string `json:"length,omitempty" jsonschema:"short, medium (default) or long"`
	Mode     string `json:"mode,omitempty" jsonschema:"ai (default) or traditional"`
}

func SummarizeTool() *mcp.Tool {
	inputschema, err := jsonschema.For[SummarizeQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        ToolName,
		Description: "Summarize a PDF or image document. Embedded PDF text is used when present, otherwise the document is OCR'd. Returns a summary paragraph and key highlights.",
		InputSchema: inputschema,
	}
}

func SummarizeToolHandler(ctx context.Context, _ *mcp.CallToolRequest, query SummarizeQuery, runner Runner, logger *slog.Logger) (*mcp.CallToolResult, *pipeline.Result, error) {
	ctx, rid := common.EnsureRequestID(ctx)
	start := time.Now()

	doc := extract.Document{Filename: query.Filename, Data: query.RawData}
	res, err := runner.Run(ctx, doc, pipeline.Request{Length: query.Length, Mode: query.Mode})
	if err != nil {
		ae := common.AsAppError(err)
		logger.Warn("mcp.summarize.failed", "req_id", rid, "code", ae.Code, "client_fault", common.IsClientFault(err), "error", err)
		return nil, nil, errors.New(ae.Message)
	}
	logger.Info("mcp.summarize.ok", "req_id", rid, "filename", res.Filename, "elapsed_ms", time.Since(start).Milliseconds())
	return nil, &res, nil
}

// NewServer builds an MCP server exposing the summarize tool.
func NewServer(runner Runner, version string, logger *slog.Logger) *mcp.Server {
	if logger == nil {
		logger = slog.Default()
	}
	server := mcp.NewServer(&mcp.Implementation{Name: "docsum", Version: version}, nil)
	mcp.AddTool(server, SummarizeTool(), func(ctx context.Context, req *mcp.CallToolRequest, query SummarizeQuery) (*mcp.CallToolResult, *pipeline.Result, error) {
		return SummarizeToolHandler(ctx, req, query, runner, logger)
	})
	return server
}
