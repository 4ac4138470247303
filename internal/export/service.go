package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/docsum/constants"
	"github.com/joseph-ayodele/docsum/internal/llm"
	"github.com/joseph-ayodele/docsum/internal/pipeline"
)

type Format string

const (
	FormatText Format = "txt"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// ParseFormat accepts txt, xlsx or json (case-insensitive, leading dot allowed).
func ParseFormat(s string) (Format, bool) {
	switch f := Format(constants.NormalizeExt(s)); f {
	case FormatText, FormatXLSX, FormatJSON:
		return f, true
	case "":
		return FormatText, true
	default:
		return f, false
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Filename is the suggested download name.
func (f Format) Filename() string { return "summary." + string(f) }

// Row is one document's outcome. Err is set when the document failed.
type Row struct {
	Source string          `json:"source"`
	Result pipeline.Result `json:"result"`
	Err    string          `json:"error,omitempty"`
}

// Service renders summaries into downloadable files.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// Render encodes rows in the requested format.
func (s *Service) Render(ctx context.Context, format Format, rows []Row) ([]byte, error) {
	start := time.Now()
	var (
		out []byte
		err error
	)
	switch format {
	case FormatXLSX:
		out, err = s.XLSX(ctx, rows)
	case FormatJSON:
		out, err = json.MarshalIndent(rows, "", "  ")
	case FormatText:
		out = Text(rows)
	default:
		err = fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		s.logger.Error("export.render.failed", "format", format, "rows", len(rows), "error", err)
		return nil, err
	}
	s.logger.Info("export.render.ok", "format", format, "rows", len(rows), "bytes", len(out), "elapsed_ms", time.Since(start).Milliseconds())
	return out, nil
}

// Text mirrors the plain-text download: the summary, then the highlights
// unless the summary is extractive.
func Text(rows []Row) []byte {
	var b bytes.Buffer
	for i, r := range rows {
		if len(rows) > 1 {
			if i > 0 {
				b.WriteString("\n\n")
			}
			fmt.Fprintf(&b, "=== %s ===\n", displayName(r))
		}
		if r.Err != "" {
			b.WriteString("Error: ")
			b.WriteString(r.Err)
			continue
		}
		b.WriteString("Summary:\n")
		b.WriteString(body(r.Result.SummaryParagraph, llm.SummaryPrefix))
		if r.Result.ModelType != constants.ModeTraditional {
			b.WriteString("\n\nKey Highlights:\n")
			b.WriteString(body(r.Result.HighlightsList, llm.HighlightsPrefix))
		}
	}
	return b.Bytes()
}

// XLSX returns a workbook with one row per document.
func (s *Service) XLSX(_ context.Context, rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Summaries"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	_ = f.DeleteSheet("Sheet1")
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{"File", "Pages", "Mode", "Length", "Summary", "Key Highlights", "Error"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, r := range rows {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, displayName(r))
		if r.Err != "" {
			write(7, r.Err)
			continue
		}
		write(2, r.Result.Pages)
		write(3, string(r.Result.ModelType))
		write(4, string(r.Result.Length))
		write(5, body(r.Result.SummaryParagraph, llm.SummaryPrefix))
		write(6, body(r.Result.HighlightsList, llm.HighlightsPrefix))
	}

	_ = f.SetColWidth(sheet, "A", "A", 32) // file
	_ = f.SetColWidth(sheet, "B", "D", 10) // pages, mode, length
	_ = f.SetColWidth(sheet, "E", "E", 80) // summary
	_ = f.SetColWidth(sheet, "F", "F", 60) // highlights
	_ = f.SetColWidth(sheet, "G", "G", 40) // error

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func displayName(r Row) string {
	if r.Result.Filename != "" {
		return r.Result.Filename
	}
	return r.Source
}

func body(field, prefix string) string {
	return strings.TrimSpace(strings.TrimPrefix(field, prefix))
}
