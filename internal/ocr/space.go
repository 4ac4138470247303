package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/docsum/internal/common"
)

// Config for the OCR.space client.
type Config struct {
	APIKey   string        // OCR_SPACE_API_KEY
	Endpoint string        // default https://api.ocr.space/parse/image
	Language string        // default "eng"
	Engine   int           // OCR.space engine 1|2; 0 leaves the service default
	MaxWidth int           // images wider than this are downscaled, default 1200
	Timeout  time.Duration // http client timeout
}

// SpaceClient implements Provider against the OCR.space parse API.
type SpaceClient struct {
	cfg    Config
	http   *http.Client
	schema *jsonschema.Schema
	logger *slog.Logger
}

type spaceResult struct {
	ParsedText   string          `json:"ParsedText"`
	ErrorMessage json.RawMessage `json:"ErrorMessage"`
}

type spaceResponse struct {
	ParsedResults         []spaceResult   `json:"ParsedResults"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
}

func NewSpaceClient(cfg Config, logger *slog.Logger) (*SpaceClient, error) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://api.ocr.space/parse/image"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.MaxWidth <= 0 {
		cfg.MaxWidth = DefaultMaxWidth
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	schema, err := compileResponseSchema()
	if err != nil {
		return nil, fmt.Errorf("compile ocr response schema: %w", err)
	}
	return &SpaceClient{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		schema: schema,
		logger: logger,
	}, nil
}

// Recognize implements Provider.
func (c *SpaceClient) Recognize(ctx context.Context, data []byte) string {
	text, err := c.recognize(ctx, data)
	return Collapse(ctx, c.logger, text, err)
}

func (c *SpaceClient) recognize(ctx context.Context, data []byte) (string, error) {
	log := common.LoggerFor(ctx, c.logger)
	start := time.Now()

	if c.cfg.APIKey == "" {
		return "", recoverable("config", errors.New("OCR_SPACE_API_KEY is not set"))
	}
	if len(data) == 0 {
		return "", recoverable("build", errors.New("empty input"))
	}

	upload := c.prepare(ctx, data)
	body, contentType, err := c.buildForm(upload)
	if err != nil {
		return "", recoverable("build", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, body)
	if err != nil {
		return "", recoverable("build", err)
	}
	req.Header.Set("Content-Type", contentType)

	log.Info("ocr.space.request",
		"filename", upload.Filename,
		"filetype", upload.FileType,
		"bytes", len(upload.Data),
		"downscaled", upload.Downscaled,
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", recoverable("send", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			log.Warn("ocr.space.response_body_close_error", "error", err)
		}
	}(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", recoverable("send", err)
	}
	log.Info("ocr.space.response",
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	if resp.StatusCode/100 != 2 {
		return "", recoverable("status", fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(raw), 512)))
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", recoverable("decode", err)
	}
	if err := c.schema.Validate(doc); err != nil {
		return "", recoverable("schema", err)
	}
	var out spaceResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", recoverable("decode", err)
	}

	if len(out.ParsedResults) == 0 {
		if out.IsErroredOnProcessing {
			return "", recoverable("remote", fmt.Errorf("processing failed: %s", string(out.ErrorMessage)))
		}
		log.Warn("ocr.space.no_results")
		return "", nil
	}
	if out.IsErroredOnProcessing {
		log.Warn("ocr.space.partial_error", "error_message", string(out.ErrorMessage))
	}
	return out.ParsedResults[0].ParsedText, nil
}

// upload is what actually goes over the wire.
type upload struct {
	Data       []byte
	Filename   string
	FileType   string // OCR.space filetype hint: PDF | PNG | JPG | TIF
	Downscaled bool
}

func (c *SpaceClient) prepare(ctx context.Context, data []byte) upload {
	if http.DetectContentType(data) == "application/pdf" {
		return upload{Data: data, Filename: "document.pdf", FileType: "PDF"}
	}
	out, format, scaled, err := Downscale(data, c.cfg.MaxWidth)
	if err != nil {
		// Unknown to the decoder; let the service have a go at the raw bytes.
		common.LoggerFor(ctx, c.logger).Warn("ocr.image.decode_failed", "error", err)
		return upload{Data: data, Filename: "image.png"}
	}
	ft := fileTypeFor(format)
	return upload{Data: out, Filename: "image." + extFor(ft), FileType: ft, Downscaled: scaled}
}

func (c *SpaceClient) buildForm(u upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"apikey", c.cfg.APIKey},
		{"language", c.cfg.Language},
		{"isOverlayRequired", "false"},
		{"scale", "true"},
	}
	if c.cfg.Engine > 0 {
		fields = append(fields, [2]string{"OCREngine", strconv.Itoa(c.cfg.Engine)})
	}
	if u.FileType != "" {
		fields = append(fields, [2]string{"filetype", u.FileType})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	part, err := w.CreateFormFile("file", u.Filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(u.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func fileTypeFor(format string) string {
	switch format {
	case "jpeg":
		return "JPG"
	case "tiff":
		return "TIF"
	default:
		return "PNG"
	}
}

func extFor(fileType string) string {
	switch fileType {
	case "JPG":
		return "jpg"
	case "TIF":
		return "tif"
	default:
		return "png"
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
