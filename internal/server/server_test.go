package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joseph-ayodele/docsum/constants"
	"github.com/joseph-ayodele/docsum/internal/common"
	"github.com/joseph-ayodele/docsum/internal/extract"
	"github.com/joseph-ayodele/docsum/internal/pipeline"
)

type fakePipeline struct {
	doc      extract.Document
	req      pipeline.Request
	err      error
	staged   []string
	calls    int
	uploadTo string
}

func (f *fakePipeline) Run(_ context.Context, doc extract.Document, req pipeline.Request) (pipeline.Result, error) {
	f.calls++
	f.doc, f.req = doc, req
	if f.uploadTo != "" {
		entries, _ := os.ReadDir(f.uploadTo)
		for _, e := range entries {
			f.staged = append(f.staged, e.Name())
		}
	}
	if doc.Release != nil {
		doc.Release()
	}
	if f.err != nil {
		return pipeline.Result{}, f.err
	}
	return pipeline.Result{
		Filename:         doc.Filename,
		Pages:            1,
		SummaryParagraph: "Summary Paragraph:\nShort.",
		HighlightsList:   "Key Highlights:\n- one",
		ModelType:        constants.ModeAI,
		Length:           constants.LengthMedium,
	}, nil
}

func newTestServer(t *testing.T, pipe *fakePipeline, cfg common.ServerConfig) http.Handler {
	t.Helper()
	if cfg.UploadDir == "" {
		cfg.UploadDir = t.TempDir()
	}
	pipe.uploadTo = cfg.UploadDir
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(pipe, nil, cfg, logger).Router()
}

func multipartBody(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func post(t *testing.T, h http.Handler, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSummarize_OK(t *testing.T) {
	pipe := &fakePipeline{}
	uploadDir := t.TempDir()
	h := newTestServer(t, pipe, common.ServerConfig{UploadDir: uploadDir})

	body, ct := multipartBody(t, "report.pdf", []byte("%PDF-1.4 data"), map[string]string{"Length": "short", "modelType": "traditional"})
	rec := post(t, h, "/api/summarize", body, ct)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var res pipeline.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Filename != "report.pdf" || res.SummaryParagraph != "Summary Paragraph:\nShort." {
		t.Fatalf("unexpected result %+v", res)
	}
	if pipe.req.Length != "short" || pipe.req.Mode != "traditional" {
		t.Fatalf("request = %+v", pipe.req)
	}
	if string(pipe.doc.Data) != "%PDF-1.4 data" {
		t.Fatalf("data = %q", pipe.doc.Data)
	}
	if len(pipe.staged) != 1 {
		t.Fatalf("staged files during run = %v, want 1", pipe.staged)
	}
	if left, _ := os.ReadDir(uploadDir); len(left) != 0 {
		t.Fatalf("staging not cleaned up: %v", left)
	}
}

func TestSummarize_ModeAlias(t *testing.T) {
	pipe := &fakePipeline{}
	h := newTestServer(t, pipe, common.ServerConfig{})
	body, ct := multipartBody(t, "a.png", []byte("x"), map[string]string{"mode": "ai"})
	if rec := post(t, h, "/api/summarize", body, ct); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if pipe.req.Mode != "ai" {
		t.Fatalf("mode = %q", pipe.req.Mode)
	}
}

func TestSummarize_ErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"no file", common.NoFileError(), http.StatusBadRequest, "No file uploaded."},
		{"unsupported", common.UnsupportedTypeError("a.docx"), http.StatusUnsupportedMediaType, "Unsupported file type."},
		{"no text", common.NoTextError(), http.StatusBadRequest, "Could not extract text from file."},
		{"ai failure", common.AIGenerationError(io.ErrUnexpectedEOF), http.StatusInternalServerError, "An internal server error occurred: unexpected EOF"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pipe := &fakePipeline{err: tc.err}
			uploadDir := t.TempDir()
			h := newTestServer(t, pipe, common.ServerConfig{UploadDir: uploadDir})
			body, ct := multipartBody(t, "a.pdf", []byte("x"), nil)
			rec := post(t, h, "/api/summarize", body, ct)

			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			var got map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got["error"] != tc.msg {
				t.Fatalf("error = %q, want %q", got["error"], tc.msg)
			}
			if left, _ := os.ReadDir(uploadDir); len(left) != 0 {
				t.Fatalf("staging not cleaned up: %v", left)
			}
		})
	}
}

func TestSummarize_MissingFilePassesEmptyDocument(t *testing.T) {
	pipe := &fakePipeline{err: common.NoFileError()}
	h := newTestServer(t, pipe, common.ServerConfig{})
	body, ct := multipartBody(t, "", nil, map[string]string{"length": "short"})
	rec := post(t, h, "/api/summarize", body, ct)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if pipe.doc.Filename != "" || pipe.doc.Data != nil {
		t.Fatalf("doc = %+v, want empty", pipe.doc)
	}
}

func TestSummarize_TooLarge(t *testing.T) {
	pipe := &fakePipeline{}
	h := newTestServer(t, pipe, common.ServerConfig{MaxUploadMB: 1})
	body, ct := multipartBody(t, "big.png", bytes.Repeat([]byte("a"), 2<<20), nil)
	rec := post(t, h, "/api/summarize", body, ct)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
	if pipe.calls != 0 {
		t.Fatal("pipeline ran for oversized upload")
	}
}

func TestExport_Text(t *testing.T) {
	h := newTestServer(t, &fakePipeline{}, common.ServerConfig{})
	body, ct := multipartBody(t, "a.pdf", []byte("x"), nil)
	rec := post(t, h, "/api/summarize/export?format=txt", body, ct)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "summary.txt") {
		t.Fatalf("content-disposition = %q", cd)
	}
	if got := rec.Body.String(); got != "Summary:\nShort.\n\nKey Highlights:\n- one" {
		t.Fatalf("body = %q", got)
	}
}

func TestExport_XLSX(t *testing.T) {
	h := newTestServer(t, &fakePipeline{}, common.ServerConfig{})
	body, ct := multipartBody(t, "a.pdf", []byte("x"), nil)
	rec := post(t, h, "/api/summarize/export?format=xlsx", body, ct)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Fatal("xlsx body is not a zip archive")
	}
}

func TestExport_BadFormat(t *testing.T) {
	pipe := &fakePipeline{}
	h := newTestServer(t, pipe, common.ServerConfig{})
	body, ct := multipartBody(t, "a.pdf", []byte("x"), nil)
	if rec := post(t, h, "/api/summarize/export?format=docx", body, ct); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if pipe.calls != 0 {
		t.Fatal("pipeline ran for bad format")
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t, &fakePipeline{}, common.ServerConfig{})
	req := httptest.NewRequest(http.MethodOptions, "/api/summarize", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("missing CORS header")
	}
}

func TestHealthAndStatic(t *testing.T) {
	static := t.TempDir()
	if err := os.WriteFile(filepath.Join(static, "index.html"), []byte("<h1>docsum</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}
	h := newTestServer(t, &fakePipeline{}, common.ServerConfig{StaticDir: static})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("healthz = %d %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "docsum") {
		t.Fatalf("static = %d %s", rec.Code, rec.Body)
	}
}
