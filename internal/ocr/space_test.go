package ocr

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func makePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.Black)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func newTestClient(t *testing.T, endpoint, key string) *SpaceClient {
	t.Helper()
	c, err := NewSpaceClient(Config{
		APIKey:   key,
		Endpoint: endpoint,
		Timeout:  5 * time.Second,
	}, quietLogger())
	if err != nil {
		t.Fatalf("NewSpaceClient: %v", err)
	}
	return c
}

func TestSpaceClient_Recognize(t *testing.T) {
	var gotKey, gotFilename, gotFiletype string
	var gotWidth int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotKey = r.FormValue("apikey")
		gotFiletype = r.FormValue("filetype")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer f.Close()
		gotFilename = hdr.Filename
		cfg, _, err := image.DecodeConfig(f)
		if err != nil {
			t.Errorf("uploaded file is not an image: %v", err)
		}
		gotWidth = cfg.Width
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ParsedResults":[{"ParsedText":"Hello world.","FileParseExitCode":1},{"ParsedText":"second"}],"OCRExitCode":1,"IsErroredOnProcessing":false}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "k-123")
	text := c.Recognize(context.Background(), makePNG(t, 2400, 600))

	if text != "Hello world." {
		t.Errorf("text = %q, want first parsed result", text)
	}
	if gotKey != "k-123" {
		t.Errorf("apikey = %q", gotKey)
	}
	if gotFilename != "image.png" || gotFiletype != "PNG" {
		t.Errorf("filename/filetype = %q/%q", gotFilename, gotFiletype)
	}
	if gotWidth != DefaultMaxWidth {
		t.Errorf("uploaded width = %d, want %d", gotWidth, DefaultMaxWidth)
	}
}

func TestSpaceClient_PDFPassThrough(t *testing.T) {
	pdf := []byte("%PDF-1.4\n%scanned\n")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseMultipartForm(1 << 20)
		if ft := r.FormValue("filetype"); ft != "PDF" {
			t.Errorf("filetype = %q, want PDF", ft)
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		got, _ := io.ReadAll(f)
		if !bytes.Equal(got, pdf) {
			t.Errorf("pdf bytes altered")
		}
		_, _ = io.WriteString(w, `{"ParsedResults":[{"ParsedText":"scanned page"}]}`)
	}))
	defer srv.Close()

	if got := newTestClient(t, srv.URL, "k").Recognize(context.Background(), pdf); got != "scanned page" {
		t.Errorf("text = %q", got)
	}
}

func TestSpaceClient_DegradesToEmpty(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"no results", 200, `{"ParsedResults":[],"IsErroredOnProcessing":false}`},
		{"absent results", 200, `{"OCRExitCode":1}`},
		{"null results", 200, `{"ParsedResults":null}`},
		{"remote error", 200, `{"IsErroredOnProcessing":true,"ErrorMessage":["E101: timeout"]}`},
		{"auth failure", 403, `{"error":"invalid api key"}`},
		{"server error", 500, `oops`},
		{"malformed json", 200, `{"ParsedResults":[`},
		{"schema mismatch", 200, `{"ParsedResults":"not-a-list"}`},
		{"text wrong type", 200, `{"ParsedResults":[{"ParsedText":42}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			if got := newTestClient(t, srv.URL, "k").Recognize(context.Background(), makePNG(t, 10, 10)); got != "" {
				t.Errorf("text = %q, want empty", got)
			}
		})
	}
}

func TestSpaceClient_MissingKeySkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	if got := newTestClient(t, srv.URL, "").Recognize(context.Background(), makePNG(t, 10, 10)); got != "" {
		t.Errorf("text = %q, want empty", got)
	}
	if calls.Load() != 0 {
		t.Errorf("server called %d times without an api key", calls.Load())
	}
}

func TestSpaceClient_UnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if got := newTestClient(t, url, "k").Recognize(context.Background(), makePNG(t, 10, 10)); got != "" {
		t.Errorf("text = %q, want empty", got)
	}
}
