package ocr

import (
	"bytes"
	"image"
	"testing"
)

func TestDownscale(t *testing.T) {
	t.Run("wide image shrinks keeping aspect", func(t *testing.T) {
		out, format, scaled, err := Downscale(makePNG(t, 3000, 1500), 1200)
		if err != nil {
			t.Fatalf("Downscale: %v", err)
		}
		if !scaled || format != "png" {
			t.Fatalf("scaled=%v format=%q", scaled, format)
		}
		cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("decode output: %v", err)
		}
		if cfg.Width != 1200 || cfg.Height != 600 {
			t.Errorf("size = %dx%d, want 1200x600", cfg.Width, cfg.Height)
		}
	})

	t.Run("narrow image untouched", func(t *testing.T) {
		in := makePNG(t, 800, 400)
		out, _, scaled, err := Downscale(in, 1200)
		if err != nil {
			t.Fatalf("Downscale: %v", err)
		}
		if scaled || !bytes.Equal(in, out) {
			t.Error("image within bounds should be returned as-is")
		}
	})

	t.Run("garbage is an error", func(t *testing.T) {
		if _, _, _, err := Downscale([]byte("not an image"), 1200); err == nil {
			t.Error("expected decode error")
		}
	})
}

func TestNormalize(t *testing.T) {
	in := "Line one\t\twith   gaps  \r\ndocu-\nment here\n\n\n\n-----\nEnd  "
	want := "Line one with gaps\ndocument here\n\nEnd"
	if got := Normalize(in); got != want {
		t.Errorf("Normalize = %q, want %q", got, want)
	}
	if Normalize("") != "" {
		t.Error("empty stays empty")
	}
}
