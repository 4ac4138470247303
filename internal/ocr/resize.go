package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// DefaultMaxWidth bounds upload size and recognition latency.
const DefaultMaxWidth = 1200

// Downscale shrinks an encoded image to maxWidth pixels wide, keeping the aspect
// ratio. Images already within bounds are returned untouched; they are never
// enlarged. format is the decoder name: png, jpeg or tiff.
func Downscale(data []byte, maxWidth int) (out []byte, format string, scaled bool, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", false, fmt.Errorf("decode config: %w", err)
	}
	if maxWidth <= 0 || cfg.Width <= maxWidth {
		return data, format, false, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, format, false, fmt.Errorf("decode: %w", err)
	}
	b := src.Bounds()
	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90})
	default:
		// tiff re-encodes as png
		format = "png"
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return nil, format, false, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), format, true, nil
}
