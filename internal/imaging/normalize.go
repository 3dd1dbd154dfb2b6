// Package imaging turns uploaded photos into the bounded JPEG payload the
// asset store expects.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// MaxUploadSize is the largest accepted raw upload.
const MaxUploadSize = 5 << 20 // 5MB

const (
	maxDimension = 800
	jpegQuality  = 80
)

// Normalize decodes an uploaded image, scales it down to fit within
// maxDimension x maxDimension without enlarging, and re-encodes it as JPEG.
func Normalize(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("image has empty bounds")
	}

	dst := src
	if w > maxDimension || h > maxDimension {
		nw, nh := fitWithin(w, h, maxDimension)
		scaled := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, bounds, draw.Over, nil)
		dst = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// fitWithin scales (w, h) to fit inside a max x max box, preserving the aspect
// ratio. It is only called when at least one side exceeds max.
func fitWithin(w, h, max int) (int, int) {
	if w >= h {
		nh := h * max / w
		if nh < 1 {
			nh = 1
		}
		return max, nh
	}
	nw := w * max / h
	if nw < 1 {
		nw = 1
	}
	return nw, max
}
