// Package imaging normalizes uploaded item photos for storage.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

const (
	// MaxUploadSize is the largest accepted upload in bytes.
	MaxUploadSize = 5 << 20

	// MaxDimension bounds the width and height of stored images.
	MaxDimension = 1024

	// JPEGQuality is used for every stored image.
	JPEGQuality = 85

	// StoredMIME is the content type of every stored image.
	StoredMIME = "image/jpeg"

	// MaxPixels bounds the decoded size of an upload (width x height).
	MaxPixels = 40_000_000
)

var (
	ErrTooLarge    = errors.New("image too large")
	ErrUnsupported = errors.New("unsupported image format")
)

var accepted = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Image is a normalized photo ready to be stored.
type Image struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// Normalize reads an upload, checks its real type from the content,
// shrinks it to fit MaxDimension and re-encodes it as JPEG. Transparent
// areas are flattened onto white.
func Normalize(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, MaxUploadSize)
	}

	if detected := http.DetectContentType(data); !accepted[detected] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, detected)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, cfg.Width, cfg.Height, MaxPixels)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	dst := fit(src, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding jpeg: %w", err)
	}

	b := dst.Bounds()
	return &Image{Data: buf.Bytes(), MIME: StoredMIME, Width: b.Dx(), Height: b.Dy()}, nil
}

// fit draws src onto a white canvas no larger than maxDim on either side,
// keeping the aspect ratio.
func fit(src image.Image, maxDim int) *image.RGBA {
	sb := src.Bounds()
	w, h := sb.Dx(), sb.Dy()
	if w > maxDim || h > maxDim {
		if w >= h {
			h = max(1, h*maxDim/w)
			w = maxDim
		} else {
			w = max(1, w*maxDim/h)
			h = maxDim
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Over, nil)
	return dst
}
