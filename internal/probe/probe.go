// Package probe reads image dimensions from file headers.
//
// Only the header is decoded; pixel data is never read. PNG, JPEG and GIF
// come from the standard library, BMP, TIFF and WebP from golang.org/x/image.
package probe

import (
	"fmt"
	"image"
	"os"

	// Register decoders for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"asset-registry/internal/diagnostic"
)

// Size is an image's pixel width and height.
type Size struct {
	Width  int
	Height int
}

// Prober returns the pixel size of an image file.
type Prober interface {
	Probe(path string) (Size, error)
}

// Func adapts a function to the Prober interface.
type Func func(path string) (Size, error)

// Probe implements Prober.
func (f Func) Probe(path string) (Size, error) {
	return f(path)
}

// Header probes images by decoding their header with image.DecodeConfig.
type Header struct{}

// Probe implements Prober. Unreadable files and unknown or corrupt headers
// are reported as diagnostic.ErrProbe.
func (Header) Probe(path string) (Size, error) {
	f, err := os.Open(path)
	if err != nil {
		return Size{}, diagnostic.Probef(err, path)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Size{}, diagnostic.Probef(err, path)
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Size{}, diagnostic.Probef(fmt.Errorf("%s header reports %dx%d", format, cfg.Width, cfg.Height), path)
	}

	return Size{Width: cfg.Width, Height: cfg.Height}, nil
}
