// Package capture saves rendered frames as image files.
package capture

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// Format is the image file format of captured frames.
type Format int

const (
	FormatPNG Format = iota
	FormatBMP
)

// ParseFormat converts a format name. Empty selects PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "png":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	default:
		return FormatPNG, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	if f == FormatBMP {
		return ".bmp"
	}
	return ".png"
}

func (f Format) encode(w io.Writer, img image.Image) error {
	if f == FormatBMP {
		return bmp.Encode(w, img)
	}
	return png.Encode(w, img)
}

// PixelSource provides the last rendered frame as bottom-up RGBA rows.
type PixelSource interface {
	ReadPixels() (pixels []byte, width, height int)
}

// Capture writes frames read from a PixelSource into a directory.
type Capture struct {
	source    PixelSource
	outputDir string
	format    Format
}

// New creates a capture writing into outputDir.
func New(source PixelSource, outputDir string, format Format) *Capture {
	return &Capture{
		source:    source,
		outputDir: outputDir,
		format:    format,
	}
}

// CaptureFrame reads the current frame and saves it under a file name
// derived from name. It returns the path written.
func (c *Capture) CaptureFrame(name string) (string, error) {
	pixels, width, height := c.source.ReadPixels()
	img, err := FromPixels(pixels, width, height)
	if err != nil {
		return "", err
	}

	if c.outputDir != "" {
		if err := os.MkdirAll(c.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}
	path := filepath.Join(c.outputDir, FileName(name)+c.format.Ext())

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := c.format.encode(file, img); err != nil {
		return "", fmt.Errorf("encoding %s: %w", strings.TrimPrefix(c.format.Ext(), "."), err)
	}
	return path, file.Close()
}

// FromPixels builds an image from bottom-up RGBA rows, flipping it so the
// first row is the top of the frame.
func FromPixels(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return nil, fmt.Errorf("%w: %dx%d with %d bytes", ErrPixelSize, width, height, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}

// FileName turns a benchmark descriptor into a portable file name.
func FileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" {
		return "frame"
	}
	return name
}
