package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// ImageFormat names an 8-bit image file format.
type ImageFormat string

const (
	PNG  ImageFormat = "png"
	TGA  ImageFormat = "tga"
	BMP  ImageFormat = "bmp"
	WebP ImageFormat = "webp"
)

// Ext returns the file extension including the dot.
func (f ImageFormat) Ext() string {
	return "." + string(f)
}

// ParseImageFormat accepts a format name or extension, case-insensitively.
func ParseImageFormat(s string) (ImageFormat, error) {
	f := ImageFormat(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	switch f {
	case PNG, TGA, BMP, WebP:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrImageFormat, s)
}

// IsIntermediate reports whether the compressor accepts f as input.
func (f ImageFormat) IsIntermediate() bool {
	return f == PNG || f == TGA || f == BMP
}

// EncodeImage writes img to w in format f.
func EncodeImage(w io.Writer, img image.Image, f ImageFormat) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case TGA:
		return tga.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	case WebP:
		return nativewebp.Encode(w, img, nil)
	}
	return fmt.Errorf("%w: %q", ErrImageFormat, f)
}

// WriteImage encodes img to path in format f.
func WriteImage(path string, img image.Image, f ImageFormat) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("texture: create dir for %s: %w", path, err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("texture: create %s: %w", path, err)
	}
	if err := EncodeImage(out, img, f); err != nil {
		out.Close()
		return fmt.Errorf("texture: encode %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("texture: close %s: %w", path, err)
	}
	return nil
}

// LoadImage reads a PNG, TGA or BMP file and returns it as NRGBA.
func LoadImage(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}
	f, err := ParseImageFormat(filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("texture: %s: %w", path, err)
	}

	var img image.Image
	switch f {
	case PNG:
		img, err = png.Decode(bytes.NewReader(raw))
	case TGA:
		img, err = tga.Decode(bytes.NewReader(raw))
	case BMP:
		img, err = bmp.Decode(bytes.NewReader(raw))
	default:
		return nil, fmt.Errorf("texture: %s: %w: %q", path, ErrImageFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return toNRGBA(img), nil
}

// toNRGBA converts any image to NRGBA format.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
