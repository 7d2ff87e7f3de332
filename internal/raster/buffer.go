package raster

import (
	"image"

	"i3d-lightbake/internal/mathutil"
)

// Buffer is a float RGBA raster, row-major with row 0 at the top of the
// texture (the maximum V of the baked UV rectangle).
type Buffer struct {
	Width  int
	Height int
	Pix    []float64 // RGBA interleaved, len = W*H*4, initialized to 0

	owner []int32 // writer id per pixel, 0 = unwritten
}

// NewBuffer allocates a zeroed buffer.
func NewBuffer(w, h int) *Buffer {
	n := w * h
	return &Buffer{
		Width:  w,
		Height: h,
		Pix:    make([]float64, n*4),
		owner:  make([]int32, n),
	}
}

// At returns the color at pixel (x, y).
func (b *Buffer) At(x, y int) mathutil.Color {
	i := (y*b.Width + x) * 4
	return mathutil.Color{b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]}
}

// Set stores c at pixel (x, y).
func (b *Buffer) Set(x, y int, c mathutil.Color) {
	i := (y*b.Width + x) * 4
	b.Pix[i] = c[0]
	b.Pix[i+1] = c[1]
	b.Pix[i+2] = c[2]
	b.Pix[i+3] = c[3]
}

// Written reports whether any triangle covered pixel (x, y).
func (b *Buffer) Written(x, y int) bool {
	return b.owner[y*b.Width+x] != 0
}

// ToByte converts a [0,1] channel to [0,255] with rounding.
func ToByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// ToNRGBA converts the buffer to an 8-bit image with the same row order.
func (b *Buffer) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for i, v := range b.Pix {
		img.Pix[i] = ToByte(v)
	}
	return img
}
