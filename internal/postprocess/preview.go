package postprocess

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"i3d-lightbake/internal/mathutil"
	"i3d-lightbake/internal/raster"
)

// Preview renders buf for viewing with its longer side scaled to size and
// the aspect ratio kept. Enlarging uses nearest neighbor so texels stay
// visible. Shrinking filters premultiplied 16-bit colors with CatmullRom so
// unwritten texels do not darken the edges. A non-positive size keeps the
// texture size.
func Preview(buf *raster.Buffer, size int) *image.NRGBA {
	w, h := previewSize(buf.Width, buf.Height, size)
	if w == buf.Width && h == buf.Height {
		return buf.ToNRGBA()
	}
	dst := image.Rect(0, 0, w, h)
	if w >= buf.Width && h >= buf.Height {
		src := buf.ToNRGBA()
		out := image.NewNRGBA(dst)
		draw.NearestNeighbor.Scale(out, dst, src, src.Bounds(), draw.Src, nil)
		return out
	}

	src := premultiplied(buf)
	scaled := image.NewRGBA64(dst)
	draw.CatmullRom.Scale(scaled, dst, src, src.Bounds(), draw.Src, nil)

	out := image.NewNRGBA(dst)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := scaled.RGBA64At(x, y)
			if c.A == 0 {
				continue
			}
			a := float64(c.A)
			out.SetNRGBA(x, y, color.NRGBA{
				R: raster.ToByte(float64(c.R) / a),
				G: raster.ToByte(float64(c.G) / a),
				B: raster.ToByte(float64(c.B) / a),
				A: raster.ToByte(a / 0xffff),
			})
		}
	}
	return out
}

// previewSize fits w x h into a size x size box, at least one pixel wide.
func previewSize(w, h, size int) (int, int) {
	if size <= 0 || w <= 0 || h <= 0 {
		return w, h
	}
	if w >= h {
		return size, max(1, int(math.Round(float64(h)*float64(size)/float64(w))))
	}
	return max(1, int(math.Round(float64(w)*float64(size)/float64(h)))), size
}

func premultiplied(buf *raster.Buffer) *image.RGBA64 {
	img := image.NewRGBA64(image.Rect(0, 0, buf.Width, buf.Height))
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			c := buf.At(x, y)
			a := mathutil.Clamp(c[3], 0, 1)
			img.SetRGBA64(x, y, color.RGBA64{
				R: to16(c[0] * a),
				G: to16(c[1] * a),
				B: to16(c[2] * a),
				A: to16(a),
			})
		}
	}
	return img
}

func to16(v float64) uint16 {
	return uint16(mathutil.Clamp(v, 0, 1)*0xffff + 0.5)
}
