package raster

import (
	"math"

	"i3d-lightbake/internal/mathutil"
	"i3d-lightbake/internal/mesh"
)

// Mode selects how interpolated vertex colors are stored.
type Mode int

const (
	// Direct stores the interpolated RGB color with alpha 1.
	Direct Mode = iota
	// Luminance stores Rec. 709 luma in R, G and B with alpha 1.
	Luminance
)

// maxNormalized keeps u == 1.0 from mapping outside the texture.
const maxNormalized = 0.999999

// areaEpsilon is the smallest signed pixel-space area that is rasterized.
const areaEpsilon = 1e-12

// edge is the signed parallelogram area of (a, b, c).
func edge(ax, ay, bx, by, cx, cy float64) float64 {
	return (cx-ax)*(by-ay) - (cy-ay)*(bx-ax)
}

// project maps a primary UV into pixel space. V is flipped so that the top
// texture row holds the largest V.
func project(uv mathutil.Vec2, rect mathutil.UVRect, w, h int) (x, y float64) {
	n := rect.Normalize(uv)
	nu := mathutil.Clamp(n[0], 0, maxNormalized)
	nv := mathutil.Clamp(n[1], 0, maxNormalized)
	return nu * float64(w-1), (1 - nv) * float64(h-1)
}

// RasterizeTriangle fills every pixel whose center lies inside tri or on its
// boundary. The callback is told whether the center lies on an edge and
// decides whether the write may happen; returning false stops rasterization
// and RasterizeTriangle reports false. Degenerate triangles are skipped.
func RasterizeTriangle(b *Buffer, tri *mesh.Triangle, rect mathutil.UVRect, mode Mode, write func(x, y int, onEdge bool) bool) bool {
	ax, ay := project(tri.V[0].UV0, rect, b.Width, b.Height)
	bx, by := project(tri.V[1].UV0, rect, b.Width, b.Height)
	cx, cy := project(tri.V[2].UV0, rect, b.Width, b.Height)

	area := edge(ax, ay, bx, by, cx, cy)
	if math.Abs(area) < areaEpsilon {
		return true
	}
	invArea := 1.0 / area

	minX := int(math.Max(0, math.Floor(math.Min(math.Min(ax, bx), cx))))
	maxX := int(math.Min(float64(b.Width-1), math.Ceil(math.Max(math.Max(ax, bx), cx))))
	minY := int(math.Max(0, math.Floor(math.Min(math.Min(ay, by), cy))))
	maxY := int(math.Min(float64(b.Height-1), math.Ceil(math.Max(math.Max(ay, by), cy))))

	ca, cb, cc := tri.V[0].Color, tri.V[1].Color, tri.V[2].Color

	for iy := minY; iy <= maxY; iy++ {
		py := float64(iy) + 0.5
		for ix := minX; ix <= maxX; ix++ {
			px := float64(ix) + 0.5
			w0 := edge(bx, by, cx, cy, px, py)
			w1 := edge(cx, cy, ax, ay, px, py)
			w2 := edge(ax, ay, bx, by, px, py)

			inside := (w0 >= 0 && w1 >= 0 && w2 >= 0) || (w0 <= 0 && w1 <= 0 && w2 <= 0)
			if !inside {
				continue
			}
			if !write(ix, iy, w0 == 0 || w1 == 0 || w2 == 0) {
				return false
			}
			b.Set(ix, iy, shade(mathutil.Lerp3(ca, cb, cc, w0*invArea, w1*invArea, w2*invArea), mode))
		}
	}
	return true
}

func shade(c mathutil.Color, mode Mode) mathutil.Color {
	if mode == Luminance {
		l := mathutil.Clamp(c.Luma(), 0, 1)
		return mathutil.Color{l, l, l, 1}
	}
	for i := 0; i < 3; i++ {
		c[i] = mathutil.Clamp(c[i], 0, 1)
	}
	c[3] = 1
	return c
}
