package mathutil

import "math"

// Vec2 is a 2-component vector used for UV coordinates.
type Vec2 [2]float64

func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a[0] + b[0], a[1] + b[1]}
}

func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a[0] - b[0], a[1] - b[1]}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v[0] * s, v[1] * s}
}

// Cross returns the z component of the 3D cross product of a and b.
func (a Vec2) Cross(b Vec2) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

// Centroid returns the average of the given points.
func Centroid(pts ...Vec2) Vec2 {
	if len(pts) == 0 {
		return Vec2{}
	}
	var c Vec2
	for _, p := range pts {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(pts)))
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Color is a linear RGBA color with components in [0,1].
type Color [4]float64

// White is the color assumed for loops without a color attribute.
var White = Color{1, 1, 1, 1}

// Luma returns the Rec. 709 luminance of the RGB channels.
func (c Color) Luma() float64 {
	return 0.2126*c[0] + 0.7152*c[1] + 0.0722*c[2]
}

// Lerp3 weights three colors by barycentric weights.
func Lerp3(a, b, c Color, w0, w1, w2 float64) Color {
	return Color{
		a[0]*w0 + b[0]*w1 + c[0]*w2,
		a[1]*w0 + b[1]*w1 + c[1]*w2,
		a[2]*w0 + b[2]*w1 + c[2]*w2,
		a[3]*w0 + b[3]*w1 + c[3]*w2,
	}
}
