package mathutil

import "math"

// MinExtent replaces a zero or negative rectangle extent to avoid division by zero.
const MinExtent = 1e-9

// UVRect is an axis-aligned rectangle in primary-UV space.
type UVRect struct {
	MinU, MinV float64
	MaxU, MaxV float64
}

// EmptyRect returns a rectangle that any Extend call will replace.
func EmptyRect() UVRect {
	return UVRect{
		MinU: math.Inf(1), MinV: math.Inf(1),
		MaxU: math.Inf(-1), MaxV: math.Inf(-1),
	}
}

// Extend grows r to include p.
func (r *UVRect) Extend(p Vec2) {
	if p[0] < r.MinU {
		r.MinU = p[0]
	}
	if p[0] > r.MaxU {
		r.MaxU = p[0]
	}
	if p[1] < r.MinV {
		r.MinV = p[1]
	}
	if p[1] > r.MaxV {
		r.MaxV = p[1]
	}
}

// Empty reports whether no point has been added.
func (r UVRect) Empty() bool {
	return r.MaxU < r.MinU || r.MaxV < r.MinV
}

// Extent returns (du, dv), each at least MinExtent.
func (r UVRect) Extent() (du, dv float64) {
	du = math.Max(MinExtent, r.MaxU-r.MinU)
	dv = math.Max(MinExtent, r.MaxV-r.MinV)
	return du, dv
}

// Normalize maps p into [0,1] relative to r.
func (r UVRect) Normalize(p Vec2) Vec2 {
	du, dv := r.Extent()
	return Vec2{(p[0] - r.MinU) / du, (p[1] - r.MinV) / dv}
}

// BoundsOf accumulates the rectangle of all points yielded by each.
// ok is false when each yields nothing.
func BoundsOf(each func(yield func(Vec2))) (UVRect, bool) {
	r := EmptyRect()
	each(r.Extend)
	if r.Empty() {
		return UVRect{}, false
	}
	return r, true
}
