package mathutil

import "math"

// Output texture limits.
const (
	MinTextureSize = 32
	MaxTextureSize = 2048
)

// IsPowerOfTwo reports whether x is a positive power of two.
func IsPowerOfTwo(x int) bool {
	return x > 0 && x&(x-1) == 0
}

// NextPowerOfTwo returns the smallest power of two >= x, clamped to [lo, hi].
func NextPowerOfTwo(x, lo, hi int) int {
	if x < lo {
		x = lo
	}
	p := 1
	for p < x {
		p <<= 1
	}
	if p > hi {
		return hi
	}
	return p
}

// PlanDimensions converts a UV extent and a resolution budget into a
// power-of-two width and height. The larger axis receives the full budget.
func PlanDimensions(du, dv float64, tileResolution int) (width, height int) {
	du = math.Max(MinExtent, du)
	dv = math.Max(MinExtent, dv)
	maxExtent := math.Max(du, dv)
	targetW := int(math.Round(float64(tileResolution) * du / maxExtent))
	targetH := int(math.Round(float64(tileResolution) * dv / maxExtent))
	width = NextPowerOfTwo(targetW, MinTextureSize, MaxTextureSize)
	height = NextPowerOfTwo(targetH, MinTextureSize, MaxTextureSize)
	return width, height
}
