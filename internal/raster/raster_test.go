package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"i3d-lightbake/internal/lighttype"
	"i3d-lightbake/internal/mathutil"
	"i3d-lightbake/internal/mesh"
	"i3d-lightbake/internal/mesh/meshtest"
)

var unitRect = mathutil.UVRect{MinU: 0, MinV: 0, MaxU: 1, MaxV: 1}

func tri(material string, uvs [3]mathutil.Vec2, colors [3]mathutil.Color) mesh.Triangle {
	t := mesh.Triangle{Mesh: "m", Material: material}
	for i := range t.V {
		t.V[i] = mesh.Vertex{UV0: uvs[i], Color: colors[i]}
	}
	return t
}

func colorDelta(t *testing.T, want, got mathutil.Color, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "channel %d: want %v got %v", i, want, got)
	}
}

func TestCentroidIsAverage(t *testing.T) {
	uvs := [3]mathutil.Vec2{{0.1, 0.1}, {0.9, 0.2}, {0.4, 0.95}}
	colors := [3]mathutil.Color{{1, 0, 0, 1}, {0, 1, 0, 1}, {0, 0, 1, 1}}
	b := NewBuffer(256, 256)
	require.NoError(t, Rasterize(b, []mesh.Triangle{tri("a", uvs, colors)}, unitRect, Options{}))

	c := mathutil.Centroid(uvs[:]...)
	x, y := project(c, unitRect, b.Width, b.Height)
	got := b.At(int(x), int(y))
	colorDelta(t, mathutil.Color{1.0 / 3, 1.0 / 3, 1.0 / 3, 1}, got, 0.02)
}

func TestOutsidePixelsStayZero(t *testing.T) {
	uvs := [3]mathutil.Vec2{{0, 0}, {0.5, 0}, {0, 0.5}}
	white := mathutil.Color{1, 1, 1, 1}
	b := NewBuffer(64, 64)
	require.NoError(t, Rasterize(b, []mesh.Triangle{tri("a", uvs, [3]mathutil.Color{white, white, white})}, unitRect, Options{}))

	// top-right corner is far from the triangle in the lower-left
	assert.Equal(t, mathutil.Color{}, b.At(63, 0))
	assert.False(t, b.Written(63, 0))
	// bottom-left corner is inside
	colorDelta(t, white, b.At(1, 62), 1e-9)
	assert.True(t, b.Written(1, 62))
}

func TestVFlip(t *testing.T) {
	// triangle near V = 1 lands in the top rows
	uvs := [3]mathutil.Vec2{{0, 1}, {1, 1}, {0, 0.8}}
	white := mathutil.Color{1, 1, 1, 1}
	b := NewBuffer(32, 32)
	require.NoError(t, Rasterize(b, []mesh.Triangle{tri("a", uvs, [3]mathutil.Color{white, white, white})}, unitRect, Options{}))
	assert.True(t, b.Written(1, 0))
	assert.False(t, b.Written(1, 31))
}

func TestLuminanceMode(t *testing.T) {
	uvs := [3]mathutil.Vec2{{0, 0}, {1, 0}, {0, 1}}
	c := mathutil.Color{1, 0.5, 0, 0.25}
	b := NewBuffer(32, 32)
	require.NoError(t, Rasterize(b, []mesh.Triangle{tri("a", uvs, [3]mathutil.Color{c, c, c})}, unitRect, Options{Mode: Luminance}))

	l := 0.2126*1 + 0.7152*0.5
	colorDelta(t, mathutil.Color{l, l, l, 1}, b.At(2, 29), 1e-9)
}

func TestDirectModeWritesOpaqueAlpha(t *testing.T) {
	uvs := [3]mathutil.Vec2{{0, 0}, {1, 0}, {0, 1}}
	c := mathutil.Color{1, 1, 1, 0}
	b := NewBuffer(32, 32)
	require.NoError(t, Rasterize(b, []mesh.Triangle{tri("a", uvs, [3]mathutil.Color{c, c, c})}, unitRect, Options{}))

	colorDelta(t, mathutil.Color{1, 1, 1, 1}, b.At(2, 29), 1e-9)
}

func TestSameNamedMeshesAreDistinctOwners(t *testing.T) {
	uvs := [3]mathutil.Vec2{{0, 0}, {1, 0}, {0, 1}}
	white := mathutil.Color{1, 1, 1, 1}
	first := tri("a", uvs, [3]mathutil.Color{white, white, white})
	second := first
	second.Source = 1

	b := NewBuffer(32, 32)
	require.NoError(t, Rasterize(b, []mesh.Triangle{first, first}, unitRect, Options{}))

	b = NewBuffer(32, 32)
	err := Rasterize(b, []mesh.Triangle{first, second}, unitRect, Options{})
	assert.ErrorIs(t, err, ErrOverlap)
}

func TestDegenerateTriangleSkipped(t *testing.T) {
	uvs := [3]mathutil.Vec2{{0, 0}, {0.5, 0.5}, {1, 1}}
	white := mathutil.Color{1, 1, 1, 1}
	b := NewBuffer(32, 32)
	require.NoError(t, Rasterize(b, []mesh.Triangle{tri("a", uvs, [3]mathutil.Color{white, white, white})}, unitRect, Options{}))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			require.False(t, b.Written(x, y))
		}
	}
}

func TestOverlapPolicy(t *testing.T) {
	uvs := [3]mathutil.Vec2{{0, 0}, {1, 0}, {0, 1}}
	red := mathutil.Color{1, 0, 0, 1}
	blue := mathutil.Color{0, 0, 1, 1}
	tris := []mesh.Triangle{
		tri("a", uvs, [3]mathutil.Color{red, red, red}),
		tri("b", uvs, [3]mathutil.Color{blue, blue, blue}),
	}

	b := NewBuffer(32, 32)
	err := Rasterize(b, tris, unitRect, Options{})
	assert.ErrorIs(t, err, ErrOverlap)

	b = NewBuffer(32, 32)
	require.NoError(t, Rasterize(b, tris, unitRect, Options{Overlap: OverlapOverwrite}))
	colorDelta(t, blue, b.At(2, 29), 1e-9)
}

func TestAdjacentMaterialsDoNotConflict(t *testing.T) {
	white := mathutil.Color{1, 1, 1, 1}
	left := meshtest.Quad(lighttype.TurnLeft, []mathutil.Vec2{{0, 0}, {0.5, 0}, {0.5, 1}, {0, 1}}, nil, nil)
	right := meshtest.Quad(lighttype.TurnRight, []mathutil.Vec2{{0.5, 0}, {1, 0}, {1, 1}, {0.5, 1}}, nil, nil)
	right.Name = "Right"

	var tris []mesh.Triangle
	for i, m := range []*mesh.Mesh{&left, &right} {
		ts, err := mesh.Scan(m)
		require.NoError(t, err)
		for k := range ts {
			ts[k].Source = i
		}
		tris = append(tris, ts...)
	}
	for i := range tris {
		for k := range tris[i].V {
			tris[i].V[k].Color = white
		}
	}

	b := NewBuffer(256, 256)
	require.NoError(t, Rasterize(b, tris, unitRect, Options{}))
}

func TestTurnLeftQuadCenter(t *testing.T) {
	m := meshtest.TurnLeftQuad()
	tris, err := mesh.Scan(&m)
	require.NoError(t, err)
	rect, ok := mesh.PrimaryBounds(tris)
	require.True(t, ok)

	b := NewBuffer(256, 256)
	require.NoError(t, Rasterize(b, tris, rect, Options{}))
	colorDelta(t, mathutil.Color{0.5, 0.5, 0.5, 1}, b.At(128, 128), 0.01)
}

func TestToNRGBA(t *testing.T) {
	b := NewBuffer(2, 1)
	b.Set(0, 0, mathutil.Color{1, 0.5, 0, 1})
	img := b.ToNRGBA()
	assert.Equal(t, []uint8{255, 128, 0, 255, 0, 0, 0, 0}, img.Pix)
}
