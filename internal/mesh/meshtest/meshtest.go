// Package meshtest builds small mesh snapshots for tests.
package meshtest

import (
	"i3d-lightbake/internal/lighttype"
	"i3d-lightbake/internal/mathutil"
	"i3d-lightbake/internal/mesh"
)

// UnitSquare is the primary-UV square in loop order.
var UnitSquare = []mathutil.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// Offset returns uvs translated by (du, dv).
func Offset(uvs []mathutil.Vec2, du, dv float64) []mathutil.Vec2 {
	out := make([]mathutil.Vec2, len(uvs))
	for i, uv := range uvs {
		out[i] = mathutil.Vec2{uv[0] + du, uv[1] + dv}
	}
	return out
}

// LightMaterial returns a material tagged with id and all exporter props set.
func LightMaterial(name string, id lighttype.ID) mesh.Material {
	props := map[string]string{}
	lighttype.ApplyRequiredProps(props, id)
	return mesh.Material{Name: name, Props: props}
}

// Quad returns a one-quad mesh with the given per-loop UVs and colors,
// assigned to a single material slot tagged with id.
func Quad(id lighttype.ID, uv0, uv1 []mathutil.Vec2, colors []mathutil.Color) mesh.Mesh {
	m := mesh.Mesh{
		Name:      "Quad",
		UVLayers:  []mesh.UVLayer{{Name: "UVMap", UV: uv0}},
		Colors:    colors,
		Polygons:  []mesh.Polygon{{Material: 0, Loops: []int{0, 1, 2, 3}}},
		Materials: []mesh.Material{LightMaterial("Light_"+string(id), id)},
	}
	if uv1 != nil {
		m.UVLayers = append(m.UVLayers, mesh.UVLayer{Name: mesh.SecondaryUVName, UV: uv1})
	}
	return m
}

// GradientColors colors the unit square loops with c = (u, v, 0.5, 1), which
// triangle interpolation reproduces exactly.
var GradientColors = []mathutil.Color{
	{0, 0, 0.5, 1},
	{1, 0, 0.5, 1},
	{1, 1, 0.5, 1},
	{0, 1, 0.5, 1},
}

// TurnLeftQuad is the canonical passing quad: UV0 is the unit square and
// UV1 is the unit square shifted into tile (6,0).
func TurnLeftQuad() mesh.Mesh {
	colors := make([]mathutil.Color, len(GradientColors))
	copy(colors, GradientColors)
	return Quad(lighttype.TurnLeft, UnitSquare, Offset(UnitSquare, 6, 0), colors)
}
