package mesh

import (
	"i3d-lightbake/internal/lighttype"
	"i3d-lightbake/internal/mathutil"
)

// LightSlots returns the light type of every material slot tagged with one.
func (m *Mesh) LightSlots() map[int]lighttype.ID {
	out := make(map[int]lighttype.ID)
	for i, mat := range m.Materials {
		if id, ok := lighttype.Resolve(mat.Props); ok {
			out[i] = id
		}
	}
	return out
}

// Scan triangulates every polygon whose material carries a light type and
// returns the triangle records. Polygons are split as fans around their first
// loop. Triangles referencing loops outside the primary UV layer are dropped.
func Scan(m *Mesh) ([]Triangle, error) {
	uv0 := m.Primary()
	if uv0 == nil {
		return nil, ErrNoUVLayer
	}
	uv1 := m.Secondary()
	slots := m.LightSlots()

	var tris []Triangle
	for _, p := range m.Polygons {
		id, ok := slots[p.Material]
		if !ok || len(p.Loops) < 3 {
			continue
		}
		fallback := lighttype.DefaultColor(id)
		for k := 1; k+1 < len(p.Loops); k++ {
			li := [3]int{p.Loops[0], p.Loops[k], p.Loops[k+1]}
			tri := Triangle{
				Mesh:     m.Name,
				Material: m.Materials[p.Material].Name,
				Slot:     p.Material,
			}
			valid := true
			for c, l := range li {
				if l < 0 || l >= len(uv0.UV) {
					valid = false
					break
				}
				v := Vertex{UV0: uv0.UV[l], Color: fallback}
				if uv1 != nil && l < len(uv1.UV) {
					v.UV1 = uv1.UV[l]
				}
				if l < len(m.Colors) {
					v.Color = m.Colors[l]
				}
				tri.V[c] = v
			}
			if valid {
				tris = append(tris, tri)
			}
		}
	}
	return tris, nil
}

// PrimaryBounds reduces triangles to the rectangle of their primary UVs.
func PrimaryBounds(tris []Triangle) (mathutil.UVRect, bool) {
	return mathutil.BoundsOf(func(yield func(mathutil.Vec2)) {
		for _, t := range tris {
			for _, v := range t.V {
				yield(v.UV0)
			}
		}
	})
}
