package udim

import (
	"i3d-lightbake/internal/lighttype"
	"i3d-lightbake/internal/mathutil"
	"i3d-lightbake/internal/mesh"
)

// shiftInset keeps shifted UVs off the far tile border.
const shiftInset = 1e-6

// ShiftToTile sets UV1 = UV0 + tile(id) on every loop of the faces in slot,
// clamped inside the tile. UV0 is left alone; the secondary UV layer is
// created or moved to index 1 when needed. It returns the number of faces
// shifted, which is zero for an unknown light type or an empty slot.
func ShiftToTile(m *mesh.Mesh, slot int, id lighttype.ID) int {
	tile, ok := lighttype.Tile(id)
	if !ok {
		return 0
	}
	polys := m.SlotPolygons(slot)
	if len(polys) == 0 {
		return 0
	}

	uv0, uv1 := m.EnsureLightUVLayers()
	x, y := float64(tile.X), float64(tile.Y)
	for _, p := range polys {
		for _, l := range p.Loops {
			if l < 0 {
				continue
			}
			src := uv0.UV[l]
			uv1.UV[l] = mathutil.Vec2{
				mathutil.Clamp(src[0]+x, x, x+1-shiftInset),
				mathutil.Clamp(src[1]+y, y, y+1-shiftInset),
			}
		}
	}
	return len(polys)
}

// Fix shifts UV1 into place for every light slot of m whose UV1 is missing
// or outside its tile, and returns the number of faces shifted. Memo
// entries for m are dropped when anything changed.
func Fix(m *mesh.Mesh, opts Options) int {
	n := 0
	for _, res := range ValidateMesh(m, opts) {
		if res.UV1Misplaced {
			n += ShiftToTile(m, res.Slot, res.LightType)
		}
	}
	if n > 0 && opts.Memo != nil {
		opts.Memo.Invalidate(m.Name)
	}
	return n
}
