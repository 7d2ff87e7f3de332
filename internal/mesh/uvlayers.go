package mesh

import "i3d-lightbake/internal/mathutil"

// LegacySecondaryUVName is the older name of the function-tile UV layer.
// EnsureLightUVLayers renames it to SecondaryUVName.
const LegacySecondaryUVName = "UVMap_LightSecondary"

// EnsureLightUVLayers makes m carry a primary UV layer and a secondary
// layer named SecondaryUVName at index 1, and returns both. A missing
// primary is created as "UVMap" at the origin; a missing secondary starts
// as a copy of the primary. Both layers are padded to cover every loop.
func (m *Mesh) EnsureLightUVLayers() (uv0, uv1 *UVLayer) {
	n := m.loopSpan()
	if len(m.UVLayers) == 0 {
		m.UVLayers = append(m.UVLayers, UVLayer{Name: "UVMap"})
	}

	idx := m.layerIndex(SecondaryUVName)
	if idx < 1 {
		idx = m.layerIndex(LegacySecondaryUVName)
		if idx >= 1 {
			m.UVLayers[idx].Name = SecondaryUVName
		}
	}
	if idx < 1 {
		uv := make([]mathutil.Vec2, len(m.UVLayers[0].UV))
		copy(uv, m.UVLayers[0].UV)
		m.UVLayers = append(m.UVLayers, UVLayer{Name: SecondaryUVName, UV: uv})
		idx = len(m.UVLayers) - 1
	}
	if idx != 1 {
		layer := m.UVLayers[idx]
		copy(m.UVLayers[2:idx+1], m.UVLayers[1:idx])
		m.UVLayers[1] = layer
	}

	for i := 0; i < 2; i++ {
		if l := &m.UVLayers[i]; len(l.UV) < n {
			l.UV = append(l.UV, make([]mathutil.Vec2, n-len(l.UV))...)
		}
	}
	return &m.UVLayers[0], &m.UVLayers[1]
}

func (m *Mesh) layerIndex(name string) int {
	for i, l := range m.UVLayers {
		if l.Name == name {
			return i
		}
	}
	return -1
}

// loopSpan is one past the largest loop index referenced by a polygon.
func (m *Mesh) loopSpan() int {
	n := 0
	for _, p := range m.Polygons {
		for _, l := range p.Loops {
			if l+1 > n {
				n = l + 1
			}
		}
	}
	return n
}
