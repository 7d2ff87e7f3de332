package mesh

import "i3d-lightbake/internal/mathutil"

// Document is a snapshot of one or more meshes exported from the host editor.
type Document struct {
	Meshes []Mesh `json:"meshes" yaml:"meshes"`
}

// Mesh holds per-loop attributes for one mesh object. Loop indices in
// Polygons index into every UVLayer and into Colors.
type Mesh struct {
	Name      string           `json:"name" yaml:"name"`
	UVLayers  []UVLayer        `json:"uv_layers" yaml:"uv_layers"`
	Colors    []mathutil.Color `json:"colors,omitempty" yaml:"colors,omitempty"`
	Polygons  []Polygon        `json:"polygons" yaml:"polygons"`
	Materials []Material       `json:"materials" yaml:"materials"`
}

// UVLayer is one named UV map. UV[i] belongs to loop i.
type UVLayer struct {
	Name string          `json:"name" yaml:"name"`
	UV   []mathutil.Vec2 `json:"uv" yaml:"uv"`
}

// Polygon is a face with its material slot and ordered loop indices.
type Polygon struct {
	Material int   `json:"material" yaml:"material"`
	Loops    []int `json:"loops" yaml:"loops"`
}

// Material is a material slot with its custom string properties.
type Material struct {
	Name  string            `json:"name" yaml:"name"`
	Props map[string]string `json:"props,omitempty" yaml:"props,omitempty"`
}

// Vertex is one triangle corner.
type Vertex struct {
	UV0   mathutil.Vec2
	UV1   mathutil.Vec2
	Color mathutil.Color
}

// Triangle is a scanned light-material triangle.
type Triangle struct {
	V        [3]Vertex
	Mesh     string
	Material string
	Slot     int
	// Source is the index of the mesh in the bake input.
	Source int
}

// SecondaryUVName is the canonical name of the function-tile UV layer.
const SecondaryUVName = "UVMap2"

// Primary returns the first UV layer, or nil.
func (m *Mesh) Primary() *UVLayer {
	if len(m.UVLayers) == 0 {
		return nil
	}
	return &m.UVLayers[0]
}

// Secondary returns the UV layer at index 1, or nil.
func (m *Mesh) Secondary() *UVLayer {
	if len(m.UVLayers) < 2 {
		return nil
	}
	return &m.UVLayers[1]
}

// SlotPolygons returns the polygons assigned to material slot.
func (m *Mesh) SlotPolygons(slot int) []Polygon {
	var out []Polygon
	for _, p := range m.Polygons {
		if p.Material == slot {
			out = append(out, p)
		}
	}
	return out
}

// LoopCount returns the number of loops referenced by polygons.
func (m *Mesh) LoopCount() int {
	n := 0
	for _, p := range m.Polygons {
		n += len(p.Loops)
	}
	return n
}

// Refs returns pointers to the document's meshes.
func (d *Document) Refs() []*Mesh {
	out := make([]*Mesh, len(d.Meshes))
	for i := range d.Meshes {
		out[i] = &d.Meshes[i]
	}
	return out
}
