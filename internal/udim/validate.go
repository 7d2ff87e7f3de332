// Package udim checks that light materials place their function UVs inside
// the UDIM tile their light type expects.
package udim

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"i3d-lightbake/internal/lighttype"
	"i3d-lightbake/internal/mathutil"
	"i3d-lightbake/internal/mesh"
	"i3d-lightbake/internal/texture"
)

// Epsilon is the tolerance applied to tile borders.
const Epsilon = 1e-5

// Options controls validation.
type Options struct {
	Epsilon float64 // Epsilon when zero

	// SkipExporterProps disables the customShader/variation/shadingRate checks.
	SkipExporterProps bool
	// RequireIntensity fails slots without customTexture_lightsIntensity.
	RequireIntensity bool
	// SearchDirs resolve relative intensity texture paths, in order.
	SearchDirs []string

	Memo  *Memo
	Infos *texture.InfoCache
}

func (o *Options) eps() float64 {
	if o.Epsilon > 0 {
		return o.Epsilon
	}
	return Epsilon
}

// SlotResult is the verdict for one material slot.
type SlotResult struct {
	Mesh         string          `json:"mesh" yaml:"mesh"`
	Material     string          `json:"material" yaml:"material"`
	Slot         int             `json:"slot" yaml:"slot"`
	LightType    lighttype.ID    `json:"light_type" yaml:"light_type"`
	ExpectedTile *mathutil.Tile  `json:"expected_tile,omitempty" yaml:"expected_tile,omitempty"`
	UV0Tiles     []mathutil.Tile `json:"uv0_tiles,omitempty" yaml:"uv0_tiles,omitempty"`
	UV1Tiles     []mathutil.Tile `json:"uv1_tiles,omitempty" yaml:"uv1_tiles,omitempty"`
	Pass         bool            `json:"pass" yaml:"pass"`
	Reasons      []string        `json:"reasons,omitempty" yaml:"reasons,omitempty"`
	Warnings     []string        `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// UV1Misplaced is set when UV1 is missing or outside the expected tile,
	// which ShiftToTile repairs.
	UV1Misplaced bool `json:"-" yaml:"-"`
}

// geometry is the memoizable part of a slot verdict.
type geometry struct {
	uv0Tiles  []mathutil.Tile
	uv1Tiles  []mathutil.Tile
	reasons   []string
	warnings  []string
	fatal     bool
	misplaced bool
}

// ValidateSlot checks one material slot of m against light type id.
func ValidateSlot(m *mesh.Mesh, slot int, id lighttype.ID, opts Options) SlotResult {
	res := SlotResult{Mesh: m.Name, Slot: slot, LightType: id}
	if slot >= 0 && slot < len(m.Materials) {
		res.Material = m.Materials[slot].Name
	}
	if tile, ok := lighttype.Tile(id); ok {
		res.ExpectedTile = &tile
	}

	var g geometry
	if opts.Memo != nil {
		g = opts.Memo.geometry(m, slot, id, opts.eps(), func() geometry { return checkGeometry(m, slot, id, opts.eps()) })
	} else {
		g = checkGeometry(m, slot, id, opts.eps())
	}
	res.UV0Tiles = g.uv0Tiles
	res.UV1Tiles = g.uv1Tiles
	res.Reasons = append(res.Reasons, g.reasons...)
	res.Warnings = append(res.Warnings, g.warnings...)
	res.UV1Misplaced = g.misplaced

	if !g.fatal && slot >= 0 && slot < len(m.Materials) {
		props := m.Materials[slot].Props
		if lighttype.IsTurnSignal(id) {
			res.Reasons = append(res.Reasons, checkBitmask(props)...)
		}
		if !opts.SkipExporterProps {
			res.Reasons = append(res.Reasons, checkExporterProps(props)...)
		}
		r, w := checkIntensity(props, opts)
		res.Reasons = append(res.Reasons, r...)
		res.Warnings = append(res.Warnings, w...)
	}

	res.Pass = len(res.Reasons) == 0
	return res
}

// ValidateMesh validates every light-tagged slot of m in slot order.
func ValidateMesh(m *mesh.Mesh, opts Options) []SlotResult {
	slots := m.LightSlots()
	order := make([]int, 0, len(slots))
	for s := range slots {
		order = append(order, s)
	}
	sort.Ints(order)

	out := make([]SlotResult, 0, len(order))
	for _, s := range order {
		out = append(out, ValidateSlot(m, s, slots[s], opts))
	}
	return out
}

// Validate validates all meshes and collects the verdicts into a report.
func Validate(meshes []mesh.Mesh, opts Options) *Report {
	r := &Report{}
	for i := range meshes {
		r.Results = append(r.Results, ValidateMesh(&meshes[i], opts)...)
	}
	return r
}

func checkGeometry(m *mesh.Mesh, slot int, id lighttype.ID, eps float64) geometry {
	var g geometry

	uv0 := m.Primary()
	if uv0 == nil {
		g.reasons = append(g.reasons, "UV0 missing (no UV layers exist)")
		g.fatal = true
		return g
	}
	polys := m.SlotPolygons(slot)
	if len(polys) == 0 {
		g.reasons = append(g.reasons, "No faces use this material slot")
		g.fatal = true
		return g
	}

	uv0Tiles := tileSet{}
	inside0 := true
	badLoops := 0
	origin := mathutil.Tile{}
	for _, p := range polys {
		pts, ok := loopPoints(uv0, p.Loops)
		if !ok {
			badLoops++
			continue
		}
		c := mathutil.Centroid(pts...)
		for _, pt := range pts {
			uv0Tiles.add(tileOf(pt, c, eps))
			if !origin.Contains(pt, eps) {
				inside0 = false
			}
		}
	}
	if badLoops > 0 {
		g.reasons = append(g.reasons, fmt.Sprintf("%d face(s) reference loops missing from UV layer '%s'", badLoops, uv0.Name))
	}
	if !inside0 {
		g.reasons = append(g.reasons, "UV0 not fully inside tile (0,0) (0..1 required for LightIntensity)")
	}
	g.uv0Tiles = uv0Tiles.sorted()

	expected, known := lighttype.Tile(id)
	if !known {
		g.reasons = append(g.reasons, "Unknown light type (no expected UDIM tile mapping)")
		return g
	}

	uv1 := m.Secondary()
	if uv1 == nil {
		g.reasons = append(g.reasons, fmt.Sprintf("UV1 missing (need second UV layer '%s')", mesh.SecondaryUVName))
		g.misplaced = true
		return g
	}
	if uv1.Name != mesh.SecondaryUVName {
		g.warnings = append(g.warnings, fmt.Sprintf("UV1 should be named '%s' (found '%s')", mesh.SecondaryUVName, uv1.Name))
	}

	uv1Tiles := tileSet{}
	inside1 := true
	for _, p := range polys {
		pts, ok := loopPoints(uv1, p.Loops)
		if !ok {
			inside1 = false
			continue
		}
		c := mathutil.Centroid(pts...)
		for _, pt := range pts {
			uv1Tiles.add(tileOf(pt, c, eps))
			if !expected.Contains(pt, eps) {
				inside1 = false
			}
		}
	}
	g.uv1Tiles = uv1Tiles.sorted()
	g.misplaced = !inside1 || len(g.uv1Tiles) > 1
	if !inside1 {
		g.reasons = append(g.reasons, fmt.Sprintf("UV1 (%s) not fully inside required UDIM tile %s", uv1.Name, expected))
	}
	if len(g.uv1Tiles) > 1 {
		g.reasons = append(g.reasons, fmt.Sprintf("UV1 (%s) ambiguous tile: faces span %s", uv1.Name, formatTiles(g.uv1Tiles)))
	}
	return g
}

func loopPoints(layer *mesh.UVLayer, loops []int) ([]mathutil.Vec2, bool) {
	pts := make([]mathutil.Vec2, 0, len(loops))
	for _, l := range loops {
		if l < 0 || l >= len(layer.UV) {
			return nil, false
		}
		pts = append(pts, layer.UV[l])
	}
	return pts, len(pts) > 0
}

// tileOf returns the tile of p. A coordinate lying on a tile border takes
// the tile of its face centroid on that axis.
func tileOf(p, centroid mathutil.Vec2, eps float64) mathutil.Tile {
	axis := func(v, c float64) int {
		if math.Abs(v-math.Round(v)) <= eps {
			return int(math.Floor(c))
		}
		return int(math.Floor(v))
	}
	return mathutil.Tile{X: axis(p[0], centroid[0]), Y: axis(p[1], centroid[1])}
}

type tileSet map[mathutil.Tile]struct{}

func (s tileSet) add(t mathutil.Tile) { s[t] = struct{}{} }

func (s tileSet) sorted() []mathutil.Tile {
	if len(s) == 0 {
		return nil
	}
	out := make([]mathutil.Tile, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

func formatTiles(tiles []mathutil.Tile) string {
	parts := make([]string, len(tiles))
	for i, t := range tiles {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

func checkBitmask(props map[string]string) []string {
	raw, ok := props[lighttype.PropBitmask]
	want := lighttype.FormatTurnSignalBitmask()
	if !ok || strings.TrimSpace(raw) == "" {
		return []string{fmt.Sprintf("Missing %s (turn signals need \"%s\")", lighttype.PropBitmask, want)}
	}
	if !lighttype.IsTurnSignalBitmask(raw) {
		return []string{fmt.Sprintf("%s must be \"%s\" (found \"%s\")", lighttype.PropBitmask, want, raw)}
	}
	return nil
}

func checkExporterProps(props map[string]string) []string {
	var reasons []string
	for _, key := range []string{lighttype.PropCustomShader, lighttype.PropShaderVariation, lighttype.PropShadingRate} {
		want := lighttype.RequiredProps()[key]
		got, ok := props[key]
		switch {
		case !ok:
			reasons = append(reasons, fmt.Sprintf("Missing %s (expected '%s')", key, want))
		case got != want:
			reasons = append(reasons, fmt.Sprintf("%s must be '%s' (found '%s')", key, want, got))
		}
	}
	return reasons
}

func checkIntensity(props map[string]string, opts Options) (reasons, warnings []string) {
	value := strings.TrimSpace(props[lighttype.PropIntensity])
	if value == "" {
		if opts.RequireIntensity {
			reasons = append(reasons, fmt.Sprintf("Missing %s (bake a LightIntensity texture first)", lighttype.PropIntensity))
		}
		return reasons, nil
	}
	if texture.IsEngineReference(value) {
		return nil, nil
	}

	path, ok := texture.ResolveIntensityPath(value, opts.SearchDirs...)
	if !ok {
		return []string{fmt.Sprintf("%s file not found: %s", lighttype.PropIntensity, value)}, nil
	}
	if !strings.EqualFold(filepath.Ext(path), ".dds") {
		return nil, nil
	}

	infos := opts.Infos
	if infos == nil {
		infos = texture.NewInfoCache()
	}
	info, ok := infos.Inspect(path)
	if !ok {
		return nil, []string{fmt.Sprintf("cannot read DDS header of %s; power-of-two not confirmed", value)}
	}
	if !info.PowerOfTwo() {
		reasons = append(reasons, fmt.Sprintf("LightIntensity DDS must be power-of-two (found %dx%d)", info.Width, info.Height))
	}
	return reasons, nil
}
