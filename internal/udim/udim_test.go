package udim

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"i3d-lightbake/internal/dds"
	"i3d-lightbake/internal/lighttype"
	"i3d-lightbake/internal/mathutil"
	"i3d-lightbake/internal/mesh"
	"i3d-lightbake/internal/mesh/meshtest"
	"i3d-lightbake/internal/raster"
)

func containsReason(reasons []string, sub string) bool {
	for _, r := range reasons {
		if strings.Contains(r, sub) {
			return true
		}
	}
	return false
}

func TestTurnLeftQuadPasses(t *testing.T) {
	m := meshtest.TurnLeftQuad()
	res := ValidateSlot(&m, 0, lighttype.TurnLeft, Options{})
	assert.True(t, res.Pass)
	assert.Empty(t, res.Reasons)
	assert.Empty(t, res.Warnings)
	require.NotNil(t, res.ExpectedTile)
	assert.Equal(t, mathutil.Tile{X: 6, Y: 0}, *res.ExpectedTile)
	assert.Equal(t, []mathutil.Tile{{X: 6, Y: 0}}, res.UV1Tiles)
	assert.Equal(t, []mathutil.Tile{{X: 0, Y: 0}}, res.UV0Tiles)
}

func TestSingleLoopOutsideTileFails(t *testing.T) {
	m := meshtest.TurnLeftQuad()
	m.UVLayers[1].UV[1] = mathutil.Vec2{7.5, 0}

	res := ValidateSlot(&m, 0, lighttype.TurnLeft, Options{})
	assert.False(t, res.Pass)
	assert.True(t, containsReason(res.Reasons, "tile (6, 0)"), res.Reasons)
}

func TestFacesSpanningTwoTilesAreAmbiguous(t *testing.T) {
	uv0 := append(append([]mathutil.Vec2{}, meshtest.UnitSquare...), meshtest.UnitSquare...)
	uv1 := append(meshtest.Offset(meshtest.UnitSquare, 6, 0), meshtest.Offset(meshtest.UnitSquare, 7, 0)...)
	m := mesh.Mesh{
		Name: "TwoQuads",
		UVLayers: []mesh.UVLayer{
			{Name: "UVMap", UV: uv0},
			{Name: mesh.SecondaryUVName, UV: uv1},
		},
		Polygons: []mesh.Polygon{
			{Material: 0, Loops: []int{0, 1, 2, 3}},
			{Material: 0, Loops: []int{4, 5, 6, 7}},
		},
		Materials: []mesh.Material{meshtest.LightMaterial("Signal", lighttype.TurnLeft)},
	}

	res := ValidateSlot(&m, 0, lighttype.TurnLeft, Options{})
	assert.False(t, res.Pass)
	assert.True(t, containsReason(res.Reasons, "ambiguous tile"), res.Reasons)
	assert.Equal(t, []mathutil.Tile{{X: 6, Y: 0}, {X: 7, Y: 0}}, res.UV1Tiles)
}

func TestStructuralFailures(t *testing.T) {
	m := meshtest.TurnLeftQuad()
	m.UVLayers = nil
	res := ValidateSlot(&m, 0, lighttype.TurnLeft, Options{})
	assert.False(t, res.Pass)
	assert.Equal(t, []string{"UV0 missing (no UV layers exist)"}, res.Reasons)

	m = meshtest.TurnLeftQuad()
	m.Polygons = nil
	res = ValidateSlot(&m, 0, lighttype.TurnLeft, Options{})
	assert.False(t, res.Pass)
	assert.Len(t, res.Reasons, 1)
}

func TestUVChecks(t *testing.T) {
	m := meshtest.TurnLeftQuad()
	m.UVLayers = m.UVLayers[:1]
	res := ValidateSlot(&m, 0, lighttype.TurnLeft, Options{})
	assert.Equal(t, []string{"UV1 missing (need second UV layer 'UVMap2')"}, res.Reasons)

	m = meshtest.TurnLeftQuad()
	m.UVLayers[0].UV[2] = mathutil.Vec2{1.2, 1}
	res = ValidateSlot(&m, 0, lighttype.TurnLeft, Options{})
	assert.Contains(t, res.Reasons, "UV0 not fully inside tile (0,0) (0..1 required for LightIntensity)")

	m = meshtest.TurnLeftQuad()
	m.UVLayers[0].UV[2] = mathutil.Vec2{1 + Epsilon/2, 1}
	res = ValidateSlot(&m, 0, lighttype.TurnLeft, Options{})
	assert.True(t, res.Pass, "within tolerance")

	m = meshtest.TurnLeftQuad()
	m.UVLayers[1].Name = "Lights"
	res = ValidateSlot(&m, 0, lighttype.TurnLeft, Options{})
	assert.True(t, res.Pass)
	assert.True(t, containsReason(res.Warnings, "'Lights'"))
}

func TestUnknownLightType(t *testing.T) {
	m := meshtest.TurnLeftQuad()
	res := ValidateSlot(&m, 0, lighttype.ID("99_LASER"), Options{})
	assert.False(t, res.Pass)
	assert.Nil(t, res.ExpectedTile)
	assert.Contains(t, res.Reasons, "Unknown light type (no expected UDIM tile mapping)")
}

func TestPropertyChecks(t *testing.T) {
	m := meshtest.TurnLeftQuad()
	delete(m.Materials[0].Props, lighttype.PropBitmask)
	res := ValidateSlot(&m, 0, lighttype.TurnLeft, Options{})
	assert.True(t, containsReason(res.Reasons, lighttype.PropBitmask))

	m.Materials[0].Props[lighttype.PropBitmask] = "20480.0 0.0"
	res = ValidateSlot(&m, 0, lighttype.TurnLeft, Options{})
	assert.True(t, containsReason(res.Reasons, "found \"20480.0 0.0\""))

	m.Materials[0].Props[lighttype.PropBitmask] = "20480, 0, 0, 0"
	m.Materials[0].Props[lighttype.PropShadingRate] = "2x2"
	delete(m.Materials[0].Props, lighttype.PropCustomShader)
	res = ValidateSlot(&m, 0, lighttype.TurnLeft, Options{})
	assert.Len(t, res.Reasons, 2)
	assert.True(t, containsReason(res.Reasons, "found '2x2'"))

	res = ValidateSlot(&m, 0, lighttype.TurnLeft, Options{SkipExporterProps: true})
	assert.True(t, res.Pass)
}

func TestIntensityTexture(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, dds.WriteUncompressed(filepath.Join(dir, "ok.dds"), raster.NewBuffer(64, 32)))
	require.NoError(t, dds.WriteUncompressed(filepath.Join(dir, "odd.dds"), raster.NewBuffer(48, 32)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.dds"), []byte("nope"), 0644))

	opts := Options{SearchDirs: []string{dir}}
	check := func(value string) SlotResult {
		m := meshtest.TurnLeftQuad()
		if value != "" {
			m.Materials[0].Props[lighttype.PropIntensity] = value
		}
		return ValidateSlot(&m, 0, lighttype.TurnLeft, opts)
	}

	assert.True(t, check("ok.dds").Pass)
	assert.True(t, check("$data/vehicles/shared/li.dds").Pass)
	assert.True(t, check("").Pass)

	res := check("odd.dds")
	assert.Equal(t, []string{"LightIntensity DDS must be power-of-two (found 48x32)"}, res.Reasons)

	res = check("missing.dds")
	assert.True(t, containsReason(res.Reasons, "file not found"))

	res = check("junk.dds")
	assert.True(t, res.Pass)
	assert.Len(t, res.Warnings, 1)

	opts.RequireIntensity = true
	res = check("")
	assert.True(t, containsReason(res.Reasons, "Missing "+lighttype.PropIntensity))
}

func TestValidateMeshOrder(t *testing.T) {
	m := meshtest.TurnLeftQuad()
	m.Materials = append(m.Materials,
		mesh.Material{Name: "Body"},
		meshtest.LightMaterial("Beacon", lighttype.Beacon))
	m.Polygons = append(m.Polygons, mesh.Polygon{Material: 2, Loops: []int{0, 1, 2}})

	results := ValidateMesh(&m, Options{})
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].Slot)
	assert.Equal(t, 2, results[1].Slot)
	assert.Equal(t, "Beacon", results[1].Material)
	assert.False(t, results[1].Pass, "beacon expects tile (0, 0)")
}

func TestMemo(t *testing.T) {
	memo := NewMemo()
	opts := Options{Memo: memo}
	m := meshtest.TurnLeftQuad()

	first := ValidateSlot(&m, 0, lighttype.TurnLeft, opts)
	second := ValidateSlot(&m, 0, lighttype.TurnLeft, opts)
	assert.Equal(t, first, second)
	hits, misses := memo.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
	assert.Equal(t, 1, memo.Len())

	m.UVLayers[1].UV[1] = mathutil.Vec2{7.5, 0}
	res := ValidateSlot(&m, 0, lighttype.TurnLeft, opts)
	assert.False(t, res.Pass, "edited geometry is not served from the memo")
	assert.Equal(t, 2, memo.Len())

	assert.Equal(t, 2, memo.Invalidate("Quad"))
	assert.Equal(t, 0, memo.Len())
}

func TestMemoSeparatesTolerances(t *testing.T) {
	memo := NewMemo()
	m := meshtest.TurnLeftQuad()
	m.UVLayers[1].UV[1] = mathutil.Vec2{7.0005, 0}

	loose := ValidateSlot(&m, 0, lighttype.TurnLeft, Options{Memo: memo, Epsilon: 1e-3})
	assert.True(t, loose.Pass, loose.Reasons)

	strict := ValidateSlot(&m, 0, lighttype.TurnLeft, Options{Memo: memo})
	assert.False(t, strict.Pass)
	assert.Equal(t, 2, memo.Len())
	_, misses := memo.Stats()
	assert.Equal(t, 2, misses)
}

func sampleReport(t *testing.T) *Report {
	t.Helper()
	good := meshtest.TurnLeftQuad()
	bad := meshtest.TurnLeftQuad()
	bad.Name = "Bad<Quad>"
	bad.UVLayers[1].UV[0] = mathutil.Vec2{3.5, 0.5}
	return Validate([]mesh.Mesh{good, bad}, Options{})
}

func TestReportCounts(t *testing.T) {
	r := sampleReport(t)
	assert.Equal(t, 1, r.Passed())
	assert.Equal(t, 1, r.Failed())
	assert.False(t, r.OK())
}

func TestReportText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleReport(t).Write(&buf, Text))
	out := buf.String()
	assert.Contains(t, out, "[PASS] Quad / Light_6_TURN_LEFT (slot 0, 6_TURN_LEFT, tile (6, 0))")
	assert.Contains(t, out, "[FAIL] Bad<Quad>")
	assert.Contains(t, out, "2 slot(s) checked, 1 passed, 1 failed")
}

func TestReportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleReport(t).Write(&buf, CSV))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "mesh", rows[0][0])
	assert.Equal(t, "true", rows[1][7])
	assert.Equal(t, "false", rows[2][7])
}

func TestReportHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleReport(t).Write(&buf, HTML))
	out := buf.String()
	assert.Contains(t, out, `<td class="fail">FAIL</td>`)
	assert.Contains(t, out, "Bad&lt;Quad&gt;")
	assert.Contains(t, out, "<td>(6, 0)</td>")
}

func TestReportJSONAndYAML(t *testing.T) {
	r := sampleReport(t)

	var buf bytes.Buffer
	require.NoError(t, r.Write(&buf, JSON))
	var fromJSON Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, r.Results, fromJSON.Results)

	buf.Reset()
	require.NoError(t, r.Write(&buf, YAML))
	var fromYAML Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, r.Results, fromYAML.Results)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": Text, "HTML": HTML, "yml": YAML, "csv": CSV} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrFormat)
}
