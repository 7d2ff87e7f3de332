package mesh_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"i3d-lightbake/internal/lighttype"
	"i3d-lightbake/internal/mathutil"
	"i3d-lightbake/internal/mesh"
	"i3d-lightbake/internal/mesh/meshtest"
)

func TestScanQuadFan(t *testing.T) {
	m := meshtest.TurnLeftQuad()
	tris, err := mesh.Scan(&m)
	require.NoError(t, err)
	require.Len(t, tris, 2)

	assert.Equal(t, mathutil.Vec2{0, 0}, tris[0].V[0].UV0)
	assert.Equal(t, mathutil.Vec2{1, 1}, tris[0].V[2].UV0)
	assert.Equal(t, mathutil.Vec2{6, 0}, tris[1].V[0].UV1)
	assert.Equal(t, mathutil.Color{1, 1, 0.5, 1}, tris[1].V[1].Color)
	assert.Equal(t, "Light_6_TURN_LEFT", tris[0].Material)
}

func TestScanSkipsUntaggedMaterials(t *testing.T) {
	m := meshtest.TurnLeftQuad()
	m.Materials = append(m.Materials, mesh.Material{Name: "Body"})
	m.UVLayers[0].UV = append(m.UVLayers[0].UV, mathutil.Vec2{0, 0}, mathutil.Vec2{1, 0}, mathutil.Vec2{1, 1})
	m.Polygons = append(m.Polygons, mesh.Polygon{Material: 1, Loops: []int{4, 5, 6}})

	tris, err := mesh.Scan(&m)
	require.NoError(t, err)
	assert.Len(t, tris, 2)
}

func TestScanDefaultColorWithoutAttribute(t *testing.T) {
	m := meshtest.Quad(lighttype.BrakeLight, meshtest.UnitSquare, nil, nil)
	tris, err := mesh.Scan(&m)
	require.NoError(t, err)
	require.NotEmpty(t, tris)
	assert.Equal(t, lighttype.DefaultColor(lighttype.BrakeLight), tris[0].V[0].Color)
}

func TestScanDropsOutOfRangeLoops(t *testing.T) {
	m := meshtest.TurnLeftQuad()
	m.Polygons = append(m.Polygons, mesh.Polygon{Material: 0, Loops: []int{0, 1, 99}})
	tris, err := mesh.Scan(&m)
	require.NoError(t, err)
	assert.Len(t, tris, 2)
}

func TestScanNoUVLayer(t *testing.T) {
	m := meshtest.TurnLeftQuad()
	m.UVLayers = nil
	_, err := mesh.Scan(&m)
	assert.ErrorIs(t, err, mesh.ErrNoUVLayer)
}

func TestPrimaryBounds(t *testing.T) {
	m := meshtest.Quad(lighttype.DRL, meshtest.Offset([]mathutil.Vec2{{0, 0}, {0.5, 0}, {0.5, 0.25}, {0, 0.25}}, 0.25, 0.5), nil, nil)
	tris, err := mesh.Scan(&m)
	require.NoError(t, err)
	r, ok := mesh.PrimaryBounds(tris)
	require.True(t, ok)
	assert.InDelta(t, 0.25, r.MinU, 1e-12)
	assert.InDelta(t, 0.75, r.MaxU, 1e-12)
	assert.InDelta(t, 0.5, r.MinV, 1e-12)
	assert.InDelta(t, 0.75, r.MaxV, 1e-12)

	_, ok = mesh.PrimaryBounds(nil)
	assert.False(t, ok)
}

func TestLoadSaveFormats(t *testing.T) {
	dir := t.TempDir()
	doc := mesh.Document{Meshes: []mesh.Mesh{meshtest.TurnLeftQuad()}}
	for _, name := range []string{"quad.json", "quad.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, mesh.Save(path, doc))
		got, err := mesh.Load(path)
		require.NoError(t, err, name)
		require.Len(t, got.Meshes, 1)
		assert.Equal(t, mesh.Sign(&doc.Meshes[0]), mesh.Sign(&got.Meshes[0]), name)
	}

	bad := filepath.Join(dir, "quad.obj")
	require.NoError(t, os.WriteFile(bad, []byte("v 0 0 0"), 0644))
	_, err := mesh.Load(bad)
	assert.ErrorIs(t, err, mesh.ErrFormat)
}

func TestSignatureChangesOnEdit(t *testing.T) {
	m := meshtest.TurnLeftQuad()
	before := mesh.Sign(&m)
	assert.Equal(t, before, mesh.Sign(&m))

	m.UVLayers[1].UV[0][0] = 6.5
	assert.NotEqual(t, before, mesh.Sign(&m))
}
