package udim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"i3d-lightbake/internal/lighttype"
	"i3d-lightbake/internal/mathutil"
	"i3d-lightbake/internal/mesh"
	"i3d-lightbake/internal/mesh/meshtest"
)

func TestShiftToTileRepairsSlot(t *testing.T) {
	m := meshtest.Quad(lighttype.TurnLeft, meshtest.UnitSquare, meshtest.Offset(meshtest.UnitSquare, 3, 0), nil)
	before := ValidateSlot(&m, 0, lighttype.TurnLeft, Options{})
	require.False(t, before.Pass)
	assert.True(t, before.UV1Misplaced)

	assert.Equal(t, 1, ShiftToTile(&m, 0, lighttype.TurnLeft))
	assert.Equal(t, meshtest.UnitSquare, m.UVLayers[0].UV, "UV0 untouched")
	uv1 := m.UVLayers[1].UV
	assert.Equal(t, mathutil.Vec2{6, 0}, uv1[0])
	assert.InDelta(t, 7-shiftInset, uv1[2][0], 1e-12)
	assert.InDelta(t, 1-shiftInset, uv1[2][1], 1e-12)

	after := ValidateSlot(&m, 0, lighttype.TurnLeft, Options{})
	assert.True(t, after.Pass, after.Reasons)
	assert.False(t, after.UV1Misplaced)
	assert.Equal(t, []mathutil.Tile{{X: 6, Y: 0}}, after.UV1Tiles)
}

func TestShiftToTileCreatesSecondaryLayer(t *testing.T) {
	m := meshtest.Quad(lighttype.TurnLeft, meshtest.UnitSquare, nil, nil)
	require.True(t, ValidateSlot(&m, 0, lighttype.TurnLeft, Options{}).UV1Misplaced)

	assert.Equal(t, 1, ShiftToTile(&m, 0, lighttype.TurnLeft))
	require.Len(t, m.UVLayers, 2)
	assert.Equal(t, mesh.SecondaryUVName, m.UVLayers[1].Name)
	res := ValidateSlot(&m, 0, lighttype.TurnLeft, Options{})
	assert.True(t, res.Pass, res.Reasons)
}

func TestShiftToTileRenamesAndReordersLegacyLayer(t *testing.T) {
	m := meshtest.Quad(lighttype.TurnLeft, meshtest.UnitSquare, nil, nil)
	m.UVLayers = append(m.UVLayers,
		mesh.UVLayer{Name: "Detail", UV: meshtest.UnitSquare},
		mesh.UVLayer{Name: mesh.LegacySecondaryUVName, UV: meshtest.Offset(meshtest.UnitSquare, 1, 0)},
	)

	ShiftToTile(&m, 0, lighttype.TurnLeft)
	require.Len(t, m.UVLayers, 3)
	assert.Equal(t, "UVMap", m.UVLayers[0].Name)
	assert.Equal(t, mesh.SecondaryUVName, m.UVLayers[1].Name)
	assert.Equal(t, "Detail", m.UVLayers[2].Name)
	res := ValidateSlot(&m, 0, lighttype.TurnLeft, Options{})
	assert.True(t, res.Pass, res.Reasons)
	assert.Empty(t, res.Warnings)
}

func TestShiftToTileNoop(t *testing.T) {
	m := meshtest.TurnLeftQuad()
	assert.Equal(t, 0, ShiftToTile(&m, 0, lighttype.ID("99_LASER")))
	assert.Equal(t, 0, ShiftToTile(&m, 5, lighttype.TurnLeft))
	assert.Equal(t, meshtest.Offset(meshtest.UnitSquare, 6, 0), m.UVLayers[1].UV)
}

func TestFix(t *testing.T) {
	memo := NewMemo()
	opts := Options{Memo: memo}

	good := meshtest.TurnLeftQuad()
	assert.Equal(t, 0, Fix(&good, opts))
	assert.Equal(t, meshtest.Offset(meshtest.UnitSquare, 6, 0), good.UVLayers[1].UV)

	bad := meshtest.TurnLeftQuad()
	bad.Name = "Bad"
	bad.UVLayers[1].UV[1] = mathutil.Vec2{7.5, 0}
	assert.Equal(t, 1, Fix(&bad, opts))
	assert.Equal(t, 1, memo.Len(), "stale entry for the shifted mesh dropped")
	for _, res := range ValidateMesh(&bad, opts) {
		assert.True(t, res.Pass, res.Reasons)
	}
}
