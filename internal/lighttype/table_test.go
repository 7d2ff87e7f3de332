package lighttype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"i3d-lightbake/internal/mathutil"
)

func TestTableHasSeventeenTypes(t *testing.T) {
	all := All()
	require.Len(t, all, 17)
	assert.Equal(t, DefaultLight, all[0].ID)
	assert.Equal(t, Beacon, all[16].ID)
}

func TestTiles(t *testing.T) {
	cases := map[ID]mathutil.Tile{
		DefaultLight: {X: 0, Y: 0},
		TurnLeft:     {X: 6, Y: 0},
		TurnRight:    {X: 7, Y: 0},
		BackLight:    {X: 0, Y: 1},
		WorkAdd2:     {X: 7, Y: 1},
		Beacon:       {X: 0, Y: 0},
	}
	for id, want := range cases {
		got, ok := Tile(id)
		require.True(t, ok, id)
		assert.Equal(t, want, got, id)
	}
	_, ok := Tile("99_UNKNOWN")
	assert.False(t, ok)
}

func TestResolveLegacyRole(t *testing.T) {
	id, ok := Resolve(map[string]string{PropLightRole: "LEFT_SIGNAL"})
	require.True(t, ok)
	assert.Equal(t, TurnLeft, id)

	id, ok = Resolve(map[string]string{PropLightType: "7_TURN_RIGHT", PropLightRole: "LEFT_SIGNAL"})
	require.True(t, ok)
	assert.Equal(t, TurnRight, id)

	_, ok = Resolve(map[string]string{})
	assert.False(t, ok)
}

func TestBitmask(t *testing.T) {
	assert.Equal(t, "20480.0 0.0 0.0 0.0", FormatTurnSignalBitmask())
	assert.True(t, IsTurnSignalBitmask("20480.0 0.0 0.0 0.0"))
	assert.True(t, IsTurnSignalBitmask("20480, 0, 0, 0"))
	assert.False(t, IsTurnSignalBitmask("20480.0"))
	assert.False(t, IsTurnSignalBitmask("1.0 0.0 0.0 0.0"))
	assert.False(t, IsTurnSignalBitmask("abc 0 0 0"))
}

func TestApplyRequiredProps(t *testing.T) {
	props := map[string]string{}
	ApplyRequiredProps(props, TurnLeft)
	assert.Equal(t, RequiredCustomShader, props[PropCustomShader])
	assert.Equal(t, RequiredVariation, props[PropShaderVariation])
	assert.Equal(t, RequiredShadingRate, props[PropShadingRate])
	assert.Equal(t, "6_TURN_LEFT", props[PropLightType])
	assert.Equal(t, "20480.0 0.0 0.0 0.0", props[PropBitmask])

	props = map[string]string{}
	ApplyRequiredProps(props, BrakeLight)
	_, has := props[PropBitmask]
	assert.False(t, has)
}
