// Package lighttype holds the fixed vehicle light-type tables: the UDIM
// function tile each light type lives in, its default vertex color and the
// material properties the exporter expects on static-light materials.
package lighttype

import "i3d-lightbake/internal/mathutil"

// ID identifies a light type, e.g. "6_TURN_LEFT".
type ID string

const (
	DefaultLight         ID = "0_DEFAULT_LIGHT"
	DefaultLightHighBeam ID = "1_DEFAULT_LIGHT_HIGHBEAM"
	HighBeam             ID = "2_HIGHBEAM"
	BottomLight          ID = "3_BOTTOM_LIGHT"
	TopLight             ID = "4_TOP_LIGHT"
	DRL                  ID = "5_DRL"
	TurnLeft             ID = "6_TURN_LEFT"
	TurnRight            ID = "7_TURN_RIGHT"
	BackLight            ID = "8_BACK_LIGHT"
	BrakeLight           ID = "9_BRAKE_LIGHT"
	BackBrake            ID = "10_BACK_BRAKE"
	Reverse              ID = "11_REVERSE"
	WorkFront            ID = "12_WORK_FRONT"
	WorkBack             ID = "13_WORK_BACK"
	WorkAdd1             ID = "14_WORK_ADD1"
	WorkAdd2             ID = "15_WORK_ADD2"
	Beacon               ID = "16_BEACON"
)

// Entry is one row of the light-type table.
type Entry struct {
	ID    ID
	Label string
	Tile  mathutil.Tile
	Color mathutil.Color
}

var (
	white = mathutil.Color{1, 1, 1, 1}
	amber = mathutil.Color{1, 0.55, 0, 1}
	red   = mathutil.Color{1, 0, 0, 1}
)

// table is ordered by light-type number.
var table = []Entry{
	{DefaultLight, "Default Light", mathutil.Tile{X: 0, Y: 0}, white},
	{DefaultLightHighBeam, "Default Light & HighBeam", mathutil.Tile{X: 1, Y: 0}, white},
	{HighBeam, "HighBeam", mathutil.Tile{X: 2, Y: 0}, white},
	{BottomLight, "Bottom Light", mathutil.Tile{X: 3, Y: 0}, white},
	{TopLight, "Top Light", mathutil.Tile{X: 4, Y: 0}, white},
	{DRL, "Daytime Running Light", mathutil.Tile{X: 5, Y: 0}, amber},
	{TurnLeft, "Turn Light Left", mathutil.Tile{X: 6, Y: 0}, amber},
	{TurnRight, "Turn Light Right", mathutil.Tile{X: 7, Y: 0}, amber},
	{BackLight, "Back Light", mathutil.Tile{X: 0, Y: 1}, red},
	{BrakeLight, "Brake Light", mathutil.Tile{X: 1, Y: 1}, red},
	{BackBrake, "Back & Brake Light", mathutil.Tile{X: 2, Y: 1}, red},
	{Reverse, "Reverse Light", mathutil.Tile{X: 3, Y: 1}, white},
	{WorkFront, "Work Light Front", mathutil.Tile{X: 4, Y: 1}, white},
	{WorkBack, "Work Light Back", mathutil.Tile{X: 5, Y: 1}, white},
	{WorkAdd1, "Work Light Additional", mathutil.Tile{X: 6, Y: 1}, white},
	{WorkAdd2, "Work Light Additional 2", mathutil.Tile{X: 7, Y: 1}, white},
	{Beacon, "Beacon Light", mathutil.Tile{X: 0, Y: 0}, amber},
}

var byID = func() map[ID]Entry {
	m := make(map[ID]Entry, len(table))
	for _, e := range table {
		m[e.ID] = e
	}
	return m
}()

// legacyRoles maps role keys stored by older builds to light types.
var legacyRoles = map[string]ID{
	"LOWBEAM":      DefaultLight,
	"HIGHBEAM":     HighBeam,
	"LEFT_SIGNAL":  TurnLeft,
	"RIGHT_SIGNAL": TurnRight,
	"WORK_REAR":    WorkBack,
	"BEACON":       Beacon,
	"DRL":          DRL,
}

// All returns the table in light-type order.
func All() []Entry {
	out := make([]Entry, len(table))
	copy(out, table)
	return out
}

// Lookup returns the table entry for id.
func Lookup(id ID) (Entry, bool) {
	e, ok := byID[id]
	return e, ok
}

// Tile returns the UDIM function tile for id.
func Tile(id ID) (mathutil.Tile, bool) {
	e, ok := byID[id]
	return e.Tile, ok
}

// DefaultColor returns the default vertex color for id, white when unknown.
func DefaultColor(id ID) mathutil.Color {
	if e, ok := byID[id]; ok {
		return e.Color
	}
	return white
}

// IsTurnSignal reports whether id needs the turn-signal bitmask parameter.
func IsTurnSignal(id ID) bool {
	return id == TurnLeft || id == TurnRight
}

// Normalize maps a legacy role key to its light type and returns other
// values unchanged.
func Normalize(raw string) ID {
	if id, ok := legacyRoles[raw]; ok {
		return id
	}
	return ID(raw)
}
