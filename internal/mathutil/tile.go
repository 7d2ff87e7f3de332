package mathutil

import (
	"fmt"
	"math"
)

// Tile is an integer UDIM tile offset.
type Tile struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (t Tile) String() string {
	return fmt.Sprintf("(%d, %d)", t.X, t.Y)
}

// TileOf returns the tile whose unit square contains p.
func TileOf(p Vec2) Tile {
	return Tile{int(math.Floor(p[0])), int(math.Floor(p[1]))}
}

// Contains reports whether p lies in [X, X+1] x [Y, Y+1] expanded by eps.
func (t Tile) Contains(p Vec2, eps float64) bool {
	x, y := float64(t.X), float64(t.Y)
	return p[0] >= x-eps && p[0] <= x+1+eps &&
		p[1] >= y-eps && p[1] <= y+1+eps
}
