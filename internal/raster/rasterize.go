package raster

import (
	"fmt"

	"i3d-lightbake/internal/mathutil"
	"i3d-lightbake/internal/mesh"
)

// OverlapPolicy decides what happens when triangles of different light
// materials cover the same pixel.
type OverlapPolicy int

const (
	// OverlapFail aborts the bake with ErrOverlap.
	OverlapFail OverlapPolicy = iota
	// OverlapOverwrite lets later triangles win.
	OverlapOverwrite
)

// Options controls Rasterize.
type Options struct {
	Mode    Mode
	Overlap OverlapPolicy
}

// Rasterize draws all triangles into b in input order. Primary UVs are
// normalized into rect before projection. Triangles of the same material on
// the same source mesh may share pixels; any other pair may only share pixel
// centers lying exactly on an edge, unless opt.Overlap is OverlapOverwrite.
func Rasterize(b *Buffer, tris []mesh.Triangle, rect mathutil.UVRect, opt Options) error {
	type owner struct {
		source   int
		material string
	}
	ids := make(map[owner]int32)
	names := []string{""}
	var conflict error

	for i := range tris {
		tri := &tris[i]
		key := tri.Mesh + "/" + tri.Material
		id, ok := ids[owner{tri.Source, tri.Material}]
		if !ok {
			id = int32(len(names))
			ids[owner{tri.Source, tri.Material}] = id
			names = append(names, key)
		}

		ok = RasterizeTriangle(b, tri, rect, opt.Mode, func(x, y int, onEdge bool) bool {
			idx := y*b.Width + x
			prev := b.owner[idx]
			if prev != 0 && prev != id && !onEdge && opt.Overlap == OverlapFail {
				conflict = fmt.Errorf("%w: %s and %s at texel (%d, %d)", ErrOverlap, names[prev], key, x, y)
				return false
			}
			b.owner[idx] = id
			return true
		})
		if !ok {
			return conflict
		}
	}
	return nil
}
