package mesh

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"sort"
)

// Signature is a cheap structural fingerprint of a mesh used as a
// memoization key. Any geometry or material edit changes it.
type Signature struct {
	Polygons int
	Loops    int
	Layers   int
	Hash     uint64
}

// Sign computes the signature of m.
func Sign(m *Mesh) Signature {
	h := fnv.New64a()
	var b [8]byte
	putF := func(f float64) {
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(f))
		h.Write(b[:])
	}
	putI := func(i int) {
		binary.LittleEndian.PutUint64(b[:], uint64(int64(i)))
		h.Write(b[:])
	}

	h.Write([]byte(m.Name))
	for _, l := range m.UVLayers {
		h.Write([]byte(l.Name))
		putI(len(l.UV))
		for _, uv := range l.UV {
			putF(uv[0])
			putF(uv[1])
		}
	}
	putI(len(m.Colors))
	for _, c := range m.Colors {
		for _, f := range c {
			putF(f)
		}
	}
	for _, p := range m.Polygons {
		putI(p.Material)
		putI(len(p.Loops))
		for _, l := range p.Loops {
			putI(l)
		}
	}
	for _, mat := range m.Materials {
		h.Write([]byte(mat.Name))
		keys := make([]string, 0, len(mat.Props))
		for k := range mat.Props {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			h.Write([]byte(k))
			h.Write([]byte{0})
			h.Write([]byte(mat.Props[k]))
			h.Write([]byte{0})
		}
	}

	return Signature{
		Polygons: len(m.Polygons),
		Loops:    m.LoopCount(),
		Layers:   len(m.UVLayers),
		Hash:     h.Sum64(),
	}
}
