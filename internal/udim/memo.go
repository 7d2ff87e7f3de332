package udim

import (
	"sync"

	"i3d-lightbake/internal/lighttype"
	"i3d-lightbake/internal/mesh"
)

type memoKey struct {
	mesh string
	sig  mesh.Signature
	slot int
	id   lighttype.ID
	eps  float64
}

// Memo caches the geometric part of slot verdicts keyed by the mesh's
// structural signature and tolerance. Property and texture checks always rerun.
type Memo struct {
	mu     sync.Mutex
	items  map[memoKey]geometry
	hits   int
	misses int
}

// NewMemo creates an empty memo.
func NewMemo() *Memo {
	return &Memo{items: make(map[memoKey]geometry)}
}

func (c *Memo) geometry(m *mesh.Mesh, slot int, id lighttype.ID, eps float64, compute func() geometry) geometry {
	key := memoKey{mesh: m.Name, sig: mesh.Sign(m), slot: slot, id: id, eps: eps}

	c.mu.Lock()
	if g, ok := c.items[key]; ok {
		c.hits++
		c.mu.Unlock()
		return g
	}
	c.misses++
	c.mu.Unlock()

	g := compute()

	c.mu.Lock()
	c.items[key] = g
	c.mu.Unlock()
	return g
}

// Invalidate drops every entry for the named mesh and returns how many
// were removed. An empty name clears the memo.
func (c *Memo) Invalidate(meshName string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.items {
		if meshName == "" || k.mesh == meshName {
			delete(c.items, k)
			n++
		}
	}
	return n
}

// Len returns the number of cached verdicts.
func (c *Memo) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns the hit and miss counters.
func (c *Memo) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
