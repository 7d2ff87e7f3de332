package bake

import (
	"fmt"

	"i3d-lightbake/internal/mesh"
)

var (
	// ErrNoLightMaterials means no scanned mesh had a face on a light material.
	// It wraps mesh.ErrNoTriangles.
	ErrNoLightMaterials = fmt.Errorf("bake: %w", mesh.ErrNoTriangles)
)
