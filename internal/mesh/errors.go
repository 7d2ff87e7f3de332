package mesh

import "errors"

var (
	// ErrNoUVLayer indicates a mesh without any UV layer.
	ErrNoUVLayer = errors.New("mesh has no UV layer")

	// ErrNoTriangles indicates that no triangle uses a light material.
	ErrNoTriangles = errors.New("no light-material triangles")

	// ErrFormat indicates an unsupported snapshot file extension.
	ErrFormat = errors.New("unsupported mesh snapshot format")
)
