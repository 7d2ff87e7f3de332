package raster

import "errors"

// ErrOverlap indicates two light materials cover the same texel.
var ErrOverlap = errors.New("light materials overlap in UV0")
