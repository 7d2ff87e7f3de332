package dds

import "errors"

var (
	// ErrBadMagic indicates the stream does not start with "DDS ".
	ErrBadMagic = errors.New("dds: bad magic")

	// ErrTruncated indicates the stream ended inside a header.
	ErrTruncated = errors.New("dds: truncated")
)
