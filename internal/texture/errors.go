package texture

import "errors"

var (
	// ErrCompressorUnavailable indicates the external compressor could not be started.
	ErrCompressorUnavailable = errors.New("texture compressor unavailable")

	// ErrCompressorFailed indicates the compressor exited non-zero or produced no file.
	ErrCompressorFailed = errors.New("texture compressor failed")

	// ErrImageFormat indicates an unsupported image file format.
	ErrImageFormat = errors.New("unsupported image format")
)
