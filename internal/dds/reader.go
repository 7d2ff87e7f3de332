package dds

import (
	"fmt"
	"io"
	"os"

	"i3d-lightbake/internal/mathutil"
)

// Info is the subset of a DDS header used for validation.
type Info struct {
	Width      int
	Height     int
	MipMaps    int
	FourCC     string
	DXGIFormat int // set only when HasDX10
	HasDX10    bool
}

// PowerOfTwo reports whether both dimensions are powers of two.
func (i Info) PowerOfTwo() bool {
	return mathutil.IsPowerOfTwo(i.Width) && mathutil.IsPowerOfTwo(i.Height)
}

func (i Info) String() string {
	s := fmt.Sprintf("%dx%d, %d mips", i.Width, i.Height, i.MipMaps)
	if i.FourCC != "" {
		s += ", fourCC=" + i.FourCC
	}
	if i.HasDX10 {
		s += fmt.Sprintf(", dxgiFormat=%d", i.DXGIFormat)
	}
	return s
}

// ReadInfo parses the magic, the header and, for "DX10" files, the
// extension header from r.
func ReadInfo(r io.Reader) (Info, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	if string(magic[:]) != Magic {
		return Info{}, ErrBadMagic
	}

	raw := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	var h Header
	if err := h.UnmarshalBinary(raw); err != nil {
		return Info{}, err
	}

	info := Info{
		Width:   int(h.Width),
		Height:  int(h.Height),
		MipMaps: int(h.MipMapCount),
		FourCC:  fourCCString(h.PixelFormat.FourCC),
	}
	if info.FourCC == FourCCDX10 {
		ext := make([]byte, DX10HeaderSize)
		if _, err := io.ReadFull(r, ext); err == nil {
			var dx HeaderDX10
			if err := dx.UnmarshalBinary(ext); err == nil {
				info.DXGIFormat = int(dx.DXGIFormat)
				info.HasDX10 = true
			}
		}
	}
	return info, nil
}

// Inspect is ReadInfo for callers that only need to know whether the header
// could be read. ok is false on any parse failure.
func Inspect(r io.Reader) (Info, bool) {
	info, err := ReadInfo(r)
	return info, err == nil
}

// InspectFile opens path and inspects it.
func InspectFile(path string) (Info, bool) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, false
	}
	defer f.Close()
	return Inspect(f)
}

func fourCCString(b [4]byte) string {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}
	return string(b[:n])
}
