// Package dds reads and writes DirectDraw Surface container headers.
package dds

import (
	"encoding/binary"
	"fmt"
)

// Magic is the four-byte file signature "DDS ".
const Magic = "DDS "

// Structure sizes in bytes.
const (
	HeaderSize      = 124
	PixelFormatSize = 32
	DX10HeaderSize  = 20
	LegacyFileSize  = 4 + HeaderSize
)

// Header flags.
const (
	DDSD_CAPS        = 0x1
	DDSD_HEIGHT      = 0x2
	DDSD_WIDTH       = 0x4
	DDSD_PITCH       = 0x8
	DDSD_PIXELFORMAT = 0x1000
	DDSD_MIPMAPCOUNT = 0x20000
	DDSD_LINEARSIZE  = 0x80000
	DDSD_DEPTH       = 0x800000
)

// Pixel format flags.
const (
	DDPF_ALPHAPIXELS = 0x1
	DDPF_ALPHA       = 0x2
	DDPF_FOURCC      = 0x4
	DDPF_RGB         = 0x40
	DDPF_LUMINANCE   = 0x20000
)

// Surface capability flags.
const (
	DDSCAPS_COMPLEX = 0x8
	DDSCAPS_TEXTURE = 0x1000
	DDSCAPS_MIPMAP  = 0x400000
)

// FourCCDX10 marks a file followed by the DX10 extension header.
const FourCCDX10 = "DX10"

// PixelFormat is DDS_PIXELFORMAT.
type PixelFormat struct {
	Size        uint32
	Flags       uint32
	FourCC      [4]byte
	RGBBitCount uint32
	RBitMask    uint32
	GBitMask    uint32
	BBitMask    uint32
	ABitMask    uint32
}

// Header is DDS_HEADER, without the leading magic.
type Header struct {
	Size              uint32
	Flags             uint32
	Height            uint32
	Width             uint32
	PitchOrLinearSize uint32
	Depth             uint32
	MipMapCount       uint32
	Reserved1         [11]uint32
	PixelFormat       PixelFormat
	Caps              uint32
	Caps2             uint32
	Caps3             uint32
	Caps4             uint32
	Reserved2         uint32
}

// HeaderDX10 is DDS_HEADER_DXT10.
type HeaderDX10 struct {
	DXGIFormat        uint32
	ResourceDimension uint32
	MiscFlag          uint32
	ArraySize         uint32
	MiscFlags2        uint32
}

// Field offsets inside the 124-byte header. Add 4 for file offsets.
const (
	offHeight      = 8
	offWidth       = 12
	offMipMapCount = 24
	offPixelFormat = 72
	offFourCC      = offPixelFormat + 8
)

// MarshalBinary encodes h as 124 little-endian bytes.
func (h Header) MarshalBinary() ([]byte, error) {
	b := make([]byte, HeaderSize)
	le := binary.LittleEndian
	le.PutUint32(b[0:], h.Size)
	le.PutUint32(b[4:], h.Flags)
	le.PutUint32(b[offHeight:], h.Height)
	le.PutUint32(b[offWidth:], h.Width)
	le.PutUint32(b[16:], h.PitchOrLinearSize)
	le.PutUint32(b[20:], h.Depth)
	le.PutUint32(b[offMipMapCount:], h.MipMapCount)
	for i, r := range h.Reserved1 {
		le.PutUint32(b[28+4*i:], r)
	}
	pf := b[offPixelFormat:]
	le.PutUint32(pf[0:], h.PixelFormat.Size)
	le.PutUint32(pf[4:], h.PixelFormat.Flags)
	copy(b[offFourCC:offFourCC+4], h.PixelFormat.FourCC[:])
	le.PutUint32(pf[12:], h.PixelFormat.RGBBitCount)
	le.PutUint32(pf[16:], h.PixelFormat.RBitMask)
	le.PutUint32(pf[20:], h.PixelFormat.GBitMask)
	le.PutUint32(pf[24:], h.PixelFormat.BBitMask)
	le.PutUint32(pf[28:], h.PixelFormat.ABitMask)
	le.PutUint32(b[104:], h.Caps)
	le.PutUint32(b[108:], h.Caps2)
	le.PutUint32(b[112:], h.Caps3)
	le.PutUint32(b[116:], h.Caps4)
	le.PutUint32(b[120:], h.Reserved2)
	return b, nil
}

// UnmarshalBinary decodes a 124-byte header.
func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) < HeaderSize {
		return fmt.Errorf("%w: header is %d bytes, need %d", ErrTruncated, len(b), HeaderSize)
	}
	le := binary.LittleEndian
	h.Size = le.Uint32(b[0:])
	h.Flags = le.Uint32(b[4:])
	h.Height = le.Uint32(b[offHeight:])
	h.Width = le.Uint32(b[offWidth:])
	h.PitchOrLinearSize = le.Uint32(b[16:])
	h.Depth = le.Uint32(b[20:])
	h.MipMapCount = le.Uint32(b[offMipMapCount:])
	for i := range h.Reserved1 {
		h.Reserved1[i] = le.Uint32(b[28+4*i:])
	}
	pf := b[offPixelFormat:]
	h.PixelFormat.Size = le.Uint32(pf[0:])
	h.PixelFormat.Flags = le.Uint32(pf[4:])
	copy(h.PixelFormat.FourCC[:], b[offFourCC:offFourCC+4])
	h.PixelFormat.RGBBitCount = le.Uint32(pf[12:])
	h.PixelFormat.RBitMask = le.Uint32(pf[16:])
	h.PixelFormat.GBitMask = le.Uint32(pf[20:])
	h.PixelFormat.BBitMask = le.Uint32(pf[24:])
	h.PixelFormat.ABitMask = le.Uint32(pf[28:])
	h.Caps = le.Uint32(b[104:])
	h.Caps2 = le.Uint32(b[108:])
	h.Caps3 = le.Uint32(b[112:])
	h.Caps4 = le.Uint32(b[116:])
	h.Reserved2 = le.Uint32(b[120:])
	return nil
}

// MarshalBinary encodes the 20-byte DX10 extension.
func (h HeaderDX10) MarshalBinary() ([]byte, error) {
	b := make([]byte, DX10HeaderSize)
	le := binary.LittleEndian
	le.PutUint32(b[0:], h.DXGIFormat)
	le.PutUint32(b[4:], h.ResourceDimension)
	le.PutUint32(b[8:], h.MiscFlag)
	le.PutUint32(b[12:], h.ArraySize)
	le.PutUint32(b[16:], h.MiscFlags2)
	return b, nil
}

// UnmarshalBinary decodes the 20-byte DX10 extension.
func (h *HeaderDX10) UnmarshalBinary(b []byte) error {
	if len(b) < DX10HeaderSize {
		return fmt.Errorf("%w: dx10 header is %d bytes, need %d", ErrTruncated, len(b), DX10HeaderSize)
	}
	le := binary.LittleEndian
	h.DXGIFormat = le.Uint32(b[0:])
	h.ResourceDimension = le.Uint32(b[4:])
	h.MiscFlag = le.Uint32(b[8:])
	h.ArraySize = le.Uint32(b[12:])
	h.MiscFlags2 = le.Uint32(b[16:])
	return nil
}

// UncompressedBGRA returns the legacy header for a 32bpp B8G8R8A8 surface
// without mipmaps.
func UncompressedBGRA(width, height int) Header {
	return Header{
		Size:              HeaderSize,
		Flags:             DDSD_CAPS | DDSD_HEIGHT | DDSD_WIDTH | DDSD_PITCH | DDSD_PIXELFORMAT,
		Height:            uint32(height),
		Width:             uint32(width),
		PitchOrLinearSize: uint32(width * 4),
		PixelFormat: PixelFormat{
			Size:        PixelFormatSize,
			Flags:       DDPF_RGB | DDPF_ALPHAPIXELS,
			RGBBitCount: 32,
			RBitMask:    0x00FF0000,
			GBitMask:    0x0000FF00,
			BBitMask:    0x000000FF,
			ABitMask:    0xFF000000,
		},
		Caps: DDSCAPS_TEXTURE,
	}
}
