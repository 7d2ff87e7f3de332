package dds

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"i3d-lightbake/internal/raster"
)

// EncodeUncompressed writes buf as a legacy 32bpp DDS. Rows are written in
// buffer order and each pixel is stored as B, G, R, A bytes.
func EncodeUncompressed(w io.Writer, buf *raster.Buffer) error {
	hdr, err := UncompressedBGRA(buf.Width, buf.Height).MarshalBinary()
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(Magic); err != nil {
		return err
	}
	if _, err := bw.Write(hdr); err != nil {
		return err
	}

	row := make([]byte, buf.Width*4)
	for y := 0; y < buf.Height; y++ {
		src := buf.Pix[y*buf.Width*4 : (y+1)*buf.Width*4]
		for i := 0; i < len(src); i += 4 {
			row[i] = raster.ToByte(src[i+2])
			row[i+1] = raster.ToByte(src[i+1])
			row[i+2] = raster.ToByte(src[i])
			row[i+3] = raster.ToByte(src[i+3])
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteUncompressed encodes buf to path, creating the parent directory.
func WriteUncompressed(path string, buf *raster.Buffer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("dds: create dir for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dds: create %s: %w", path, err)
	}
	if err := EncodeUncompressed(f, buf); err != nil {
		f.Close()
		return fmt.Errorf("dds: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("dds: close %s: %w", path, err)
	}
	return nil
}
