package texture

import (
	"context"
	"fmt"
	"log/slog"

	"i3d-lightbake/internal/dds"
	"i3d-lightbake/internal/raster"
)

// Result describes a written texture.
type Result struct {
	Path       string
	Encoder    string
	Compressed bool
	Warnings   []string
}

// Encoder writes a raster buffer to a DDS file.
type Encoder interface {
	Name() string
	Encode(ctx context.Context, buf *raster.Buffer, outPath string) (Result, error)
}

// NativeEncoder writes uncompressed 32bpp BGRA DDS files. It has no
// external requirements.
type NativeEncoder struct{}

func (NativeEncoder) Name() string { return "native" }

func (NativeEncoder) Encode(_ context.Context, buf *raster.Buffer, outPath string) (Result, error) {
	if err := dds.WriteUncompressed(outPath, buf); err != nil {
		return Result{}, err
	}
	return Result{Path: outPath, Encoder: "native"}, nil
}

// Fallback tries Preferred and falls back to Native when it fails. A
// fallback is reported as a warning, not an error.
type Fallback struct {
	Preferred Encoder // may be nil
	Native    Encoder
	Logger    *slog.Logger
}

func (f *Fallback) Name() string {
	if f.Preferred == nil {
		return f.Native.Name()
	}
	return f.Preferred.Name() + "+" + f.Native.Name()
}

func (f *Fallback) Encode(ctx context.Context, buf *raster.Buffer, outPath string) (Result, error) {
	var warnings []string
	if f.Preferred != nil {
		res, err := f.Preferred.Encode(ctx, buf, outPath)
		if err == nil {
			return res, nil
		}
		msg := fmt.Sprintf("%s encoder failed, writing uncompressed DDS: %v", f.Preferred.Name(), err)
		warnings = append(warnings, msg)
		if f.Logger != nil {
			f.Logger.Warn("texture compressor fallback", "encoder", f.Preferred.Name(), "path", outPath, "err", err)
		}
	}
	res, err := f.Native.Encode(ctx, buf, outPath)
	if err != nil {
		return Result{}, err
	}
	res.Warnings = append(warnings, res.Warnings...)
	return res, nil
}

// Select returns the encoder chain for the given compressor path. An empty
// texconvPath yields the native encoder alone.
func Select(texconvPath string, intermediate ImageFormat, keepIntermediate bool, logger *slog.Logger) Encoder {
	fb := &Fallback{Native: NativeEncoder{}, Logger: logger}
	if texconvPath != "" {
		fb.Preferred = &TexconvEncoder{
			Path:             texconvPath,
			Intermediate:     intermediate,
			KeepIntermediate: keepIntermediate,
		}
	}
	return fb
}
