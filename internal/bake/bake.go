// Package bake runs the LightIntensity pipeline: scan light-material faces,
// plan the texture size, rasterize vertex colors, encode a DDS and store the
// texture path back on every affected material.
package bake

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"

	"i3d-lightbake/internal/lighttype"
	"i3d-lightbake/internal/mathutil"
	"i3d-lightbake/internal/mesh"
	"i3d-lightbake/internal/postprocess"
	"i3d-lightbake/internal/raster"
	"i3d-lightbake/internal/texture"
	"i3d-lightbake/internal/udim"
)

// DefaultTileResolution is the longest output side before power-of-two rounding.
const DefaultTileResolution = 256

// Context carries the collaborators and caches shared by pipeline stages.
type Context struct {
	Logger     *slog.Logger
	Encoder    texture.Encoder
	Infos      *texture.InfoCache
	Validation *udim.Memo
}

// NewContext returns a context with the native encoder, fresh caches and
// logger (discarding output when nil).
func NewContext(logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Context{
		Logger:     logger,
		Encoder:    texture.Select("", texture.PNG, false, logger),
		Infos:      texture.NewInfoCache(),
		Validation: udim.NewMemo(),
	}
}

// Options controls one bake.
type Options struct {
	TileResolution int // DefaultTileResolution when zero
	Mode           raster.Mode
	Overlap        raster.OverlapPolicy
	Bleed          int // edge dilation passes

	OutputDir string
	BaseName  string // derived from the meshes when empty
	// BaseDir anchors the relative path written to materials; OutputDir
	// when empty.
	BaseDir string

	// ApplyExporterProps also writes customShader, variation, shadingRate
	// and the turn-signal bitmask to affected materials.
	ApplyExporterProps bool
	// Validate runs the UDIM validator before rasterizing. Failures are
	// reported as warnings and do not stop the bake.
	Validate bool

	Preview     texture.ImageFormat // no preview when empty
	PreviewSize int                 // texture size when zero
}

// Result describes a finished bake.
type Result struct {
	Path       string
	Property   string // value written to customTexture_lightsIntensity
	Width      int
	Height     int
	Rect       mathutil.UVRect
	Triangles  int
	Materials  []string // "mesh/material" of every updated material
	Encoder    string
	Compressed bool
	Preview    string
	Warnings   []string
	Report     *udim.Report
	Buffer     *raster.Buffer
}

func (c *Context) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}

func (c *Context) warn(res *Result, msg string, args ...any) {
	res.Warnings = append(res.Warnings, msg)
	c.logger().Warn(msg, args...)
}

// Bake bakes all light-material faces of meshes into one texture. Meshes
// without a UV layer are skipped with a warning. The only fatal errors are
// an empty scan, a material overlap under raster.OverlapFail, and failing to
// write the texture.
func (c *Context) Bake(ctx context.Context, meshes []*mesh.Mesh, opts Options) (*Result, error) {
	log := c.logger()
	res := &Result{}

	if opts.Validate {
		vopts := udim.Options{
			SkipExporterProps: opts.ApplyExporterProps,
			SearchDirs:        []string{opts.baseDir()},
			Memo:              c.Validation,
			Infos:             c.Infos,
		}
		report := &udim.Report{}
		for _, m := range meshes {
			report.Results = append(report.Results, udim.ValidateMesh(m, vopts)...)
		}
		res.Report = report
		if n := report.Failed(); n > 0 {
			c.warn(res, fmt.Sprintf("%d material slot(s) failed UDIM validation", n), "failed", n)
		}
	}

	var tris []mesh.Triangle
	for i, m := range meshes {
		mt, err := mesh.Scan(m)
		if err != nil {
			c.warn(res, fmt.Sprintf("mesh %s skipped: %v", m.Name, err), "mesh", m.Name)
			continue
		}
		log.Debug("scanned mesh", "mesh", m.Name, "triangles", len(mt))
		for k := range mt {
			mt[k].Source = i
		}
		tris = append(tris, mt...)
	}
	if len(tris) == 0 {
		return res, ErrNoLightMaterials
	}
	res.Triangles = len(tris)

	rect, ok := mesh.PrimaryBounds(tris)
	if !ok {
		return res, ErrNoLightMaterials
	}
	res.Rect = rect

	tileRes := opts.TileResolution
	if tileRes <= 0 {
		tileRes = DefaultTileResolution
	}
	du, dv := rect.Extent()
	res.Width, res.Height = mathutil.PlanDimensions(du, dv, tileRes)
	log.Debug("planned texture", "rect", rect, "width", res.Width, "height", res.Height)

	buf := raster.NewBuffer(res.Width, res.Height)
	if err := raster.Rasterize(buf, tris, rect, raster.Options{Mode: opts.Mode, Overlap: opts.Overlap}); err != nil {
		return res, err
	}
	if opts.Bleed > 0 {
		n := postprocess.Dilate(buf, opts.Bleed)
		log.Debug("dilated edges", "passes", opts.Bleed, "pixels", n)
	}
	res.Buffer = buf

	base := baseName(opts.BaseName, meshes, tris)
	outPath := filepath.Join(opts.OutputDir, base+".dds")

	enc := c.Encoder
	if enc == nil {
		enc = texture.NativeEncoder{}
	}
	out, err := enc.Encode(ctx, buf, outPath)
	if err != nil {
		return res, fmt.Errorf("bake: write %s: %w", outPath, err)
	}
	res.Path = out.Path
	res.Encoder = out.Encoder
	res.Compressed = out.Compressed
	res.Warnings = append(res.Warnings, out.Warnings...)
	if c.Infos != nil {
		c.Infos.Invalidate(out.Path)
	}

	res.Property = texture.PortablePath(out.Path, opts.baseDir())
	res.Materials = writeBack(meshes, tris, res.Property, opts.ApplyExporterProps)

	if opts.Preview != "" {
		img := postprocess.Preview(buf, opts.PreviewSize)
		p := filepath.Join(opts.OutputDir, base+"_preview"+opts.Preview.Ext())
		if err := texture.WriteImage(p, img, opts.Preview); err != nil {
			c.warn(res, fmt.Sprintf("preview not written: %v", err), "path", p)
		} else {
			res.Preview = p
		}
	}

	log.Info("baked LightIntensity texture",
		"path", res.Path, "width", res.Width, "height", res.Height,
		"triangles", res.Triangles, "encoder", res.Encoder)
	return res, nil
}

func (o *Options) baseDir() string {
	if o.BaseDir != "" {
		return o.BaseDir
	}
	return o.OutputDir
}

// writeBack stores the texture property on every material that contributed
// triangles and returns their "mesh/material" names in order.
func writeBack(meshes []*mesh.Mesh, tris []mesh.Triangle, value string, exporterProps bool) []string {
	type slotKey struct {
		source int
		slot   int
	}
	used := make(map[slotKey]bool)
	for _, t := range tris {
		used[slotKey{t.Source, t.Slot}] = true
	}

	var names []string
	for i, m := range meshes {
		slots := m.LightSlots()
		order := make([]int, 0, len(slots))
		for s := range slots {
			if used[slotKey{i, s}] {
				order = append(order, s)
			}
		}
		sort.Ints(order)
		for _, s := range order {
			mat := &m.Materials[s]
			if mat.Props == nil {
				mat.Props = make(map[string]string)
			}
			mat.Props[lighttype.PropIntensity] = value
			if exporterProps {
				lighttype.ApplyRequiredProps(mat.Props, slots[s])
			}
			names = append(names, m.Name+"/"+mat.Name)
		}
	}
	return names
}
