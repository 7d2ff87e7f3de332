package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"i3d-lightbake/internal/bake"
	"i3d-lightbake/internal/raster"
	"i3d-lightbake/internal/texture"
	"i3d-lightbake/internal/udim"
)

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("config: invalid setting")

// TexconvDisabled as the texconv setting forces the native encoder.
const TexconvDisabled = "none"

// Config holds all bake and validation settings.
type Config struct {
	// Paths
	OutputDir   string   `json:"output_dir" toml:"output_dir"`
	BaseDir     string   `json:"base_dir" toml:"base_dir"`
	Texconv     string   `json:"texconv" toml:"texconv"`
	TexconvDirs []string `json:"texconv_dirs" toml:"texconv_dirs"`

	// Bake settings
	TileResolution     int    `json:"tile_resolution" toml:"tile_resolution"`
	ColorMode          string `json:"color_mode" toml:"color_mode"`
	Overlap            string `json:"overlap" toml:"overlap"`
	Bleed              int    `json:"bleed" toml:"bleed"`
	Intermediate       string `json:"intermediate" toml:"intermediate"`
	KeepIntermediate   bool   `json:"keep_intermediate" toml:"keep_intermediate"`
	Preview            string `json:"preview" toml:"preview"`
	PreviewSize        int    `json:"preview_size" toml:"preview_size"`
	ApplyExporterProps bool   `json:"apply_exporter_props" toml:"apply_exporter_props"`
	ValidateFirst      bool   `json:"validate_first" toml:"validate_first"`

	// Validation settings
	RequireIntensity bool   `json:"require_intensity" toml:"require_intensity"`
	ReportFormat     string `json:"report_format" toml:"report_format"`

	Workers int `json:"workers" toml:"workers"`
}

// Load reads a JSON or TOML config file, chosen by extension.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".json":
		err = json.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("config: %s: unsupported extension", path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir      string
	BaseDir        string
	Texconv        string
	TileResolution int
	ColorMode      string
	Overlap        string
	Bleed          int
	Intermediate   string
	Preview        string
	Format         string
	Workers        int
}

// Resolve applies flag overrides, then fills empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	setString(&c.OutputDir, flags.OutputDir)
	setString(&c.BaseDir, flags.BaseDir)
	setString(&c.Texconv, flags.Texconv)
	setString(&c.ColorMode, flags.ColorMode)
	setString(&c.Overlap, flags.Overlap)
	setString(&c.Intermediate, flags.Intermediate)
	setString(&c.Preview, flags.Preview)
	setString(&c.ReportFormat, flags.Format)
	if flags.TileResolution > 0 {
		c.TileResolution = flags.TileResolution
	}
	if flags.Bleed > 0 {
		c.Bleed = flags.Bleed
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	// Defaults
	if c.TileResolution <= 0 {
		c.TileResolution = bake.DefaultTileResolution
	}
	if c.ColorMode == "" {
		c.ColorMode = "direct"
	}
	if c.Overlap == "" {
		c.Overlap = "fail"
	}
	if c.Intermediate == "" {
		c.Intermediate = string(texture.PNG)
	}
	if c.ReportFormat == "" {
		c.ReportFormat = string(udim.Text)
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if len(c.TexconvDirs) == 0 {
		c.TexconvDirs = detectTexconvDirs()
	}
	if c.Texconv == "" {
		c.Texconv = texture.FindTexconv(c.TexconvDirs...)
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if _, err := c.Mode(); err != nil {
		return err
	}
	if _, err := c.OverlapPolicy(); err != nil {
		return err
	}
	if f, err := texture.ParseImageFormat(c.Intermediate); err != nil || !f.IsIntermediate() {
		return fmt.Errorf("%w: intermediate %q", ErrInvalid, c.Intermediate)
	}
	if c.Preview != "" {
		if _, err := texture.ParseImageFormat(c.Preview); err != nil {
			return fmt.Errorf("%w: preview %q", ErrInvalid, c.Preview)
		}
	}
	if _, err := udim.ParseFormat(c.ReportFormat); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Bleed < 0 {
		return fmt.Errorf("%w: bleed %d", ErrInvalid, c.Bleed)
	}
	return nil
}

// Mode returns the raster color mode.
func (c *Config) Mode() (raster.Mode, error) {
	switch strings.ToLower(c.ColorMode) {
	case "", "direct":
		return raster.Direct, nil
	case "luminance":
		return raster.Luminance, nil
	}
	return 0, fmt.Errorf("%w: color_mode %q", ErrInvalid, c.ColorMode)
}

// OverlapPolicy returns the rasterizer overlap policy.
func (c *Config) OverlapPolicy() (raster.OverlapPolicy, error) {
	switch strings.ToLower(c.Overlap) {
	case "", "fail":
		return raster.OverlapFail, nil
	case "overwrite":
		return raster.OverlapOverwrite, nil
	}
	return 0, fmt.Errorf("%w: overlap %q", ErrInvalid, c.Overlap)
}

// TexconvPath returns the compressor path, or "" when it is disabled or
// was not found.
func (c *Config) TexconvPath() string {
	if strings.EqualFold(c.Texconv, TexconvDisabled) {
		return ""
	}
	return c.Texconv
}

// BakeOptions converts the settings for a bake writing next to meshPath
// unless an output directory is configured. Call Validate first.
func (c *Config) BakeOptions(meshPath string) bake.Options {
	mode, _ := c.Mode()
	overlap, _ := c.OverlapPolicy()
	preview, _ := texture.ParseImageFormat(c.Preview)

	outDir := c.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(meshPath)
	}
	return bake.Options{
		TileResolution:     c.TileResolution,
		Mode:               mode,
		Overlap:            overlap,
		Bleed:              c.Bleed,
		OutputDir:          outDir,
		BaseDir:            c.BaseDir,
		ApplyExporterProps: c.ApplyExporterProps,
		Validate:           c.ValidateFirst,
		Preview:            preview,
		PreviewSize:        c.PreviewSize,
	}
}

// Encoder builds the encoder chain for these settings.
func (c *Config) Encoder(bc *bake.Context) texture.Encoder {
	f, err := texture.ParseImageFormat(c.Intermediate)
	if err != nil {
		f = texture.PNG
	}
	return texture.Select(c.TexconvPath(), f, c.KeepIntermediate, bc.Logger)
}

// ValidateOptions returns validator options resolving intensity paths
// against the mesh file's directory and the configured base dir.
func (c *Config) ValidateOptions(meshPath string, bc *bake.Context) udim.Options {
	dirs := []string{filepath.Dir(meshPath)}
	if c.BaseDir != "" {
		dirs = append(dirs, c.BaseDir)
	}
	if c.OutputDir != "" {
		dirs = append(dirs, c.OutputDir)
	}
	return udim.Options{
		RequireIntensity: c.RequireIntensity,
		SearchDirs:       dirs,
		Memo:             bc.Validation,
		Infos:            bc.Infos,
	}
}

// detectTexconvDirs lists directories that may hold a bundled texconv:
// the executable's directory and its parent, then the working directory.
func detectTexconvDirs() []string {
	var dirs []string
	if exe, _ := os.Executable(); exe != "" {
		dir := filepath.Dir(exe)
		dirs = append(dirs, dir, filepath.Dir(dir))
	}
	if cwd, _ := os.Getwd(); cwd != "" {
		dirs = append(dirs, cwd)
	}
	return dirs
}
