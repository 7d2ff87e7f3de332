package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"i3d-lightbake/internal/bake"
	"i3d-lightbake/internal/batch"
	"i3d-lightbake/internal/config"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json or .toml)")
	outputDir := flag.String("output", "", "Output directory (default: next to each mesh file)")
	baseDir := flag.String("base", "", "Directory texture paths are made relative to (default: output directory)")
	res := flag.Int("res", 0, "Tile resolution, longest texture side before power-of-two rounding (default: 256)")
	mode := flag.String("mode", "", "Color mode: direct or luminance (default: direct)")
	overlap := flag.String("overlap", "", "Material overlap policy: fail or overwrite (default: fail)")
	bleed := flag.Int("bleed", 0, "Edge dilation passes")
	intermediate := flag.String("intermediate", "", "texconv input format: png, tga or bmp (default: png)")
	texconv := flag.String("texconv", "", "Path to texconv, or \"none\" (default: auto-detect)")
	preview := flag.String("preview", "", "Also write a preview image: png or webp")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	writeBack := flag.Bool("write", false, "Store customTexture_lightsIntensity back into the mesh files")
	manifest := flag.String("manifest", "", "Write a JSON manifest of baked textures to this path")
	verbose := flag.Bool("v", false, "Verbose logging")
	quiet := flag.Bool("q", false, "Only log errors")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: libake [flags] mesh.json|mesh.yaml...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		OutputDir:      *outputDir,
		BaseDir:        *baseDir,
		Texconv:        *texconv,
		TileResolution: *res,
		ColorMode:      *mode,
		Overlap:        *overlap,
		Bleed:          *bleed,
		Intermediate:   *intermediate,
		Preview:        *preview,
		Workers:        *workers,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	bc := bake.NewContext(config.NewLogger(os.Stderr, config.LogLevel(*verbose, *quiet)))
	bc.Encoder = cfg.Encoder(bc)

	paths := flag.Args()
	fmt.Printf("LightIntensity bake\n")
	fmt.Printf("Meshes: %d, Workers: %d, Encoder: %s\n", len(paths), cfg.Workers, bc.Encoder.Name())
	fmt.Printf("Tile resolution: %d, Mode: %s, Overlap: %s\n", cfg.TileResolution, cfg.ColorMode, cfg.Overlap)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(context.Background(), batch.Config{
		Settings:  cfg,
		Context:   bc,
		Mode:      batch.Bake,
		WriteBack: *writeBack,
	}, paths)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	for _, r := range results {
		if !r.Success {
			failed++
			continue
		}
		success++
		kind := "uncompressed"
		if r.Compressed {
			kind = "DXT5"
		}
		fmt.Printf("  %s -> %s (%dx%d, %s)\n", filepath.Base(r.Mesh), r.Output, r.Width, r.Height, kind)
		fmt.Printf("    customTexture_lightsIntensity = %s\n", r.Property)
		for _, w := range r.Warnings {
			fmt.Printf("    warning: %s\n", w)
		}
	}

	fmt.Printf("Baked: %d/%d\n", success, len(results))

	if failed > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		for _, r := range results {
			if !r.Success {
				fmt.Printf("  %s: %s\n", r.Mesh, r.Error)
			}
		}
	}

	// Write manifest
	if *manifest != "" {
		os.MkdirAll(filepath.Dir(*manifest), 0755)
		if err := batch.WriteManifest(*manifest, results); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
		} else {
			fmt.Printf("Manifest: %s\n", *manifest)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}
