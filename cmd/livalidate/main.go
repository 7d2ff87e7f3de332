package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"i3d-lightbake/internal/bake"
	"i3d-lightbake/internal/config"
	"i3d-lightbake/internal/mesh"
	"i3d-lightbake/internal/udim"
	"i3d-lightbake/internal/watch"
)

func main() {
	configFile := flag.String("config", "", "Path to config file (.json or .toml)")
	format := flag.String("format", "", "Report format: text, csv, html, json or yaml (default: text)")
	out := flag.String("out", "", "Write the report to this file instead of stdout")
	baseDir := flag.String("base", "", "Extra directory for resolving customTexture_lightsIntensity")
	requireTex := flag.Bool("require-texture", false, "Fail slots without customTexture_lightsIntensity")
	watchFiles := flag.Bool("watch", false, "Re-validate when a mesh file changes")
	fix := flag.Bool("fix", false, "Shift misplaced UV1 into the light type's UDIM tile and save the mesh file")
	verbose := flag.Bool("v", false, "Verbose logging")
	quiet := flag.Bool("q", false, "Only log errors")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: livalidate [flags] mesh.json|mesh.yaml...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{BaseDir: *baseDir, Format: *format, Texconv: config.TexconvDisabled})
	if *requireTex {
		cfg.RequireIntensity = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	f, _ := udim.ParseFormat(cfg.ReportFormat)

	bc := bake.NewContext(config.NewLogger(os.Stderr, config.LogLevel(*verbose, *quiet)))
	paths := flag.Args()

	ok := run(cfg, bc, paths, f, *out, *fix)
	if !*watchFiles {
		if !ok {
			os.Exit(1)
		}
		return
	}

	w, err := watch.New(paths, watch.DefaultDebounce)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintf(os.Stderr, "Watching %d file(s), Ctrl+C to stop\n", len(paths))
	err = w.Run(ctx, func(path string) {
		bc.Logger.Info("mesh changed", "path", path)
		if doc, err := mesh.Load(path); err == nil {
			for _, m := range doc.Meshes {
				bc.Validation.Invalidate(m.Name)
			}
		}
		bc.Infos.Invalidate(path)
		run(cfg, bc, paths, f, *out, *fix)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run validates all files into one report and reports whether every
// slot passed. With fix, misplaced UV1 layers are shifted and saved first.
func run(cfg config.Config, bc *bake.Context, paths []string, f udim.Format, out string, fix bool) bool {
	report := &udim.Report{}
	ok := true
	for _, p := range paths {
		doc, err := mesh.Load(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			ok = false
			continue
		}
		opts := cfg.ValidateOptions(p, bc)
		if fix {
			shifted := 0
			for _, m := range doc.Refs() {
				shifted += udim.Fix(m, opts)
			}
			if shifted > 0 {
				if err := mesh.Save(p, doc); err != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
					ok = false
					continue
				}
				bc.Logger.Info("shifted UV1 into UDIM tiles", "path", p, "faces", shifted)
			}
		}
		r := udim.Validate(doc.Meshes, opts)
		report.Results = append(report.Results, r.Results...)
	}

	w := os.Stdout
	if out != "" {
		file, err := os.Create(out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return false
		}
		defer file.Close()
		w = file
	}
	if err := report.Write(w, f); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		return false
	}
	if out != "" {
		fmt.Printf("Report: %s (%d passed, %d failed)\n", out, report.Passed(), report.Failed())
	}
	return ok && report.OK()
}
