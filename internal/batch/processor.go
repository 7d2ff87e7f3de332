package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"i3d-lightbake/internal/bake"
	"i3d-lightbake/internal/config"
	"i3d-lightbake/internal/mesh"
	"i3d-lightbake/internal/udim"
)

// Mode selects what Run does with each mesh file.
type Mode int

const (
	// Bake bakes one LightIntensity texture per mesh file.
	Bake Mode = iota
	// Validate runs the UDIM validator on each mesh file.
	Validate
)

// Config holds all shared resources for a batch run.
type Config struct {
	Settings config.Config // resolved and validated
	Context  *bake.Context
	Mode     Mode
	// WriteBack saves updated material properties to the mesh file after
	// a successful bake.
	WriteBack bool
	// ProgressInterval between progress log lines; 2s when zero.
	ProgressInterval time.Duration
}

// Result holds the outcome of processing one mesh file.
type Result struct {
	Mesh       string
	Output     string
	Property   string
	Width      int
	Height     int
	Encoder    string
	Compressed bool
	Warnings   []string
	Report     *udim.Report
	Success    bool
	Error      string
}

type job struct {
	index int
	path  string
	doc   mesh.Document
	err   error
}

// Run processes all mesh files using a worker pool. Bakes that would write
// the same texture run in order on one worker.
func Run(ctx context.Context, cfg Config, paths []string) []Result {
	total := len(paths)
	results := make([]Result, total)
	var processed atomic.Int64
	log := cfg.Context.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	start := time.Now()
	interval := cfg.ProgressInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					log.Info("batch progress", "done", p, "total", total, "per_sec", fmt.Sprintf("%.1f", float64(p)/elapsed))
				}
			}
		}
	}()

	groups := plan(cfg, paths)

	// Worker pool
	workers := cfg.Settings.Workers
	if workers <= 0 {
		workers = 1
	}
	groupChan := make(chan []job, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for group := range groupChan {
				for _, j := range group {
					results[j.index] = process(ctx, cfg, j)
					processed.Add(1)
				}
			}
		}()
	}

	// Send work
	for _, g := range groups {
		groupChan <- g
	}
	close(groupChan)

	wg.Wait()
	close(done)

	return results
}

// plan loads every file and groups bake jobs by output path, keeping
// input order inside each group.
func plan(cfg Config, paths []string) [][]job {
	var groups [][]job
	byOutput := make(map[string]int)
	for i, p := range paths {
		j := job{index: i, path: p}
		j.doc, j.err = mesh.Load(p)

		if cfg.Mode == Bake && j.err == nil {
			out := bake.OutputPath(j.doc.Refs(), cfg.Settings.BakeOptions(p))
			if g, ok := byOutput[out]; ok {
				groups[g] = append(groups[g], j)
				continue
			}
			byOutput[out] = len(groups)
		}
		groups = append(groups, []job{j})
	}
	return groups
}

func process(ctx context.Context, cfg Config, j job) Result {
	if j.err != nil {
		return Result{Mesh: j.path, Error: j.err.Error()}
	}
	if cfg.Mode == Validate {
		return validateFile(cfg, j)
	}
	return bakeFile(ctx, cfg, j)
}

func validateFile(cfg Config, j job) Result {
	opts := cfg.Settings.ValidateOptions(j.path, cfg.Context)
	report := udim.Validate(j.doc.Meshes, opts)
	res := Result{Mesh: j.path, Report: report, Success: report.OK()}
	if !res.Success {
		res.Error = fmt.Sprintf("%d of %d material slot(s) failed", report.Failed(), len(report.Results))
	}
	return res
}

func bakeFile(ctx context.Context, cfg Config, j job) Result {
	out, err := cfg.Context.Bake(ctx, j.doc.Refs(), cfg.Settings.BakeOptions(j.path))
	res := Result{Mesh: j.path}
	if out != nil {
		res.Warnings = out.Warnings
		res.Report = out.Report
	}
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.Output = out.Path
	res.Property = out.Property
	res.Width = out.Width
	res.Height = out.Height
	res.Encoder = out.Encoder
	res.Compressed = out.Compressed

	if cfg.WriteBack {
		if err := mesh.Save(j.path, j.doc); err != nil {
			res.Error = err.Error()
			return res
		}
		if cfg.Context.Validation != nil {
			for _, m := range j.doc.Meshes {
				cfg.Context.Validation.Invalidate(m.Name)
			}
		}
	}
	res.Success = true
	return res
}
