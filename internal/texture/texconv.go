package texture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"i3d-lightbake/internal/raster"
)

// Runner executes an external command and returns its exit code.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (code int, output string, err error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (int, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), out.String(), nil
	}
	if err != nil {
		return -1, out.String(), err
	}
	return 0, out.String(), nil
}

// TexconvEncoder writes an 8-bit intermediate image and converts it with
// texconv to legacy-header DXT5 with a full mip chain.
type TexconvEncoder struct {
	Path             string
	Intermediate     ImageFormat // PNG when empty
	KeepIntermediate bool
	Runner           Runner // ExecRunner when nil
}

func (e *TexconvEncoder) Name() string { return "texconv" }

// Args returns the texconv command line for converting in into outDir.
func (e *TexconvEncoder) Args(in, outDir string) []string {
	return []string{
		"-f", "DXT5",
		"-m", "0",
		"-o", outDir,
		"-y",
		in,
	}
}

func (e *TexconvEncoder) Encode(ctx context.Context, buf *raster.Buffer, outPath string) (Result, error) {
	format := e.Intermediate
	if format == "" {
		format = PNG
	}
	if !format.IsIntermediate() {
		return Result{}, fmt.Errorf("texture: %w: %q cannot feed texconv", ErrImageFormat, format)
	}
	runner := e.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	outDir := filepath.Dir(outPath)
	stem := strings.TrimSuffix(filepath.Base(outPath), filepath.Ext(outPath))
	in := filepath.Join(outDir, stem+format.Ext())
	if err := WriteImage(in, buf.ToNRGBA(), format); err != nil {
		return Result{}, err
	}
	if !e.KeepIntermediate {
		defer os.Remove(in)
	}

	candidates := []string{filepath.Join(outDir, stem+".DDS"), filepath.Join(outDir, stem+".dds")}
	before := make(map[string]os.FileInfo, len(candidates))
	for _, p := range candidates {
		if fi, err := os.Stat(p); err == nil {
			before[p] = fi
		}
	}

	code, output, err := runner.Run(ctx, e.Path, e.Args(in, outDir)...)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrCompressorUnavailable, e.Path, err)
	}
	if code != 0 {
		return Result{}, fmt.Errorf("%w: exit code %d: %s", ErrCompressorFailed, code, strings.TrimSpace(output))
	}

	produced := ""
	for _, p := range candidates {
		if fi, err := os.Stat(p); err == nil && !unchanged(before[p], fi) {
			produced = p
			break
		}
	}
	if produced == "" {
		return Result{}, fmt.Errorf("%w: no output for %s", ErrCompressorFailed, in)
	}
	if produced != outPath {
		if err := os.Rename(produced, outPath); err != nil {
			return Result{}, fmt.Errorf("texture: rename %s: %w", produced, err)
		}
	}
	return Result{Path: outPath, Encoder: e.Name(), Compressed: true}, nil
}

// unchanged reports whether after is the same file state as before, which
// means texconv did not write it.
func unchanged(before, after os.FileInfo) bool {
	return before != nil && before.ModTime().Equal(after.ModTime()) && before.Size() == after.Size()
}
