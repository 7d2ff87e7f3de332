package texture

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// texconvNames are the executable names tried, in order.
func texconvNames() []string {
	if runtime.GOOS == "windows" {
		return []string{"texconv.exe"}
	}
	return []string{"texconv", "texconv.exe"}
}

// FindTexconv returns the first texconv executable found in dirs (bundled
// copies, each checked directly and in its bin/ subdirectory), then on PATH.
// It returns "" when none is available.
func FindTexconv(dirs ...string) string {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		for _, sub := range []string{dir, filepath.Join(dir, "bin")} {
			for _, name := range texconvNames() {
				p := filepath.Join(sub, name)
				if info, err := os.Stat(p); err == nil && !info.IsDir() {
					return p
				}
			}
		}
	}
	for _, name := range texconvNames() {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	return ""
}
