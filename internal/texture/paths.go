package texture

import (
	"os"
	"path/filepath"
	"strings"
)

// EnginePrefix marks texture references resolved by the game engine rather
// than on the local disk.
const EnginePrefix = "$data/"

// IsEngineReference reports whether value points into the engine data tree.
func IsEngineReference(value string) bool {
	return strings.HasPrefix(strings.TrimSpace(value), EnginePrefix)
}

// PortablePath returns target relative to baseDir with forward slashes.
// When target is outside baseDir or on another volume only its base name
// is returned.
func PortablePath(target, baseDir string) string {
	rel, err := filepath.Rel(baseDir, target)
	if err != nil {
		return filepath.Base(target)
	}
	rel = filepath.ToSlash(rel)
	if strings.HasPrefix(rel, "..") || strings.Contains(rel, ":") {
		return filepath.Base(target)
	}
	return rel
}

// ResolveIntensityPath finds the file a customTexture_lightsIntensity value
// refers to. Absolute values are checked as is, relative ones against each
// of dirs in order. Engine references never resolve.
func ResolveIntensityPath(value string, dirs ...string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" || IsEngineReference(value) {
		return "", false
	}
	native := filepath.FromSlash(value)
	if filepath.IsAbs(native) {
		return native, fileExists(native)
	}
	for _, dir := range dirs {
		p := filepath.Join(dir, native)
		if fileExists(p) {
			return p, true
		}
	}
	return "", false
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}
