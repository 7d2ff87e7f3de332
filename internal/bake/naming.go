package bake

import (
	"path/filepath"
	"strings"

	"i3d-lightbake/internal/mesh"
)

// DefaultBaseName is used when nothing better names the output.
const DefaultBaseName = "LightIntensity"

// MergedBaseName names textures baked from several meshes at once.
const MergedBaseName = "merged"

var unsafeFilenameChars = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", `"`, "_", "/", "_", `\`, "_", "|", "_", "?", "_", "*", "_",
)

// SafeFilenameBase turns name into a base file name without characters that
// break Windows paths or mod archives.
func SafeFilenameBase(name string) string {
	s := unsafeFilenameChars.Replace(name)
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	if s == "" {
		return DefaultBaseName
	}
	return s
}

// baseName picks the output name: an explicit name without its extension,
// "merged" for several meshes, else the first light material or mesh name.
func baseName(explicit string, meshes []*mesh.Mesh, tris []mesh.Triangle) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return SafeFilenameBase(strings.TrimSuffix(explicit, filepath.Ext(explicit)))
	}
	if len(meshes) > 1 {
		return MergedBaseName
	}
	if len(tris) > 0 && tris[0].Material != "" {
		return SafeFilenameBase(tris[0].Material)
	}
	if len(meshes) == 1 {
		return SafeFilenameBase(meshes[0].Name)
	}
	return DefaultBaseName
}

// OutputPath returns the texture path Bake would write for meshes.
func OutputPath(meshes []*mesh.Mesh, opts Options) string {
	var tris []mesh.Triangle
	for _, m := range meshes {
		if mt, err := mesh.Scan(m); err == nil && len(mt) > 0 {
			tris = mt
			break
		}
	}
	return filepath.Join(opts.OutputDir, baseName(opts.BaseName, meshes, tris)+".dds")
}
