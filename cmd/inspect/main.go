package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"i3d-lightbake/internal/bake"
	"i3d-lightbake/internal/dds"
	"i3d-lightbake/internal/lighttype"
	"i3d-lightbake/internal/mathutil"
	"i3d-lightbake/internal/mesh"
	"i3d-lightbake/internal/texture"
)

func main() {
	res := flag.Int("res", bake.DefaultTileResolution, "Tile resolution used for the planned texture size of meshes")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: inspect [flags] file.dds|file.png|mesh.json...\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	failed := false
	for _, path := range flag.Args() {
		var ok bool
		switch strings.ToLower(filepath.Ext(path)) {
		case ".dds":
			ok = inspectDDS(path)
		case ".json", ".yaml", ".yml":
			ok = inspectMesh(path, *res)
		default:
			ok = inspectImage(path)
		}
		if !ok {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func inspectDDS(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		fmt.Printf("%s: %v\n", path, err)
		return false
	}
	defer f.Close()

	info, err := dds.ReadInfo(f)
	if err != nil {
		fmt.Printf("%s: no header information (%v), power-of-two not confirmed\n", path, err)
		return false
	}
	fmt.Printf("%s: %s\n", path, info)
	if !info.PowerOfTwo() {
		fmt.Printf("  LightIntensity DDS must be power-of-two (found %dx%d)\n", info.Width, info.Height)
		return false
	}
	return true
}

func inspectImage(path string) bool {
	img, err := texture.LoadImage(path)
	if err != nil {
		fmt.Printf("%s: %v\n", path, err)
		return false
	}
	b := img.Bounds()
	fmt.Printf("%s: %dx%d\n", path, b.Dx(), b.Dy())
	if !mathutil.IsPowerOfTwo(b.Dx()) || !mathutil.IsPowerOfTwo(b.Dy()) {
		fmt.Printf("  not power-of-two\n")
	}
	return true
}

func inspectMesh(path string, res int) bool {
	doc, err := mesh.Load(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return false
	}
	fmt.Printf("%s: %d mesh(es)\n", path, len(doc.Meshes))

	var all []mesh.Triangle
	for i := range doc.Meshes {
		m := &doc.Meshes[i]
		layers := make([]string, len(m.UVLayers))
		for k, l := range m.UVLayers {
			layers[k] = l.Name
		}
		fmt.Printf("  Mesh %q: polygons=%d, loops=%d, uv layers=[%s], colors=%d\n",
			m.Name, len(m.Polygons), m.LoopCount(), strings.Join(layers, ", "), len(m.Colors))

		slots := m.LightSlots()
		order := make([]int, 0, len(slots))
		for s := range slots {
			order = append(order, s)
		}
		sort.Ints(order)
		for _, s := range order {
			tile := "unknown"
			if t, ok := lighttype.Tile(slots[s]); ok {
				tile = t.String()
			}
			fmt.Printf("    slot %d %q: %s, tile %s, faces=%d, %s=%q\n",
				s, m.Materials[s].Name, slots[s], tile, len(m.SlotPolygons(s)),
				lighttype.PropIntensity, m.Materials[s].Props[lighttype.PropIntensity])
		}

		tris, err := mesh.Scan(m)
		if err != nil {
			fmt.Printf("    %v\n", err)
			continue
		}
		all = append(all, tris...)
	}

	rect, ok := mesh.PrimaryBounds(all)
	if !ok {
		fmt.Printf("  no light-material triangles\n")
		return true
	}
	du, dv := rect.Extent()
	w, h := mathutil.PlanDimensions(du, dv, res)
	fmt.Printf("  Triangles: %d\n", len(all))
	fmt.Printf("  UV0 bounds: U[%.4f, %.4f] V[%.4f, %.4f]\n", rect.MinU, rect.MaxU, rect.MinV, rect.MaxV)
	fmt.Printf("  Planned texture: %dx%d (tile resolution %d)\n", w, h, res)
	return true
}
