package postprocess

import (
	"i3d-lightbake/internal/mathutil"
	"i3d-lightbake/internal/raster"
)

var (
	dx = [8]int{-1, 0, 1, -1, 1, -1, 0, 1}
	dy = [8]int{-1, -1, -1, 0, 0, 1, 1, 1}
)

// Dilate grows the covered area of b outward by up to passes pixels. Each
// new pixel takes the average of its already-covered 8-neighbors, so texture
// filtering near island borders does not pull in the black background.
// It returns the number of pixels filled.
func Dilate(b *raster.Buffer, passes int) int {
	if passes <= 0 {
		return 0
	}
	w, h := b.Width, b.Height

	filled := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			filled[y*w+x] = b.Written(x, y)
		}
	}

	queued := make([]bool, w*h)
	frontier := make([]int, 0, 1024)
	push := func(cx, cy int) {
		for d := 0; d < 8; d++ {
			nx, ny := cx+dx[d], cy+dy[d]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			ni := ny*w + nx
			if !filled[ni] && !queued[ni] {
				queued[ni] = true
				frontier = append(frontier, ni)
			}
		}
	}
	for i, ok := range filled {
		if ok {
			push(i%w, i/w)
		}
	}

	total := 0
	colors := make([]mathutil.Color, 0, 1024)
	for pass := 0; pass < passes && len(frontier) > 0; pass++ {
		ring := frontier
		frontier = make([]int, 0, len(ring))

		// Average against the state before this ring so results do not
		// depend on scan order.
		colors = colors[:0]
		for _, idx := range ring {
			cx, cy := idx%w, idx/w
			var sum mathutil.Color
			n := 0
			for d := 0; d < 8; d++ {
				nx, ny := cx+dx[d], cy+dy[d]
				if nx < 0 || nx >= w || ny < 0 || ny >= h || !filled[ny*w+nx] {
					continue
				}
				c := b.At(nx, ny)
				for k := range sum {
					sum[k] += c[k]
				}
				n++
			}
			if n > 0 {
				for k := range sum {
					sum[k] /= float64(n)
				}
			}
			colors = append(colors, sum)
		}

		for i, idx := range ring {
			b.Set(idx%w, idx/w, colors[i])
			filled[idx] = true
		}
		total += len(ring)
		for _, idx := range ring {
			push(idx%w, idx/w)
		}
	}
	return total
}
