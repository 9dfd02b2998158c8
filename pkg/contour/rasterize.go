package contour

import (
	"math"
	"sort"
)

// Rasterize fills a ring back into a w*h binary slice using even-odd
// scanline filling. Pixel centers sit at integer coordinates, matching
// the -0.5 corner convention of traced polygons, so traced boundaries of
// simple shapes rasterize back to the exact foreground set.
func Rasterize(ring Ring, w, h int) []uint8 {
	out := make([]uint8, w*h)
	RasterizeInto(ring, out, w, h)
	return out
}

// RasterizeInto fills ring into an existing slice buffer.
func RasterizeInto(ring Ring, out []uint8, w, h int) {
	n := len(ring.Points)
	if n < 3 {
		return
	}
	xs := make([]float64, 0, 8)
	for y := 0; y < h; y++ {
		yc := float64(y)
		xs = xs[:0]
		for i := 0; i < n; i++ {
			a := ring.Points[i]
			b := ring.Points[(i+1)%n]
			if (a.Y > yc) == (b.Y > yc) {
				continue
			}
			xs = append(xs, a.X+(yc-a.Y)*(b.X-a.X)/(b.Y-a.Y))
		}
		sort.Float64s(xs)
		for k := 0; k+1 < len(xs); k += 2 {
			// Spans from traced polygons end on half-integers, so no pixel
			// center lands exactly on a span boundary.
			x0 := int(math.Ceil(xs[k]))
			x1 := int(math.Floor(xs[k+1]))
			if x0 < 0 {
				x0 = 0
			}
			if x1 >= w {
				x1 = w - 1
			}
			for x := x0; x <= x1; x++ {
				out[y*w+x] = 1
			}
		}
	}
}
