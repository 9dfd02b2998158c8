// Package contour extracts polygon contours from binary mask slices:
// boundary tracing of connected foreground regions (outer rings and hole
// rings), optional smoothing of the traced point sequence, and splicing
// of nested rings into a single polygon via a vertical connecting
// channel.
//
// Coordinate convention: traced points are voxel corners. Raw lattice
// corner (x, y) is the top-left corner of pixel (x, y); published
// polygons are shifted by -0.5 so pixel centers sit at integer
// coordinates. Y grows downward; outer rings wind clockwise on screen,
// hole rings counter-clockwise.
package contour

import (
	"runtime"
	"sync"

	"github.com/radforge/voxelstats/pkg/volume"
)

// Smoothing selects how traced boundaries are post-processed.
type Smoothing int

const (
	// SmoothingNone returns the raw traced boundary with the -0.5 corner
	// offset applied and no shape change.
	SmoothingNone Smoothing = iota
	// SmoothingSmall cuts sharp right-angle corners with diagonals and
	// collapses the resulting collinear runs.
	SmoothingSmall
)

// Point is a 2D polygon vertex.
type Point struct {
	X, Y float64
}

// IntPoint is an integer lattice point.
type IntPoint struct {
	X, Y int
}

// Ring is a closed polygon. The closing edge from the last point back to
// the first is implicit.
type Ring struct {
	Points []Point
	// Inner marks hole rings (counter-clockwise).
	Inner bool
	// Slice is the Z index the ring was traced from.
	Slice int
	// Start is the ring point of minimum Y (topmost), used when splicing
	// a hole into its enclosing ring. Only meaningful for inner rings.
	Start Point
}

// InnerOuterPolygon groups one outer ring with the hole rings of the
// same connected region.
type InnerOuterPolygon struct {
	Outer  Ring
	Inners []Ring
}

// SlicePolygons holds the polygons of one Z slice.
type SlicePolygons struct {
	Slice    int
	Polygons []InnerOuterPolygon
}

// SignedArea returns the shoelace area of the ring. Positive for
// clockwise rings in screen coordinates (Y down), negative for
// counter-clockwise.
func (r Ring) SignedArea() float64 {
	var sum float64
	n := len(r.Points)
	for i := 0; i < n; i++ {
		a := r.Points[i]
		b := r.Points[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	// With Y growing downward a clockwise ring accumulates a positive sum.
	return sum / 2
}

// TraceSlice traces every connected foreground region of a 2D label
// slice into an outer ring plus its hole rings, applying the requested
// smoothing to each ring. data is row-major, length w*h; values > 0 are
// foreground.
func TraceSlice(data []uint8, w, h int, smoothing Smoothing) ([]InnerOuterPolygon, error) {
	if len(data) != w*h {
		return nil, &volume.InvalidArgumentError{Msg: "slice length does not match dimensions"}
	}
	raw := traceRaw(data, w, h)

	polygons := make([]InnerOuterPolygon, 0, len(raw))
	for _, region := range raw {
		if region.outer == nil {
			// A hole ring with no enclosing outer contour on this slice.
			return nil, &volume.InconsistentGeometryError{Msg: "hole contour without an outer contour"}
		}
		p := InnerOuterPolygon{Outer: finishRing(region.outer, false, smoothing)}
		for _, hole := range region.holes {
			p.Inners = append(p.Inners, finishRing(hole, true, smoothing))
		}
		polygons = append(polygons, p)
	}
	return polygons, nil
}

// TraceVolume traces every Z slice of a mask in parallel and returns the
// non-empty slices in ascending order.
func TraceVolume(mask *volume.Volume3D[uint8], smoothing Smoothing) ([]SlicePolygons, error) {
	results := make([][]InnerOuterPolygon, mask.DimZ)
	errs := make([]error, mask.DimZ)

	workers := runtime.NumCPU()
	if workers > mask.DimZ {
		workers = mask.DimZ
	}
	sliceLen := mask.DimX * mask.DimY
	var wg sync.WaitGroup
	next := make(chan int, mask.DimZ)
	for z := 0; z < mask.DimZ; z++ {
		next <- z
	}
	close(next)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for z := range next {
				data := mask.Data[z*sliceLen : (z+1)*sliceLen]
				results[z], errs[z] = TraceSlice(data, mask.DimX, mask.DimY, smoothing)
			}
		}()
	}
	wg.Wait()

	var out []SlicePolygons
	for z := 0; z < mask.DimZ; z++ {
		if errs[z] != nil {
			return nil, errs[z]
		}
		if len(results[z]) == 0 {
			continue
		}
		for i := range results[z] {
			results[z][i].Outer.Slice = z
			for j := range results[z][i].Inners {
				results[z][i].Inners[j].Slice = z
			}
		}
		out = append(out, SlicePolygons{Slice: z, Polygons: results[z]})
	}
	return out, nil
}

// finishRing converts a raw lattice ring into a published Ring,
// smoothing and shifting to the -0.5 corner convention.
func finishRing(lattice []IntPoint, inner bool, smoothing Smoothing) Ring {
	var pts []Point
	switch smoothing {
	case SmoothingSmall:
		pts = smoothSmall(lattice)
	default:
		pts = make([]Point, len(lattice))
		for i, p := range lattice {
			pts[i] = Point{X: float64(p.X), Y: float64(p.Y)}
		}
	}
	for i := range pts {
		pts[i].X -= 0.5
		pts[i].Y -= 0.5
	}
	r := Ring{Points: pts, Inner: inner}
	if inner {
		start := minYPoint(lattice)
		r.Start = Point{X: float64(start.X) - 0.5, Y: float64(start.Y) - 0.5}
	}
	return r
}

// minYPoint returns the lattice point with minimum Y, ties broken toward
// minimum X.
func minYPoint(pts []IntPoint) IntPoint {
	best := pts[0]
	for _, p := range pts[1:] {
		if p.Y < best.Y || (p.Y == best.Y && p.X < best.X) {
			best = p
		}
	}
	return best
}
