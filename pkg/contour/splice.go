package contour

import (
	"fmt"
	"math"

	"github.com/radforge/voxelstats/pkg/volume"
)

// Splice merges an outer ring and its hole rings into a single closed
// polygon. Each hole is connected to the enclosing ring through a
// zero-width vertical channel at the X coordinate of the hole's topmost
// point: the enclosing ring is entered at the crossing of its edge
// directly above that point, the hole ring is entered at its own
// crossing, and the hole is traversed in place before the channel is
// walked back.
//
// Fails with InconsistentGeometryError when no enclosing edge crosses
// above a hole's start point; holes are assumed fully enclosed.
func Splice(p InnerOuterPolygon) (Ring, error) {
	merged := p.Outer
	for _, inner := range p.Inners {
		var err error
		merged, err = spliceOne(merged, inner)
		if err != nil {
			return Ring{}, err
		}
	}
	return merged, nil
}

// crossing is an intersection of a ring edge with a vertical line. Edge
// i runs from point i to point i+1 (cyclically).
type crossing struct {
	edge int
	y    float64
}

// spliceOne splices a single inner ring into outer.
func spliceOne(outer, inner Ring) (Ring, error) {
	x0 := inner.Start.X
	y0 := inner.Start.Y

	// Enclosing edge: among crossings at or above the start point, the
	// closest from above (largest Y).
	outCross, ok := pickCrossing(outer.Points, x0, func(c, best crossing) bool {
		return c.y <= y0 && (!ok0(best) || c.y > best.y)
	})
	if !ok {
		return Ring{}, &volume.InconsistentGeometryError{
			Msg: fmt.Sprintf("no enclosing edge above hole start (%.3f, %.3f)", x0, y0),
		}
	}

	// The hole's own crossing: smallest Y, no constraint.
	inCross, ok := pickCrossing(inner.Points, x0, func(c, best crossing) bool {
		return !ok0(best) || c.y < best.y
	})
	if !ok {
		return Ring{}, &volume.InconsistentGeometryError{
			Msg: fmt.Sprintf("hole has no edge crossing x=%.3f", x0),
		}
	}

	cOut := Point{X: x0, Y: outCross.y}
	cIn := Point{X: x0, Y: inCross.y}

	n := len(outer.Points)
	m := len(inner.Points)
	pts := make([]Point, 0, n+m+4)
	pts = append(pts, outer.Points[:outCross.edge+1]...)
	pts = append(pts, cOut, cIn)
	for k := 1; k <= m; k++ {
		pts = append(pts, inner.Points[(inCross.edge+k)%m])
	}
	pts = append(pts, cIn, cOut)
	pts = append(pts, outer.Points[outCross.edge+1:]...)

	return Ring{Points: pts, Slice: outer.Slice}, nil
}

// ok0 reports whether best holds a real crossing (edge >= 0).
func ok0(c crossing) bool { return c.edge >= 0 }

// pickCrossing scans the edges of a ring for intersections with the
// vertical line at x0 and keeps the one preferred by better.
func pickCrossing(pts []Point, x0 float64, better func(c, best crossing) bool) (crossing, bool) {
	const eps = 1e-9
	best := crossing{edge: -1, y: math.NaN()}
	n := len(pts)
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		lo, hi := a.X, b.X
		if lo > hi {
			lo, hi = hi, lo
		}
		if x0 < lo-eps || x0 > hi+eps {
			continue
		}
		var y float64
		if math.Abs(b.X-a.X) < eps {
			// Vertical edge on the line; both endpoints are candidates.
			for _, cy := range []float64{a.Y, b.Y} {
				c := crossing{edge: i, y: cy}
				if better(c, best) {
					best = c
				}
			}
			continue
		}
		y = a.Y + (x0-a.X)*(b.Y-a.Y)/(b.X-a.X)
		c := crossing{edge: i, y: y}
		if better(c, best) {
			best = c
		}
	}
	return best, best.edge >= 0
}
