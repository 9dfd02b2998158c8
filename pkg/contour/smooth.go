package contour

import "math"

// The Small smoother re-encodes the traced boundary as a turtle walk
// (forward / turn-left / turn-right between unit steps) and runs the
// walk through a code-book that replaces every right-angle turn with a
// diagonal cut: the corner vertex is substituted by the two points half
// a step before and after it. Staircase runs collapse into straight
// diagonals once the redundant-point remover folds the collinear chain.

type move int8

const (
	moveForward move = iota
	moveLeft
	moveRight
)

// encodeWalk derives the turn preceding each unit step of a closed
// lattice ring. moves[i] is the turn taken at vertex i, arriving from
// vertex i-1 (cyclically).
func encodeWalk(pts []IntPoint) []move {
	n := len(pts)
	moves := make([]move, n)
	for i := 0; i < n; i++ {
		prev := pts[(i-1+n)%n]
		cur := pts[i]
		next := pts[(i+1)%n]
		inDX, inDY := cur.X-prev.X, cur.Y-prev.Y
		outDX, outDY := next.X-cur.X, next.Y-cur.Y
		cross := inDX*outDY - inDY*outDX
		switch {
		case cross > 0:
			moves[i] = moveRight
		case cross < 0:
			moves[i] = moveLeft
		default:
			moves[i] = moveForward
		}
	}
	return moves
}

// smoothSmall applies the code-book smoother to a raw lattice ring and
// removes redundant points. Output is in lattice coordinates; the caller
// applies the corner offset.
func smoothSmall(lattice []IntPoint) []Point {
	n := len(lattice)
	if n < 4 {
		pts := make([]Point, n)
		for i, p := range lattice {
			pts[i] = Point{X: float64(p.X), Y: float64(p.Y)}
		}
		return pts
	}

	moves := encodeWalk(lattice)
	out := make([]Point, 0, 2*n)
	for i, m := range moves {
		cur := lattice[i]
		if m == moveForward {
			out = append(out, Point{X: float64(cur.X), Y: float64(cur.Y)})
			continue
		}
		// Cut the corner: half a step back along the incoming edge, half
		// a step on along the outgoing edge.
		prev := lattice[(i-1+n)%n]
		next := lattice[(i+1)%n]
		out = append(out,
			Point{
				X: float64(cur.X) - 0.5*float64(cur.X-prev.X),
				Y: float64(cur.Y) - 0.5*float64(cur.Y-prev.Y),
			},
			Point{
				X: float64(cur.X) + 0.5*float64(next.X-cur.X),
				Y: float64(cur.Y) + 0.5*float64(next.Y-cur.Y),
			},
		)
	}
	return RemoveRedundantPoints(out)
}

// RemoveRedundantPoints drops consecutive duplicate points and collapses
// collinear runs of a closed ring.
func RemoveRedundantPoints(pts []Point) []Point {
	const eps = 1e-9

	// Duplicates first, including the wraparound pair.
	dedup := make([]Point, 0, len(pts))
	for _, p := range pts {
		if len(dedup) > 0 && samePoint(dedup[len(dedup)-1], p, eps) {
			continue
		}
		dedup = append(dedup, p)
	}
	for len(dedup) > 1 && samePoint(dedup[0], dedup[len(dedup)-1], eps) {
		dedup = dedup[:len(dedup)-1]
	}

	if len(dedup) < 3 {
		return dedup
	}

	// Collapse collinear triples until stable; a removal can make its
	// neighbors collinear in turn.
	for {
		removed := false
		kept := make([]Point, 0, len(dedup))
		n := len(dedup)
		for i := 0; i < n; i++ {
			a := dedup[(i-1+n)%n]
			b := dedup[i]
			c := dedup[(i+1)%n]
			cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
			if math.Abs(cross) < eps {
				removed = true
				continue
			}
			kept = append(kept, b)
		}
		dedup = kept
		if !removed || len(dedup) < 3 {
			return dedup
		}
	}
}

func samePoint(a, b Point, eps float64) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}
