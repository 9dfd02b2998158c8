package contour

// Boundary tracing walks the cracks between foreground and background
// pixels, keeping foreground on the right of the travel direction. Outer
// boundaries come out clockwise (screen coordinates, Y down), hole
// boundaries counter-clockwise.

// tracedRegion collects the rings of one 8-connected foreground region.
type tracedRegion struct {
	outer []IntPoint
	holes [][]IntPoint
}

type direction int

const (
	east direction = iota
	south
	west
	north
)

func (d direction) vec() (int, int) {
	switch d {
	case east:
		return 1, 0
	case south:
		return 0, 1
	case west:
		return -1, 0
	default:
		return 0, -1
	}
}

func (d direction) left() direction  { return (d + 3) % 4 }
func (d direction) right() direction { return (d + 1) % 4 }

// traceRaw labels the slice and walks every boundary ring, grouped by
// region label.
func traceRaw(data []uint8, w, h int) []*tracedRegion {
	labels, count := label8(data, w, h)
	if count == 0 {
		return nil
	}
	regions := make([]*tracedRegion, count)

	// Every ring, outer or hole, contains at least one "top crack": a
	// foreground pixel with background directly above. Scanning those
	// finds each ring exactly once.
	visited := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if labels[i] == 0 || visited[i] {
				continue
			}
			if y > 0 && labels[i-w] != 0 {
				continue
			}
			ring := walkRing(labels, w, h, labels[i], x, y, visited)
			reg := regions[labels[i]-1]
			if reg == nil {
				reg = &tracedRegion{}
				regions[labels[i]-1] = reg
			}
			if signedAreaLattice(ring) > 0 {
				reg.outer = ring
			} else {
				reg.holes = append(reg.holes, ring)
			}
		}
	}

	out := make([]*tracedRegion, 0, count)
	for _, r := range regions {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// walkRing follows the boundary starting at the top crack of pixel
// (px, py), heading east. Corner (x, y) is the top-left corner of pixel
// (x, y). Marks the top cracks it traverses in visited.
func walkRing(labels []int32, w, h int, label int32, px, py int, visited []bool) []IntPoint {
	isFG := func(x, y int) bool {
		return x >= 0 && x < w && y >= 0 && y < h && labels[y*w+x] == label
	}

	start := IntPoint{X: px, Y: py}
	startDir := east
	pos := start
	dir := startDir
	var ring []IntPoint

	// The first move always traverses the east crack out of start (the
	// start pixel is foreground with background above), so returning to
	// start heading east again closes the ring.
	maxSteps := 4*w*h + 8
	for steps := 0; steps < maxSteps; steps++ {
		if len(ring) > 0 && pos == start && dir == startDir {
			return ring
		}
		lx, ly, rx, ry := aheadPixels(pos, dir)
		switch {
		case isFG(lx, ly):
			dir = dir.left()
		case isFG(rx, ry):
			// Move straight along the crack.
			if dir == east {
				visited[ry*w+rx] = true
			}
			dx, dy := dir.vec()
			pos = IntPoint{X: pos.X + dx, Y: pos.Y + dy}
			ring = append(ring, pos)
		default:
			dir = dir.right()
		}
	}
	// Unreachable for well-formed masks; the step bound guards against a
	// corrupted labels buffer.
	return ring
}

// aheadPixels returns the pixels left and right of the crack that would
// be traversed by moving straight from corner pos in direction dir.
func aheadPixels(pos IntPoint, dir direction) (lx, ly, rx, ry int) {
	switch dir {
	case east:
		return pos.X, pos.Y - 1, pos.X, pos.Y
	case south:
		return pos.X, pos.Y, pos.X - 1, pos.Y
	case west:
		return pos.X - 1, pos.Y, pos.X - 1, pos.Y - 1
	default: // north
		return pos.X - 1, pos.Y - 1, pos.X, pos.Y - 1
	}
}

// signedAreaLattice is the screen-oriented shoelace area of a lattice
// ring: positive clockwise, negative counter-clockwise.
func signedAreaLattice(pts []IntPoint) float64 {
	var sum int
	n := len(pts)
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return float64(sum) / 2
}

// label8 labels 8-connected foreground components of a 2D slice.
// Labels run from 1 to count.
func label8(data []uint8, w, h int) ([]int32, int) {
	labels := make([]int32, w*h)
	count := 0

	// Iterative flood fill with an explicit stack; recursion depth on
	// large slices is not acceptable.
	stack := make([]int, 0, 64)
	for start := range data {
		if data[start] == 0 || labels[start] != 0 {
			continue
		}
		count++
		lab := int32(count)
		labels[start] = lab
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%w, i/w
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					j := ny*w + nx
					if data[j] != 0 && labels[j] == 0 {
						labels[j] = lab
						stack = append(stack, j)
					}
				}
			}
		}
	}
	return labels, count
}
