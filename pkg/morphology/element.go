// Package morphology implements dilation and erosion of 3D binary masks
// by physical-distance margins, using an ellipsoid structuring element and
// connected-component-aware surface painting.
package morphology

// Offset is an integer voxel offset from a structuring element center.
type Offset struct {
	DX, DY, DZ int
}

// StructuringElement holds the voxel offsets of an ellipsoid with the
// given per-axis pixel radii, partitioned into interior offsets and
// surface offsets. An offset is on the surface when moving one voxel
// along any axis exits the ellipsoid. Immutable after construction and
// safe to share across parallel workers.
type StructuringElement struct {
	RX, RY, RZ int

	interior []Offset
	surface  []Offset
}

// NewStructuringElement computes the ellipsoid offsets for the given
// non-negative pixel radii. A zero radius flattens the ellipsoid along
// that axis.
func NewStructuringElement(rx, ry, rz int) *StructuringElement {
	se := &StructuringElement{RX: rx, RY: ry, RZ: rz}
	for dz := -rz; dz <= rz; dz++ {
		for dy := -ry; dy <= ry; dy++ {
			for dx := -rx; dx <= rx; dx++ {
				if !inEllipsoid(dx, dy, dz, rx, ry, rz) {
					continue
				}
				off := Offset{DX: dx, DY: dy, DZ: dz}
				if onSurface(dx, dy, dz, rx, ry, rz) {
					se.surface = append(se.surface, off)
				} else {
					se.interior = append(se.interior, off)
				}
			}
		}
	}
	return se
}

// Interior returns the offsets strictly inside the ellipsoid surface.
func (se *StructuringElement) Interior() []Offset { return se.interior }

// Surface returns the offsets with at least one axis-neighbor outside
// the ellipsoid.
func (se *StructuringElement) Surface() []Offset { return se.surface }

// inEllipsoid evaluates (dx/rx)^2 + (dy/ry)^2 + (dz/rz)^2 <= 1, treating
// a zero radius as a flattened axis: the offset must be zero there.
func inEllipsoid(dx, dy, dz, rx, ry, rz int) bool {
	sum := 0.0
	if rx == 0 {
		if dx != 0 {
			return false
		}
	} else {
		f := float64(dx) / float64(rx)
		sum += f * f
	}
	if ry == 0 {
		if dy != 0 {
			return false
		}
	} else {
		f := float64(dy) / float64(ry)
		sum += f * f
	}
	if rz == 0 {
		if dz != 0 {
			return false
		}
	} else {
		f := float64(dz) / float64(rz)
		sum += f * f
	}
	return sum <= 1.0
}

func onSurface(dx, dy, dz, rx, ry, rz int) bool {
	return !inEllipsoid(dx-1, dy, dz, rx, ry, rz) ||
		!inEllipsoid(dx+1, dy, dz, rx, ry, rz) ||
		!inEllipsoid(dx, dy-1, dz, rx, ry, rz) ||
		!inEllipsoid(dx, dy+1, dz, rx, ry, rz) ||
		!inEllipsoid(dx, dy, dz-1, rx, ry, rz) ||
		!inEllipsoid(dx, dy, dz+1, rx, ry, rz)
}
