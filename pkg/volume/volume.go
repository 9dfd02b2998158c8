// Package volume provides dense 3D voxel volumes with physical metadata
// (spacing, origin, orientation) and the region utilities the rest of the
// pipeline is built on.
//
// Volumes are row-major with X fastest: index = x + y*DimX + z*DimX*DimY.
// Each volume owns its backing slice exclusively; operations that modify
// a volume either mutate the receiver by explicit contract or return a
// fresh copy.
package volume

import "fmt"

// Element constrains the voxel value types carried by a Volume3D:
// 1-byte labels, 16-bit intensities, and float intensities.
type Element interface {
	~uint8 | ~int16 | ~uint16 | ~float32 | ~float64
}

// Labels used by binary masks.
const (
	Background uint8 = 0
	Foreground uint8 = 1
)

// Spacing is the physical voxel size in mm per axis.
type Spacing struct {
	X, Y, Z float64
}

// Point3D is a physical 3D coordinate in mm.
type Point3D struct {
	X, Y, Z float64
}

// Volume3D is a dense 3D array of voxels with immutable grid metadata.
type Volume3D[T Element] struct {
	DimX, DimY, DimZ int

	Spacing Spacing
	Origin  Point3D

	// Direction is a row-major 3x3 direction cosine matrix mapping voxel
	// axes to physical axes.
	Direction [9]float64

	Data []T
}

// Identity is the default direction matrix.
var Identity = [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}

// New creates a zero-filled volume with the given dimensions, 1mm
// isotropic spacing, zero origin and identity orientation.
func New[T Element](dimX, dimY, dimZ int) *Volume3D[T] {
	return &Volume3D[T]{
		DimX:      dimX,
		DimY:      dimY,
		DimZ:      dimZ,
		Spacing:   Spacing{X: 1, Y: 1, Z: 1},
		Direction: Identity,
		Data:      make([]T, dimX*dimY*dimZ),
	}
}

// NewLike creates a zero-filled volume of element type T on the same grid
// (dimensions, spacing, origin, direction) as v.
func NewLike[T, U Element](v *Volume3D[U]) *Volume3D[T] {
	return &Volume3D[T]{
		DimX:      v.DimX,
		DimY:      v.DimY,
		DimZ:      v.DimZ,
		Spacing:   v.Spacing,
		Origin:    v.Origin,
		Direction: v.Direction,
		Data:      make([]T, v.DimX*v.DimY*v.DimZ),
	}
}

// Clone returns a deep copy of v.
func (v *Volume3D[T]) Clone() *Volume3D[T] {
	out := NewLike[T](v)
	copy(out.Data, v.Data)
	return out
}

// Len returns the number of voxels.
func (v *Volume3D[T]) Len() int { return v.DimX * v.DimY * v.DimZ }

// Index returns the linear index of (x, y, z). No bounds check.
func (v *Volume3D[T]) Index(x, y, z int) int {
	return x + y*v.DimX + z*v.DimX*v.DimY
}

// Coords returns the (x, y, z) coordinates of a linear index.
func (v *Volume3D[T]) Coords(i int) (x, y, z int) {
	x = i % v.DimX
	y = (i / v.DimX) % v.DimY
	z = i / (v.DimX * v.DimY)
	return
}

// IsValid reports whether (x, y, z) lies inside the volume.
func (v *Volume3D[T]) IsValid(x, y, z int) bool {
	return x >= 0 && x < v.DimX && y >= 0 && y < v.DimY && z >= 0 && z < v.DimZ
}

// Get returns the voxel value at (x, y, z), or the zero value when the
// coordinates fall outside the volume.
func (v *Volume3D[T]) Get(x, y, z int) T {
	if !v.IsValid(x, y, z) {
		var zero T
		return zero
	}
	return v.Data[v.Index(x, y, z)]
}

// Set writes the voxel value at (x, y, z). Writes outside the volume are
// ignored.
func (v *Volume3D[T]) Set(x, y, z int, val T) {
	if !v.IsValid(x, y, z) {
		return
	}
	v.Data[v.Index(x, y, z)] = val
}

// VoxelVolume returns the physical volume of one voxel in mm^3.
func (v *Volume3D[T]) VoxelVolume() float64 {
	return v.Spacing.X * v.Spacing.Y * v.Spacing.Z
}

// PhysicalPoint maps voxel coordinates to a physical point using the
// spacing, direction and origin.
func (v *Volume3D[T]) PhysicalPoint(x, y, z int) Point3D {
	sx := float64(x) * v.Spacing.X
	sy := float64(y) * v.Spacing.Y
	sz := float64(z) * v.Spacing.Z
	d := v.Direction
	return Point3D{
		X: v.Origin.X + d[0]*sx + d[1]*sy + d[2]*sz,
		Y: v.Origin.Y + d[3]*sx + d[4]*sy + d[5]*sz,
		Z: v.Origin.Z + d[6]*sx + d[7]*sy + d[8]*sz,
	}
}

// SameGrid reports whether two volumes share dimensions and spacing.
func SameGrid[T, U Element](a *Volume3D[T], b *Volume3D[U]) bool {
	return a.DimX == b.DimX && a.DimY == b.DimY && a.DimZ == b.DimZ &&
		a.Spacing == b.Spacing
}

// CheckSameGrid returns an IncompatibleVolumeError when the two volumes
// do not share a grid.
func CheckSameGrid[T, U Element](a *Volume3D[T], b *Volume3D[U]) error {
	if !SameGrid(a, b) {
		return &IncompatibleVolumeError{
			WantDims: [3]int{a.DimX, a.DimY, a.DimZ},
			GotDims:  [3]int{b.DimX, b.DimY, b.DimZ},
		}
	}
	return nil
}

// MapInPlace applies fn to every voxel, mutating the receiver. The caller
// must be the sole owner of the backing array while the call is in flight.
func (v *Volume3D[T]) MapInPlace(fn func(T) T) {
	for i, val := range v.Data {
		v.Data[i] = fn(val)
	}
}

// Map returns a new volume with fn applied to every voxel.
func (v *Volume3D[T]) Map(fn func(T) T) *Volume3D[T] {
	out := NewLike[T](v)
	for i, val := range v.Data {
		out.Data[i] = fn(val)
	}
	return out
}

// Union returns a mask that is foreground wherever any input mask is
// foreground. All masks must share a grid with the first.
func Union(masks ...*Volume3D[uint8]) (*Volume3D[uint8], error) {
	if len(masks) == 0 {
		return nil, &InvalidArgumentError{Msg: "union of zero masks"}
	}
	out := masks[0].Clone()
	for _, m := range masks[1:] {
		if err := CheckSameGrid(masks[0], m); err != nil {
			return nil, err
		}
		for i, val := range m.Data {
			if val > 0 {
				out.Data[i] = Foreground
			}
		}
	}
	return out, nil
}

func (v *Volume3D[T]) String() string {
	return fmt.Sprintf("Volume3D(%dx%dx%d, spacing %.3gx%.3gx%.3g mm)",
		v.DimX, v.DimY, v.DimZ, v.Spacing.X, v.Spacing.Y, v.Spacing.Z)
}
