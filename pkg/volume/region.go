package volume

import (
	"fmt"
	"runtime"
	"sync"
)

// Region3D is an axis-aligned integer box with inclusive bounds. The
// canonical empty region has MaxX < MinX; all region consumers must check
// IsEmpty before indexing.
type Region3D struct {
	MinX, MaxX int
	MinY, MaxY int
	MinZ, MaxZ int
}

// EmptyRegion returns the canonical empty region.
func EmptyRegion() Region3D {
	return Region3D{MinX: 0, MaxX: -1, MinY: 0, MaxY: -1, MinZ: 0, MaxZ: -1}
}

// IsEmpty reports whether the region contains no voxels.
func (r Region3D) IsEmpty() bool {
	return r.MaxX < r.MinX || r.MaxY < r.MinY || r.MaxZ < r.MinZ
}

// Contains reports whether (x, y, z) lies inside the region.
func (r Region3D) Contains(x, y, z int) bool {
	return x >= r.MinX && x <= r.MaxX &&
		y >= r.MinY && y <= r.MaxY &&
		z >= r.MinZ && z <= r.MaxZ
}

// SizeX returns the region extent in voxels along X, 0 when empty.
func (r Region3D) SizeX() int { return max(0, r.MaxX-r.MinX+1) }

// SizeY returns the region extent in voxels along Y, 0 when empty.
func (r Region3D) SizeY() int { return max(0, r.MaxY-r.MinY+1) }

// SizeZ returns the region extent in voxels along Z, 0 when empty.
func (r Region3D) SizeZ() int { return max(0, r.MaxZ-r.MinZ+1) }

// NumVoxels returns the number of voxels covered by the region.
func (r Region3D) NumVoxels() int { return r.SizeX() * r.SizeY() * r.SizeZ() }

// union merges two non-empty partial regions; empty operands are ignored.
func (r Region3D) union(o Region3D) Region3D {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	return Region3D{
		MinX: min(r.MinX, o.MinX), MaxX: max(r.MaxX, o.MaxX),
		MinY: min(r.MinY, o.MinY), MaxY: max(r.MaxY, o.MaxY),
		MinZ: min(r.MinZ, o.MinZ), MaxZ: max(r.MaxZ, o.MaxZ),
	}
}

func (r Region3D) String() string {
	if r.IsEmpty() {
		return "Region3D(empty)"
	}
	return fmt.Sprintf("Region3D([%d..%d]x[%d..%d]x[%d..%d])",
		r.MinX, r.MaxX, r.MinY, r.MaxY, r.MinZ, r.MaxZ)
}

// InterestRegion returns the smallest region enclosing all voxels with
// value >= threshold, scanning Z-slices in parallel. Returns the
// canonical empty region when no voxel meets the threshold.
func InterestRegion[T Element](v *Volume3D[T], threshold T) Region3D {
	workers := runtime.NumCPU()
	if workers > v.DimZ {
		workers = v.DimZ
	}
	if workers < 1 {
		workers = 1
	}

	partials := make([]Region3D, workers)
	chunk := (v.DimZ + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		z0 := w * chunk
		z1 := min(z0+chunk, v.DimZ)
		if z0 >= z1 {
			partials[w] = EmptyRegion()
			continue
		}
		wg.Add(1)
		go func(w, z0, z1 int) {
			defer wg.Done()
			partials[w] = scanRange(v, threshold, z0, z1)
		}(w, z0, z1)
	}
	wg.Wait()

	region := EmptyRegion()
	for _, p := range partials {
		region = region.union(p)
	}
	return region
}

// scanRange computes the interest region of slices [z0, z1).
func scanRange[T Element](v *Volume3D[T], threshold T, z0, z1 int) Region3D {
	r := EmptyRegion()
	found := false
	sliceLen := v.DimX * v.DimY
	for z := z0; z < z1; z++ {
		base := z * sliceLen
		for y := 0; y < v.DimY; y++ {
			row := base + y*v.DimX
			for x := 0; x < v.DimX; x++ {
				if v.Data[row+x] < threshold {
					continue
				}
				if !found {
					r = Region3D{MinX: x, MaxX: x, MinY: y, MaxY: y, MinZ: z, MaxZ: z}
					found = true
					continue
				}
				if x < r.MinX {
					r.MinX = x
				}
				if x > r.MaxX {
					r.MaxX = x
				}
				if y < r.MinY {
					r.MinY = y
				}
				if y > r.MaxY {
					r.MaxY = y
				}
				// z scans upward only
				r.MaxZ = z
			}
		}
	}
	return r
}

// Crop copies the voxels covered by region into a new volume on the same
// spacing with a shifted origin. Fails with ErrInvalidRegion when the
// region is empty.
func Crop[T Element](v *Volume3D[T], region Region3D) (*Volume3D[T], error) {
	if region.IsEmpty() {
		return nil, ErrInvalidRegion
	}
	out := &Volume3D[T]{
		DimX:      region.SizeX(),
		DimY:      region.SizeY(),
		DimZ:      region.SizeZ(),
		Spacing:   v.Spacing,
		Origin:    v.PhysicalPoint(region.MinX, region.MinY, region.MinZ),
		Direction: v.Direction,
		Data:      make([]T, region.NumVoxels()),
	}
	for z := region.MinZ; z <= region.MaxZ; z++ {
		for y := region.MinY; y <= region.MaxY; y++ {
			src := v.Index(region.MinX, y, z)
			dst := out.Index(0, y-region.MinY, z-region.MinZ)
			copy(out.Data[dst:dst+out.DimX], v.Data[src:src+out.DimX])
		}
	}
	return out, nil
}
