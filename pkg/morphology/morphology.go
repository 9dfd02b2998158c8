package morphology

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/radforge/voxelstats/pkg/volume"
)

// Dilate grows the foreground of mask by the given physical margins in
// mm, converted to pixel radii per axis via round(margin/spacing). When a
// restriction mask is supplied, voxels may only be painted foreground
// where the restriction is foreground. A nil structuringElement is built
// from the resolved radii. Returns a new volume; the input is not
// modified.
func Dilate(mask *volume.Volume3D[uint8], mmX, mmY, mmZ float64,
	restriction *volume.Volume3D[uint8], se *StructuringElement) (*volume.Volume3D[uint8], error) {
	if restriction != nil {
		if err := volume.CheckSameGrid(mask, restriction); err != nil {
			return nil, err
		}
	}
	return apply(mask, restriction, mmX, mmY, mmZ, se, false)
}

// Erode shrinks the foreground of mask by the given physical margins in
// mm. The resolved pixel radii are reduced by one per axis (minimum 0)
// because the surface sweep always removes one surface layer. Returns a
// new volume; the input is not modified.
func Erode(mask *volume.Volume3D[uint8], mmX, mmY, mmZ float64,
	se *StructuringElement) (*volume.Volume3D[uint8], error) {
	return apply(mask, nil, mmX, mmY, mmZ, se, true)
}

func apply(mask *volume.Volume3D[uint8], restriction *volume.Volume3D[uint8],
	mmX, mmY, mmZ float64, se *StructuringElement, erode bool) (*volume.Volume3D[uint8], error) {
	if mmX < 0 || mmY < 0 || mmZ < 0 {
		return nil, &volume.InvalidArgumentError{
			Msg: fmt.Sprintf("negative margin (%g, %g, %g)", mmX, mmY, mmZ),
		}
	}

	rx := pixelRadius(mmX, mask.Spacing.X)
	ry := pixelRadius(mmY, mask.Spacing.Y)
	rz := pixelRadius(mmZ, mask.Spacing.Z)
	if rx == 0 && ry == 0 && rz == 0 {
		return mask.Clone(), nil
	}

	// Surface detection is only active along axes with a nonzero radius.
	activeX, activeY, activeZ := rx > 0, ry > 0, rz > 0

	if erode {
		rx, ry, rz = max(0, rx-1), max(0, ry-1), max(0, rz-1)
	}
	if se == nil {
		se = NewStructuringElement(rx, ry, rz)
	}

	label := volume.Foreground
	if erode {
		label = volume.Background
	}

	result := mask.Clone()

	// Paint the full element footprint at one representative surface voxel
	// per 26-connected component. The general sweep paints only element
	// surface offsets; when the element is larger than a component that
	// shell can miss the component's interior entirely. Runs sequentially:
	// once per component, and footprints of nearby components may overlap.
	comps := Components(mask)
	for _, rep := range comps.Representatives() {
		x, y, z := mask.Coords(rep)
		paint(result, restriction, x, y, z, se.interior, label, erode)
		paint(result, restriction, x, y, z, se.surface, label, erode)
	}

	// General sweep, slice-parallel. Workers read the frozen input mask
	// and write the result; a voxel's footprint may overlap another
	// worker's writes, but every write stores the same label.
	workers := runtime.NumCPU()
	if workers > mask.DimZ {
		workers = mask.DimZ
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (mask.DimZ + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		z0 := w * chunk
		z1 := min(z0+chunk, mask.DimZ)
		if z0 >= z1 {
			continue
		}
		wg.Add(1)
		go func(z0, z1 int) {
			defer wg.Done()
			for z := z0; z < z1; z++ {
				for y := 0; y < mask.DimY; y++ {
					for x := 0; x < mask.DimX; x++ {
						if mask.Data[mask.Index(x, y, z)] == volume.Background {
							continue
						}
						if !isSurface(mask, x, y, z, activeX, activeY, activeZ) {
							continue
						}
						paint(result, restriction, x, y, z, se.surface, label, erode)
					}
				}
			}
		}(z0, z1)
	}
	wg.Wait()

	return result, nil
}

func pixelRadius(marginMM, spacing float64) int {
	return int(math.Round(marginMM / spacing))
}

// isSurface reports whether the foreground voxel at (x, y, z) has a
// background 6-neighbor along an active axis. Voxels beyond the volume
// bounds count as background.
func isSurface(mask *volume.Volume3D[uint8], x, y, z int, ax, ay, az bool) bool {
	if ax && (background(mask, x-1, y, z) || background(mask, x+1, y, z)) {
		return true
	}
	if ay && (background(mask, x, y-1, z) || background(mask, x, y+1, z)) {
		return true
	}
	if az && (background(mask, x, y, z-1) || background(mask, x, y, z+1)) {
		return true
	}
	return false
}

func background(mask *volume.Volume3D[uint8], x, y, z int) bool {
	if !mask.IsValid(x, y, z) {
		return true
	}
	return mask.Data[mask.Index(x, y, z)] == volume.Background
}

// paint stamps label at every offset around (x, y, z), clipped to the
// volume bounds. For dilation the optional restriction mask further clips
// the writes.
func paint(result, restriction *volume.Volume3D[uint8], x, y, z int,
	offsets []Offset, label uint8, erode bool) {
	for _, o := range offsets {
		px, py, pz := x+o.DX, y+o.DY, z+o.DZ
		if !result.IsValid(px, py, pz) {
			continue
		}
		i := result.Index(px, py, pz)
		if !erode && restriction != nil && restriction.Data[i] == volume.Background {
			continue
		}
		result.Data[i] = label
	}
}
