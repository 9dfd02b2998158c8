package stats

import (
	"math"

	"github.com/radforge/voxelstats/pkg/volume"
)

// ExtremeInfo holds per-structure shape descriptors computed once from
// the mask and its bounding region, and reused by every statistic
// derivation for that structure.
type ExtremeInfo struct {
	// MinMM and MaxMM are the physical coordinates of the bounding box
	// faces per axis, in mm relative to the volume corner.
	MinMM [3]float64
	MaxMM [3]float64
	// SizeMM is the bounding box extent per axis in mm.
	SizeMM [3]float64

	VoxelCount int

	// Compactness is the ratio of structure volume to the volume of the
	// ellipsoid inscribed in the bounding cuboid (cuboid volume * pi/6).
	Compactness float64

	// Sphericality compares the structure's radial spread to that of an
	// equal-volume sphere; 1 for a ball, lower for elongated shapes.
	// Undefined for structures of one voxel or less.
	Sphericality    float64
	HasSphericality bool
}

// MidMM returns the physical midpoint of the bounding box on an axis.
func (e *ExtremeInfo) MidMM(axis Axis) float64 {
	return (e.MinMM[axis] + e.MaxMM[axis]) / 2
}

// ComputeExtremeInfo derives ExtremeInfo from a mask and its non-empty
// bounding region.
func ComputeExtremeInfo(mask *volume.Volume3D[uint8], region volume.Region3D) *ExtremeInfo {
	sp := [3]float64{mask.Spacing.X, mask.Spacing.Y, mask.Spacing.Z}
	info := &ExtremeInfo{
		MinMM: [3]float64{
			float64(region.MinX) * sp[0],
			float64(region.MinY) * sp[1],
			float64(region.MinZ) * sp[2],
		},
		MaxMM: [3]float64{
			float64(region.MaxX) * sp[0],
			float64(region.MaxY) * sp[1],
			float64(region.MaxZ) * sp[2],
		},
		SizeMM: [3]float64{
			float64(region.SizeX()) * sp[0],
			float64(region.SizeY()) * sp[1],
			float64(region.SizeZ()) * sp[2],
		},
	}

	// First pass: count and centroid in physical units.
	var cx, cy, cz float64
	for z := region.MinZ; z <= region.MaxZ; z++ {
		for y := region.MinY; y <= region.MaxY; y++ {
			for x := region.MinX; x <= region.MaxX; x++ {
				if mask.Get(x, y, z) == volume.Background {
					continue
				}
				info.VoxelCount++
				cx += float64(x) * sp[0]
				cy += float64(y) * sp[1]
				cz += float64(z) * sp[2]
			}
		}
	}
	if info.VoxelCount == 0 {
		return info
	}
	n := float64(info.VoxelCount)
	cx, cy, cz = cx/n, cy/n, cz/n

	structureVolume := n * mask.VoxelVolume()
	cuboidVolume := info.SizeMM[0] * info.SizeMM[1] * info.SizeMM[2]
	if cuboidVolume > 0 {
		info.Compactness = structureVolume / (cuboidVolume * math.Pi / 6)
	}

	if info.VoxelCount <= 1 {
		return info
	}

	// Second pass: RMS distance from the centroid.
	var sumSq float64
	for z := region.MinZ; z <= region.MaxZ; z++ {
		for y := region.MinY; y <= region.MaxY; y++ {
			for x := region.MinX; x <= region.MaxX; x++ {
				if mask.Get(x, y, z) == volume.Background {
					continue
				}
				dx := float64(x)*sp[0] - cx
				dy := float64(y)*sp[1] - cy
				dz := float64(z)*sp[2] - cz
				sumSq += dx*dx + dy*dy + dz*dz
			}
		}
	}
	rms := math.Sqrt(sumSq / n)
	if rms > 0 {
		// A uniform ball of radius R has RMS radial distance sqrt(3/5)*R,
		// so the equal-volume sphere radius is scaled by sqrt(0.6) to make
		// a perfect ball score 1.
		equalVolumeRadius := math.Cbrt(3 * structureVolume / (4 * math.Pi))
		info.Sphericality = math.Sqrt(0.6) * equalVolumeRadius / rms
		info.HasSphericality = true
	}
	return info
}
