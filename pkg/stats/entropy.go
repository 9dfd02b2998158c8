package stats

import (
	"math"

	"github.com/radforge/voxelstats/pkg/volume"
)

// EntropyRatio computes the Shannon entropy of a count histogram,
// normalized by the log of the number of bins so the result lies in
// [0, 1]: 0 for all mass in one bin, 1 for a uniform histogram.
//
// The entropy is accumulated as ln(T) - sum(c*ln(c))/T over bins with
// count > 1 (a count-1 bin's c*ln(c) term is zero anyway, but every
// bin's count contributes to the total T). Histograms with fewer than
// two bins or an all-zero count yield ok=false.
func EntropyRatio(counts []int) (ratio float64, ok bool) {
	if len(counts) < 2 {
		return 0, false
	}
	var total int
	var sum float64
	for _, c := range counts {
		total += c
		if c > 1 {
			f := float64(c)
			sum += f * math.Log(f)
		}
	}
	if total == 0 {
		return 0, false
	}
	entropy := math.Log(float64(total)) - sum/float64(total)
	return entropy / math.Log(float64(len(counts))), true
}

// Axis designates a volume axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return "z"
	}
}

// StepHistograms builds, for one axis, the up and down boundary-crossing
// histograms of a mask over the given region: a foreground voxel counts
// in "down" at its own axis coordinate when the next voxel along the
// axis (or the volume edge) is background, and in "up" when the previous
// voxel (or edge) is background. Histograms are indexed relative to the
// region's minimum along the axis.
func StepHistograms(mask *volume.Volume3D[uint8], region volume.Region3D, axis Axis) (up, down []int) {
	var lo, size int
	var dx, dy, dz int
	switch axis {
	case AxisX:
		lo, size, dx = region.MinX, region.SizeX(), 1
	case AxisY:
		lo, size, dy = region.MinY, region.SizeY(), 1
	default:
		lo, size, dz = region.MinZ, region.SizeZ(), 1
	}
	up = make([]int, size)
	down = make([]int, size)

	for z := region.MinZ; z <= region.MaxZ; z++ {
		for y := region.MinY; y <= region.MaxY; y++ {
			for x := region.MinX; x <= region.MaxX; x++ {
				if mask.Get(x, y, z) == volume.Background {
					continue
				}
				var coord int
				switch axis {
				case AxisX:
					coord = x - lo
				case AxisY:
					coord = y - lo
				default:
					coord = z - lo
				}
				if mask.Get(x+dx, y+dy, z+dz) == volume.Background {
					down[coord]++
				}
				if mask.Get(x-dx, y-dy, z-dz) == volume.Background {
					up[coord]++
				}
			}
		}
	}
	return up, down
}
