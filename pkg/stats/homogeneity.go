package stats

import (
	"math"

	"github.com/radforge/voxelstats/pkg/volume"
	"gonum.org/v1/gonum/stat"
)

// neighborhoodAtDistance returns the 26-neighborhood offsets scaled to a
// physical distance: per axis the offset magnitude is the distance in mm
// rounded to whole voxels. Coinciding offsets from a degenerate axis are
// deduplicated.
func neighborhoodAtDistance(sp volume.Spacing, distanceMM float64) [][3]int {
	nx := int(math.Round(distanceMM / sp.X))
	ny := int(math.Round(distanceMM / sp.Y))
	nz := int(math.Round(distanceMM / sp.Z))

	seen := make(map[[3]int]bool, 26)
	var offsets [][3]int
	for i := -1; i <= 1; i++ {
		for j := -1; j <= 1; j++ {
			for k := -1; k <= 1; k++ {
				if i == 0 && j == 0 && k == 0 {
					continue
				}
				o := [3]int{i * nx, j * ny, k * nz}
				if o == ([3]int{}) || seen[o] {
					continue
				}
				seen[o] = true
				offsets = append(offsets, o)
			}
		}
	}
	return offsets
}

// inPlaneNeighborhood is the 8-neighborhood at one pixel within a slice.
func inPlaneNeighborhood() [][3]int {
	var offsets [][3]int
	for j := -1; j <= 1; j++ {
		for i := -1; i <= 1; i++ {
			if i == 0 && j == 0 {
				continue
			}
			offsets = append(offsets, [3]int{i, j, 0})
		}
	}
	return offsets
}

// homogeneity predicts each qualifying voxel's intensity as the mean of
// its neighbors at the given offsets and returns the RMS prediction
// error divided by the structure's intensity SD. A voxel qualifies only
// when its full neighbor set lies inside the structure. ok=false when no
// voxel qualifies or the intensity spread vanishes.
func homogeneity(mask *volume.Volume3D[uint8], intensity *volume.Volume3D[float32],
	region volume.Region3D, offsets [][3]int, structureSD float64) (float64, bool) {
	if structureSD <= 0 {
		return 0, false
	}

	var sumSq float64
	var count int
	for z := region.MinZ; z <= region.MaxZ; z++ {
		for y := region.MinY; y <= region.MaxY; y++ {
		voxels:
			for x := region.MinX; x <= region.MaxX; x++ {
				if mask.Get(x, y, z) == volume.Background {
					continue
				}
				var sum float64
				for _, o := range offsets {
					nx, ny, nz := x+o[0], y+o[1], z+o[2]
					if !mask.IsValid(nx, ny, nz) ||
						mask.Data[mask.Index(nx, ny, nz)] == volume.Background {
						continue voxels
					}
					sum += float64(intensity.Data[intensity.Index(nx, ny, nz)])
				}
				pred := sum / float64(len(offsets))
				diff := float64(intensity.Data[intensity.Index(x, y, z)]) - pred
				sumSq += diff * diff
				count++
			}
		}
	}
	if count == 0 {
		return 0, false
	}
	return math.Sqrt(sumSq/float64(count)) / structureSD, true
}

// meanStdDev is the sample mean and standard deviation of a sample,
// ok=false below two values.
func meanStdDev(sample []float64) (mean, sd float64, ok bool) {
	if len(sample) < 2 {
		return 0, 0, false
	}
	mean, sd = stat.MeanStdDev(sample, nil)
	return mean, sd, true
}
