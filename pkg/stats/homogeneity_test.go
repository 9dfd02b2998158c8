package stats

import (
	"testing"

	"github.com/radforge/voxelstats/pkg/volume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeighborhoodAtDistance(t *testing.T) {
	sp := volume.Spacing{X: 1, Y: 1, Z: 1}
	offsets := neighborhoodAtDistance(sp, 3)
	require.Len(t, offsets, 26)
	for _, o := range offsets {
		for _, c := range o {
			assert.Contains(t, []int{-3, 0, 3}, c)
		}
		assert.NotEqual(t, [3]int{}, o)
	}
}

func TestNeighborhoodAtDistance_DegenerateAxisDeduplicates(t *testing.T) {
	// 3mm rounds to zero voxels along a 10mm-thick slice axis, collapsing
	// offset triples that differ only in Z.
	sp := volume.Spacing{X: 1, Y: 1, Z: 10}
	offsets := neighborhoodAtDistance(sp, 3)
	assert.Len(t, offsets, 8)
	for _, o := range offsets {
		assert.Equal(t, 0, o[2])
	}
}

func TestInPlaneNeighborhood(t *testing.T) {
	offsets := inPlaneNeighborhood()
	require.Len(t, offsets, 8)
	for _, o := range offsets {
		assert.Equal(t, 0, o[2])
	}
}

func TestHomogeneity_UniformIntensity(t *testing.T) {
	mask := volume.New[uint8](9, 9, 3)
	intensity := volume.NewLike[float32](mask)
	fillCube(mask, 1, 1, 1, 7, 7, 1)
	for i := range intensity.Data {
		intensity.Data[i] = 100
	}
	region := volume.InterestRegion(mask, volume.Foreground)

	// Perfectly predictable intensities give zero error regardless of the
	// reference spread.
	h, ok := homogeneity(mask, intensity, region, inPlaneNeighborhood(), 5)
	require.True(t, ok)
	assert.InDelta(t, 0.0, h, 1e-12)
}

func TestHomogeneity_ZeroSpread(t *testing.T) {
	mask := volume.New[uint8](5, 5, 1)
	intensity := volume.NewLike[float32](mask)
	fillCube(mask, 0, 0, 0, 4, 4, 0)

	_, ok := homogeneity(mask, intensity, volume.InterestRegion(mask, volume.Foreground),
		inPlaneNeighborhood(), 0)
	assert.False(t, ok)
}

func TestHomogeneity_NoQualifyingVoxels(t *testing.T) {
	// A 2x2 plate has no voxel with a full in-plane neighborhood.
	mask := volume.New[uint8](6, 6, 1)
	intensity := volume.NewLike[float32](mask)
	fillCube(mask, 2, 2, 0, 3, 3, 0)

	_, ok := homogeneity(mask, intensity, volume.InterestRegion(mask, volume.Foreground),
		inPlaneNeighborhood(), 5)
	assert.False(t, ok)
}

func TestHomogeneity_NormalizesBySpread(t *testing.T) {
	mask := volume.New[uint8](9, 9, 1)
	intensity := volume.NewLike[float32](mask)
	fillCube(mask, 1, 1, 0, 7, 7, 0)
	// Checkerboard: every voxel differs from its 8-neighbor mean.
	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			if (x+y)%2 == 0 {
				intensity.Set(x, y, 0, 10)
			}
		}
	}
	region := volume.InterestRegion(mask, volume.Foreground)

	h1, ok := homogeneity(mask, intensity, region, inPlaneNeighborhood(), 5)
	require.True(t, ok)
	h2, ok := homogeneity(mask, intensity, region, inPlaneNeighborhood(), 10)
	require.True(t, ok)
	assert.Greater(t, h1, 0.0)
	assert.InDelta(t, h1/2, h2, 1e-12)
}

func TestMeanStdDev(t *testing.T) {
	mean, sd, ok := meanStdDev([]float64{2, 4, 6, 8})
	require.True(t, ok)
	assert.InDelta(t, 5.0, mean, 1e-12)
	assert.Greater(t, sd, 0.0)

	_, _, ok = meanStdDev([]float64{1})
	assert.False(t, ok)
	_, _, ok = meanStdDev(nil)
	assert.False(t, ok)
}
