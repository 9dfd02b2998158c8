package contour

import (
	"testing"

	"github.com/radforge/voxelstats/pkg/volume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slice builds a w*h slice with foreground at the given pixels.
func slicePixels(w, h int, pixels ...[2]int) []uint8 {
	data := make([]uint8, w*h)
	for _, p := range pixels {
		data[p[1]*w+p[0]] = 1
	}
	return data
}

func fillRect(data []uint8, w, x0, y0, x1, y1 int) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			data[y*w+x] = 1
		}
	}
}

func TestTraceSlice_SinglePixel(t *testing.T) {
	data := slicePixels(3, 3, [2]int{1, 1})
	polys, err := TraceSlice(data, 3, 3, SmoothingNone)
	require.NoError(t, err)
	require.Len(t, polys, 1)
	require.Empty(t, polys[0].Inners)

	outer := polys[0].Outer
	assert.False(t, outer.Inner)
	require.Len(t, outer.Points, 4)
	// One pixel covers unit area, wound clockwise on screen.
	assert.InDelta(t, 1.0, outer.SignedArea(), 1e-12)
	assert.ElementsMatch(t,
		[]Point{{0.5, 0.5}, {1.5, 0.5}, {1.5, 1.5}, {0.5, 1.5}},
		outer.Points)
}

func TestTraceSlice_RingWithHole(t *testing.T) {
	data := make([]uint8, 5*5)
	fillRect(data, 5, 1, 1, 3, 3)
	data[2*5+2] = 0 // center hole

	polys, err := TraceSlice(data, 5, 5, SmoothingNone)
	require.NoError(t, err)
	require.Len(t, polys, 1)

	outer := polys[0].Outer
	assert.InDelta(t, 9.0, outer.SignedArea(), 1e-12)

	require.Len(t, polys[0].Inners, 1)
	hole := polys[0].Inners[0]
	assert.True(t, hole.Inner)
	// Hole rings wind counter-clockwise and report their topmost point.
	assert.InDelta(t, -1.0, hole.SignedArea(), 1e-12)
	assert.Equal(t, Point{X: 1.5, Y: 1.5}, hole.Start)
}

func TestTraceSlice_TwoRegions(t *testing.T) {
	data := make([]uint8, 8*4)
	fillRect(data, 8, 1, 1, 2, 2)
	fillRect(data, 8, 5, 1, 6, 2)

	polys, err := TraceSlice(data, 8, 4, SmoothingNone)
	require.NoError(t, err)
	require.Len(t, polys, 2)
	for _, p := range polys {
		assert.InDelta(t, 4.0, p.Outer.SignedArea(), 1e-12)
	}
}

func TestTraceSlice_EmptySlice(t *testing.T) {
	polys, err := TraceSlice(make([]uint8, 16), 4, 4, SmoothingNone)
	require.NoError(t, err)
	assert.Empty(t, polys)
}

func TestTraceSlice_LengthMismatch(t *testing.T) {
	_, err := TraceSlice(make([]uint8, 10), 4, 4, SmoothingNone)
	var invalid *volume.InvalidArgumentError
	assert.ErrorAs(t, err, &invalid)
}

func TestTraceSlice_SmoothingSmall_SinglePixel(t *testing.T) {
	data := slicePixels(3, 3, [2]int{1, 1})
	polys, err := TraceSlice(data, 3, 3, SmoothingSmall)
	require.NoError(t, err)
	require.Len(t, polys, 1)

	// Every corner of the unit square is cut, leaving a diamond of half
	// the area.
	pts := polys[0].Outer.Points
	require.Len(t, pts, 4)
	assert.ElementsMatch(t,
		[]Point{{1, 0.5}, {1.5, 1}, {1, 1.5}, {0.5, 1}},
		pts)
	assert.InDelta(t, 0.5, polys[0].Outer.SignedArea(), 1e-12)
}

func TestTraceSlice_SmoothingPreservesRectangleEdges(t *testing.T) {
	data := make([]uint8, 8*6)
	fillRect(data, 8, 1, 1, 5, 3)

	polys, err := TraceSlice(data, 8, 6, SmoothingSmall)
	require.NoError(t, err)
	require.Len(t, polys, 1)

	// A 5x3 rectangle keeps its long straight edges; only the four
	// corners are chamfered, two points each.
	assert.Len(t, polys[0].Outer.Points, 8)
	assert.InDelta(t, 15.0-4*0.125, polys[0].Outer.SignedArea(), 1e-12)
}

func TestTraceVolume_SliceIndices(t *testing.T) {
	mask := volume.New[uint8](6, 6, 5)
	mask.Set(2, 2, 1, volume.Foreground)
	mask.Set(3, 3, 3, volume.Foreground)

	slices, err := TraceVolume(mask, SmoothingNone)
	require.NoError(t, err)
	require.Len(t, slices, 2)
	assert.Equal(t, 1, slices[0].Slice)
	assert.Equal(t, 3, slices[1].Slice)
	require.Len(t, slices[0].Polygons, 1)
	assert.Equal(t, 1, slices[0].Polygons[0].Outer.Slice)
}

func TestRemoveRedundantPoints(t *testing.T) {
	pts := []Point{
		{0, 0}, {1, 0}, {1, 0}, {2, 0}, // duplicate and collinear run
		{2, 2},
		{0, 2}, {0, 1}, // collinear with the wraparound edge
	}
	out := RemoveRedundantPoints(pts)
	assert.ElementsMatch(t, []Point{{0, 0}, {2, 0}, {2, 2}, {0, 2}}, out)
}
