package volume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVolume_NewAndIndexing(t *testing.T) {
	v := New[uint8](4, 3, 2)
	require.Equal(t, 24, v.Len())
	assert.Equal(t, Spacing{X: 1, Y: 1, Z: 1}, v.Spacing)
	assert.Equal(t, Identity, v.Direction)

	// Index and Coords are inverses over the whole volume.
	for i := 0; i < v.Len(); i++ {
		x, y, z := v.Coords(i)
		assert.Equal(t, i, v.Index(x, y, z))
	}
}

func TestVolume_GetSetBounds(t *testing.T) {
	v := New[int16](3, 3, 3)
	v.Set(1, 2, 0, 42)
	assert.Equal(t, int16(42), v.Get(1, 2, 0))

	// Out-of-bounds reads yield zero, writes are dropped.
	assert.Equal(t, int16(0), v.Get(-1, 0, 0))
	assert.Equal(t, int16(0), v.Get(0, 3, 0))
	v.Set(3, 0, 0, 7)
	v.Set(0, 0, -1, 7)
	for _, val := range v.Data {
		assert.NotEqual(t, int16(7), val)
	}
}

func TestVolume_PhysicalPoint(t *testing.T) {
	v := New[uint8](10, 10, 10)
	v.Spacing = Spacing{X: 0.5, Y: 2, Z: 3}
	v.Origin = Point3D{X: 10, Y: 20, Z: 30}
	p := v.PhysicalPoint(4, 1, 2)
	assert.InDelta(t, 12.0, p.X, 1e-12)
	assert.InDelta(t, 22.0, p.Y, 1e-12)
	assert.InDelta(t, 36.0, p.Z, 1e-12)
}

func TestVolume_CheckSameGrid(t *testing.T) {
	a := New[uint8](4, 4, 4)
	b := New[float32](4, 4, 4)
	require.NoError(t, CheckSameGrid(a, b))

	c := New[float32](4, 4, 5)
	err := CheckSameGrid(a, c)
	require.Error(t, err)
	var incompatible *IncompatibleVolumeError
	require.ErrorAs(t, err, &incompatible)
	assert.Equal(t, [3]int{4, 4, 4}, incompatible.WantDims)
	assert.Equal(t, [3]int{4, 4, 5}, incompatible.GotDims)
}

func TestVolume_Union(t *testing.T) {
	a := New[uint8](3, 3, 1)
	b := New[uint8](3, 3, 1)
	a.Set(0, 0, 0, Foreground)
	b.Set(2, 2, 0, Foreground)

	u, err := Union(a, b)
	require.NoError(t, err)
	assert.Equal(t, Foreground, u.Get(0, 0, 0))
	assert.Equal(t, Foreground, u.Get(2, 2, 0))
	assert.Equal(t, Background, u.Get(1, 1, 0))

	c := New[uint8](3, 3, 2)
	_, err = Union(a, c)
	assert.Error(t, err)
}

func TestVolume_MapInPlace(t *testing.T) {
	v := New[float32](2, 2, 1)
	for i := range v.Data {
		v.Data[i] = float32(i)
	}
	v.MapInPlace(func(x float32) float32 { return x * 2 })
	assert.Equal(t, []float32{0, 2, 4, 6}, v.Data)
}
