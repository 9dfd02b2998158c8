package stats

import (
	"testing"

	"github.com/radforge/voxelstats/pkg/volume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSubject builds two separated cube structures on a 12^3 grid with an
// intensity volume that is 100 inside the first and 200 inside the second.
func testSubject() (names []string, masks []*volume.Volume3D[uint8], intensity *volume.Volume3D[float32]) {
	a := volume.New[uint8](12, 12, 12)
	fillCube(a, 2, 2, 2, 4, 4, 4)
	b := volume.New[uint8](12, 12, 12)
	fillCube(b, 7, 7, 7, 9, 9, 9)

	intensity = volume.NewLike[float32](a)
	for i, v := range a.Data {
		if v != volume.Background {
			intensity.Data[i] = 100
		}
	}
	for i, v := range b.Data {
		if v != volume.Background {
			intensity.Data[i] = 200
		}
	}
	return []string{"target", "organ"}, []*volume.Volume3D[uint8]{a, b}, intensity
}

func findRow(values []StatisticValue, code, s1, s2 string) (StatisticValue, bool) {
	for _, v := range values {
		if v.Code == code && v.Structure1 == s1 && v.Structure2 == s2 {
			return v, true
		}
	}
	return StatisticValue{}, false
}

func TestCalculator_WholeSpaceRows(t *testing.T) {
	names, masks, intensity := testSubject()
	calc, err := NewCalculator(names, masks, intensity, Options{})
	require.NoError(t, err)
	values := calc.Compute()

	size, ok := findRow(values, CodeImageSize+"x", "space", "space")
	require.True(t, ok)
	assert.InDelta(t, 12.0, size.Value, 1e-12)

	mean, ok := findRow(values, CodeMeanSpace, "space", "space")
	require.True(t, ok)
	assert.Greater(t, mean.Value, 0.0)

	// Background excludes both structures, so its mean is zero.
	bg, ok := findRow(values, CodeMeanBG, "space", "space")
	require.True(t, ok)
	assert.InDelta(t, 0.0, bg.Value, 1e-12)
}

func TestCalculator_StructureRows(t *testing.T) {
	names, masks, intensity := testSubject()
	calc, err := NewCalculator(names, masks, intensity, Options{})
	require.NoError(t, err)
	values := calc.Compute()

	ext, ok := findRow(values, CodeExtent+"x", "target", "target")
	require.True(t, ok)
	assert.InDelta(t, 3.0, ext.Value, 1e-12)

	mean, ok := findRow(values, CodeMean, "target", "target")
	require.True(t, ok)
	assert.InDelta(t, 100.0, mean.Value, 1e-12)
	sd, ok := findRow(values, CodeSD, "target", "target")
	require.True(t, ok)
	assert.InDelta(t, 0.0, sd.Value, 1e-12)

	// Constant interior intensities leave homogeneity undefined.
	_, ok = findRow(values, CodeHomog1px, "target", "target")
	assert.False(t, ok)

	// The boundary fully separates 100 inside from 0 outside, and the
	// outside ranks lower.
	roc, ok := findRow(values, CodeBoundaryROC, "target", "target")
	require.True(t, ok)
	assert.InDelta(t, 0.0, roc.Value, 1e-12)

	com, ok := findRow(values, CodeCompactness, "organ", "organ")
	require.True(t, ok)
	assert.Greater(t, com.Value, 0.0)
	_, ok = findRow(values, CodeSpherical, "organ", "organ")
	assert.True(t, ok)

	// All mass on the first and last step bins.
	for _, code := range []string{CodeStepUp + "x", CodeStepDown + "z"} {
		row, ok := findRow(values, code, "target", "target")
		require.True(t, ok, code)
		assert.InDelta(t, 0.0, row.Value, 1e-12)
	}
}

func TestCalculator_PairwiseRows(t *testing.T) {
	names, masks, intensity := testSubject()
	calc, err := NewCalculator(names, masks, intensity, Options{})
	require.NoError(t, err)
	values := calc.Compute()

	omn, ok := findRow(values, CodeOffsetMin+"x", "target", "organ")
	require.True(t, ok)
	assert.InDelta(t, -5.0, omn.Value, 1e-12)
	omd, ok := findRow(values, CodeOffsetMid+"y", "target", "organ")
	require.True(t, ok)
	assert.InDelta(t, -5.0, omd.Value, 1e-12)

	rci, ok := findRow(values, CodeIntenROC, "target", "organ")
	require.True(t, ok)
	assert.InDelta(t, 1.0, rci.Value, 1e-12)

	crc, ok := findRow(values, CodeCoordROC+"z", "target", "organ")
	require.True(t, ok)
	assert.InDelta(t, 1.0, crc.Value, 1e-12)
}

func TestCalculator_ExternalExcludedFromPairs(t *testing.T) {
	names, masks, intensity := testSubject()
	names[1] = "external"
	calc, err := NewCalculator(names, masks, intensity, Options{})
	require.NoError(t, err)
	values := calc.Compute()

	_, ok := findRow(values, CodeIntenROC, "target", "external")
	assert.False(t, ok)

	// Opting in restores the pair rows.
	calc, err = NewCalculator(names, masks, intensity, Options{PairwiseExternal: true})
	require.NoError(t, err)
	values = calc.Compute()
	_, ok = findRow(values, CodeIntenROC, "target", "external")
	assert.True(t, ok)
}

func TestCalculator_AbsentStructure(t *testing.T) {
	names, masks, intensity := testSubject()
	masks[1] = nil
	calc, err := NewCalculator(names, masks, intensity, Options{})
	require.NoError(t, err)
	values := calc.Compute()

	_, ok := findRow(values, CodeExtent+"x", "organ", "organ")
	assert.False(t, ok)
	_, ok = findRow(values, CodeIntenROC, "target", "organ")
	assert.False(t, ok)
	_, ok = findRow(values, CodeExtent+"x", "target", "target")
	assert.True(t, ok)
}

func TestCalculator_EmptyStructuresKeepSizeRows(t *testing.T) {
	a := volume.New[uint8](12, 12, 12)
	b := volume.New[uint8](12, 12, 12)
	calc, err := NewCalculator([]string{"target", "organ"},
		[]*volume.Volume3D[uint8]{a, b}, nil, Options{})
	require.NoError(t, err)
	values := calc.Compute()

	// Masks present but empty: the grid is still known, so the image
	// size rows survive even though no structure rows do.
	for _, axis := range []string{"x", "y", "z"} {
		row, ok := findRow(values, CodeImageSize+axis, "space", "space")
		require.True(t, ok, axis)
		assert.InDelta(t, 12.0, row.Value, 1e-12)
	}
	_, ok := findRow(values, CodeExtent+"x", "target", "target")
	assert.False(t, ok)
}

func TestCalculator_GroundTruthMode(t *testing.T) {
	names, masks, intensity := testSubject()
	calc, err := NewCalculator(names, masks, intensity, Options{GTAndSegmentation: true})
	require.NoError(t, err)
	values := calc.Compute()

	for _, v := range values {
		assert.NotEqual(t, "space", v.Structure1)
		assert.Equal(t, v.Structure1, v.Structure2)
	}
	// Extent rows are suppressed for the ground-truth entry only.
	_, ok := findRow(values, CodeExtent+"x", "target", "target")
	assert.False(t, ok)
	_, ok = findRow(values, CodeExtent+"x", "organ", "organ")
	assert.True(t, ok)
	_, ok = findRow(values, CodeMean, "target", "target")
	assert.True(t, ok)
}

func TestCalculator_ExactBoundaryROC(t *testing.T) {
	names, masks, intensity := testSubject()
	calc, err := NewCalculator(names, masks, intensity, Options{ExactBoundaryROC: true})
	require.NoError(t, err)
	values := calc.Compute()

	roc, ok := findRow(values, CodeBoundaryROC, "target", "target")
	require.True(t, ok)
	assert.InDelta(t, 0.0, roc.Value, 1e-12)
}

func TestCalculator_NoIntensity(t *testing.T) {
	names, masks, _ := testSubject()
	calc, err := NewCalculator(names, masks, nil, Options{})
	require.NoError(t, err)
	values := calc.Compute()

	_, ok := findRow(values, CodeMeanSpace, "space", "space")
	assert.False(t, ok)
	_, ok = findRow(values, CodeMean, "target", "target")
	assert.False(t, ok)
	_, ok = findRow(values, CodeBoundaryROC, "target", "target")
	assert.False(t, ok)

	// Geometry-only rows survive.
	_, ok = findRow(values, CodeExtent+"y", "target", "target")
	assert.True(t, ok)
	_, ok = findRow(values, CodeOffsetMax+"z", "target", "organ")
	assert.True(t, ok)
}

func TestNewCalculator_Validation(t *testing.T) {
	names, masks, intensity := testSubject()

	_, err := NewCalculator(names[:1], masks, intensity, Options{})
	var invalid *volume.InvalidArgumentError
	assert.ErrorAs(t, err, &invalid)

	_, err = NewCalculator(nil, nil, nil, Options{})
	assert.ErrorAs(t, err, &invalid)

	_, err = NewCalculator([]string{"a", "b"}, []*volume.Volume3D[uint8]{nil, nil}, nil, Options{})
	assert.ErrorAs(t, err, &invalid)

	_, err = NewCalculator([]string{"a", "b", "c"},
		[]*volume.Volume3D[uint8]{masks[0], masks[1], masks[0]}, nil,
		Options{GTAndSegmentation: true})
	assert.ErrorAs(t, err, &invalid)

	other := volume.New[uint8](10, 12, 12)
	var incompatible *volume.IncompatibleVolumeError
	_, err = NewCalculator([]string{"a", "b"}, []*volume.Volume3D[uint8]{masks[0], other}, nil, Options{})
	assert.ErrorAs(t, err, &incompatible)

	mismatched := volume.New[float32](12, 12, 11)
	_, err = NewCalculator(names, masks, mismatched, Options{})
	assert.ErrorAs(t, err, &incompatible)
}
