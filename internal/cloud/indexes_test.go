package cloud

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bandSetFromRows(t *testing.T, rows map[BandRole][][]float32) BandSet {
	t.Helper()
	bands := map[BandRole]Matrix{}
	for role, r := range rows {
		m, err := GridFromRows(r)
		require.NoError(t, err)
		bands[role] = m
	}
	set, err := NewBandSet(bands)
	require.NoError(t, err)
	return set
}

func TestComputeCI1(t *testing.T) {
	set := bandSetFromRows(t, map[BandRole][][]float32{
		Blue:  {{0.2, 0}},
		Green: {{0.2, 0}},
		Red:   {{0.2, 1}},
		NIR:   {{0.1, 0}},
		SWIR1: {{0.1, 0}},
		SWIR2: {{0.5, 0}},
	})

	ci1, err := ComputeCI1(set)
	require.NoError(t, err)
	assert.InDelta(t, 0.6/0.3, ci1.At(0, 0), 1e-5)
	assert.True(t, math.IsInf(float64(ci1.At(0, 1)), 1))
}

func TestComputeCI1ZeroOverZero(t *testing.T) {
	set, err := NewBandSet(fullBandsValue(1, 2, 0))
	require.NoError(t, err)

	ci1, err := ComputeCI1(set)
	require.NoError(t, err)
	for _, v := range ci1.Data {
		assert.True(t, math.IsNaN(float64(v)))
	}
}

func fullBandsValue(rows, cols int, v float32) map[BandRole]Matrix {
	bands := map[BandRole]Matrix{}
	for _, role := range Roles {
		bands[role] = constant(rows, cols, v)
	}
	return bands
}

func TestComputeCI2(t *testing.T) {
	set := bandSetFromRows(t, map[BandRole][][]float32{
		Blue:  {{1, 0.1}},
		Green: {{2, 0.1}},
		Red:   {{3, 0.1}},
		NIR:   {{4, 0.1}},
		SWIR1: {{5, 0.1}},
		SWIR2: {{6, 0.1}},
	})

	ci2, err := ComputeCI2(set)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, ci2.At(0, 0), 1e-6)
	assert.InDelta(t, 0.1, ci2.At(0, 1), 1e-6)
}

func TestIndexesLeaveInputsUntouched(t *testing.T) {
	bands := fullBands(2, 2)
	set, err := NewBandSet(bands)
	require.NoError(t, err)

	_, err = ComputeCI1(set)
	require.NoError(t, err)
	_, err = ComputeCI2(set)
	require.NoError(t, err)

	for i, role := range Roles {
		for _, v := range set.Band(role).Data {
			assert.Equal(t, float32(i+1), v)
		}
	}
}

func TestIndexesShapeMismatch(t *testing.T) {
	bands := fullBands(2, 2)
	bands[SWIR2] = constant(2, 3, 1)
	set, err := NewBandSet(bands)
	require.NoError(t, err)

	_, err = ComputeCI1(set)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = ComputeCI2(set)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestAbsDeviation(t *testing.T) {
	m, err := GridFromRows([][]float32{{0.5, 1, 1.25, float32(math.NaN())}})
	require.NoError(t, err)

	d := AbsDeviation(m)
	assert.InDelta(t, 0.5, d.Data[0], 1e-7)
	assert.Equal(t, float32(0), d.Data[1])
	assert.InDelta(t, 0.25, d.Data[2], 1e-7)
	assert.True(t, math.IsNaN(float64(d.Data[3])))
	assert.Equal(t, float32(0.5), m.Data[0])
}
