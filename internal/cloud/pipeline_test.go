package cloud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleScene(t *testing.T) BandSet {
	t.Helper()
	return bandSetFromRows(t, map[BandRole][][]float32{
		Blue:  {{0.3, 0.1}, {0.1, 0.8}},
		Green: {{0.3, 0.1}, {0.1, 0.8}},
		Red:   {{0.3, 0.1}, {0.1, 0.8}},
		NIR:   {{0.3, 0.3}, {0.3, 0.8}},
		SWIR1: {{0.3, 0.3}, {0.3, 0.8}},
		SWIR2: {{0.3, 0.3}, {0.3, 0.8}},
	})
}

func TestEvaluate(t *testing.T) {
	result, err := Evaluate(sampleScene(t), DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, []uint8{255, 0, 0, 255}, result.CI1Mask.Data)
	assert.Equal(t, []uint8{0, 0, 0, 255}, result.CI2Mask.Data)
	assert.Equal(t, []uint16{255, 0, 0, 510}, result.Fused.Data)
	assert.InDelta(t, 0.4175, result.ThresholdT2, 1e-6)
	assert.Equal(t, 2, result.Flagged)
	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 50.0, result.Coverage)
}

func TestEvaluateIdempotent(t *testing.T) {
	scene := sampleScene(t)
	p := Params{T1: 0.2, T2: 0.3}

	first, err := Evaluate(scene, p)
	require.NoError(t, err)
	second, err := Evaluate(scene, p)
	require.NoError(t, err)

	assert.Equal(t, first.Coverage, second.Coverage)
	assert.Equal(t, first.Fused, second.Fused)
}

func TestEvaluateShapeMismatch(t *testing.T) {
	bands := fullBands(2, 2)
	bands[NIR] = constant(3, 2, 1)
	set, err := NewBandSet(bands)
	require.NoError(t, err)

	_, err = Evaluate(set, DefaultParams())
	assert.ErrorIs(t, err, ErrShapeMismatch)
}
