package cloud

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoBoxRejectsInvalidRegion(t *testing.T) {
	cases := map[string][4]float64{
		"x reversed": {2, 0, 0, 2},
		"x empty":    {1, 1, 0, 2},
		"y reversed": {0, 2, 3, 1},
		"y empty":    {0, 2, 5, 5},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewGeoBox(c[0], c[1], c[2], c[3])
			assert.True(t, errors.Is(err, ErrInvalidRegion), "got %v", err)
		})
	}
}

func TestGeoBoxFromCorners(t *testing.T) {
	box, err := GeoBoxFromCorners([2]float64{300000, 4500000}, [2]float64{303000, 4497000})
	require.NoError(t, err)
	assert.Equal(t, GeoBox{XMin: 300000, XMax: 303000, YMin: 4497000, YMax: 4500000}, box)

	_, err = GeoBoxFromCorners([2]float64{303000, 4497000}, [2]float64{300000, 4500000})
	assert.ErrorIs(t, err, ErrInvalidRegion)
}

func TestResolveWindowUnitGrid(t *testing.T) {
	box, err := NewGeoBox(0, 2, 0, 2)
	require.NoError(t, err)
	tr := RasterTransform{OriginX: 0, OriginY: 0, PixelWidth: 1, PixelHeight: -1}

	w, err := ResolveWindow(box, tr)
	require.NoError(t, err)

	// y above a north-up origin lands on negative rows
	assert.Equal(t, PixelWindow{Row1: -2, Col1: 0, Row2: 0, Col2: 2}, w)
	assert.Equal(t, 3, w.Width())
	assert.Equal(t, 3, w.Height())
}

func TestResolveWindowTopLeftOrigin(t *testing.T) {
	box, err := NewGeoBox(0, 2, 0, 2)
	require.NoError(t, err)
	tr := RasterTransform{OriginX: 0, OriginY: 2, PixelWidth: 1, PixelHeight: -1}

	w, err := ResolveWindow(box, tr)
	require.NoError(t, err)
	assert.Equal(t, PixelWindow{Row1: 0, Col1: 0, Row2: 2, Col2: 2}, w)
	assert.Equal(t, 3, w.Width())
	assert.Equal(t, 3, w.Height())
}

func TestResolveWindowLandsatGrid(t *testing.T) {
	tr := TransformFromGeoTransform([6]float64{399960, 30, 0, 4800000, 0, -30})
	require.True(t, tr.NorthUp())

	box, err := NewGeoBox(400005, 400100, 4799910, 4799995)
	require.NoError(t, err)
	w, err := ResolveWindow(box, tr)
	require.NoError(t, err)

	assert.Equal(t, PixelWindow{Row1: 0, Col1: 1, Row2: 3, Col2: 4}, w)
	assert.Equal(t, w.Col2-w.Col1+1, w.Width())
	assert.Equal(t, w.Row2-w.Row1+1, w.Height())
}

func TestResolveWindowInclusiveDimensions(t *testing.T) {
	transforms := []RasterTransform{
		{OriginX: 0, OriginY: 100, PixelWidth: 1, PixelHeight: -1},
		{OriginX: -50, OriginY: 75.5, PixelWidth: 2.5, PixelHeight: -0.5},
		{OriginX: 10, OriginY: 10, PixelWidth: 30, PixelHeight: -30},
	}
	boxes := []GeoBox{
		{XMin: 1, XMax: 9, YMin: 3, YMax: 50},
		{XMin: -40, XMax: 12.3, YMin: -7, YMax: 70},
		{XMin: 0.5, XMax: 0.6, YMin: 0.1, YMax: 0.2},
	}
	for _, tr := range transforms {
		for _, box := range boxes {
			w, err := ResolveWindow(box, tr)
			require.NoError(t, err)
			assert.Equal(t, w.Col2-w.Col1+1, w.Width())
			assert.Equal(t, w.Row2-w.Row1+1, w.Height())
			assert.GreaterOrEqual(t, w.Width(), 1)
			assert.GreaterOrEqual(t, w.Height(), 1)
		}
	}
}

func TestResolveWindowInvalidBox(t *testing.T) {
	_, err := ResolveWindow(GeoBox{XMin: 5, XMax: 1, YMin: 0, YMax: 1}, RasterTransform{PixelWidth: 1, PixelHeight: -1})
	assert.ErrorIs(t, err, ErrInvalidRegion)
}

func TestNorthUp(t *testing.T) {
	assert.True(t, RasterTransform{PixelWidth: 10, PixelHeight: -10}.NorthUp())
	assert.False(t, RasterTransform{PixelWidth: 10, PixelHeight: 10}.NorthUp())
	assert.False(t, RasterTransform{PixelWidth: -10, PixelHeight: -10}.NorthUp())
}
