package raster

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/forest-guardian/cloudcover/internal/cloud"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReader serves a synthetic raster whose pixel (col,row) holds base + row*100 + col.
type fakeReader struct {
	base  float32
	tr    cloud.RasterTransform
	reads *[][4]int
	mu    *sync.Mutex
}

func (f fakeReader) Transform() (cloud.RasterTransform, error) {
	return f.tr, nil
}

func (f fakeReader) ReadWindow(col, row, width, height int) (cloud.Matrix, error) {
	f.mu.Lock()
	*f.reads = append(*f.reads, [4]int{col, row, width, height})
	f.mu.Unlock()
	m := cloud.NewGrid[float32](height, width)
	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			m.Data[r*width+c] = f.base + float32((row+r)*100+col+c)
		}
	}
	return m, nil
}

func (f fakeReader) Close() error {
	return nil
}

type fakeOpener struct {
	mu     sync.Mutex
	reads  [][4]int
	opened []string
	tr     cloud.RasterTransform
	fail   map[string]error
}

func (o *fakeOpener) open(path string) (Reader, error) {
	o.mu.Lock()
	o.opened = append(o.opened, filepath.Base(path))
	o.mu.Unlock()
	if err, ok := o.fail[filepath.Base(path)]; ok {
		return nil, err
	}
	role, _ := cloud.IdentifyBand(path)
	return fakeReader{base: float32(role) * 10000, tr: o.tr, reads: &o.reads, mu: &o.mu}, nil
}

func writeScene(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	return dir
}

var landsatFiles = []string{
	"LC08_T1_B1.TIF", "LC08_T1_B2.TIF", "LC08_T1_B3.TIF", "LC08_T1_B4.TIF",
	"LC08_T1_B5.TIF", "LC08_T1_B6.TIF", "LC08_T1_B7.TIF", "LC08_T1_BQA.TIF", "LC08_T1_MTL.txt",
}

func TestLoadScene(t *testing.T) {
	dir := writeScene(t, landsatFiles...)
	opener := &fakeOpener{tr: cloud.RasterTransform{OriginX: 0, OriginY: 1000, PixelWidth: 10, PixelHeight: -10}}
	box, err := cloud.NewGeoBox(20, 45, 950, 985)
	require.NoError(t, err)

	scene, err := LoadScene(context.Background(), dir, box, opener.open)
	require.NoError(t, err)

	want := cloud.PixelWindow{Row1: 1, Col1: 2, Row2: 5, Col2: 4}
	for _, role := range cloud.Roles {
		assert.Equal(t, want, scene.Windows[role], role.String())
		band := scene.Bands.Band(role)
		assert.Equal(t, 5, band.Rows)
		assert.Equal(t, 3, band.Cols)
		assert.Equal(t, float32(role)*10000+102, band.At(0, 0))
		assert.Equal(t, float32(role)*10000+504, band.At(4, 2))
	}
	assert.Len(t, opener.reads, 6)
	for _, read := range opener.reads {
		assert.Equal(t, [4]int{2, 1, 3, 5}, read)
	}
	assert.NotContains(t, opener.opened, "LC08_T1_B1.TIF")
	assert.NotContains(t, opener.opened, "LC08_T1_BQA.TIF")
}

func TestLoadSceneMissingBand(t *testing.T) {
	dir := writeScene(t, "s_B2.TIF", "s_B3.TIF", "s_B4.TIF", "s_B5.TIF", "s_B6.TIF")
	opener := &fakeOpener{tr: cloud.RasterTransform{PixelWidth: 1, PixelHeight: -1}}
	box, err := cloud.NewGeoBox(0, 1, -1, 0)
	require.NoError(t, err)

	_, err = LoadScene(context.Background(), dir, box, opener.open)
	assert.ErrorIs(t, err, cloud.ErrMissingBand)
	assert.Contains(t, err.Error(), "swir2")
}

func TestLoadSceneInvalidRegionBeforeIO(t *testing.T) {
	opener := &fakeOpener{}
	_, err := LoadScene(context.Background(), "/does/not/exist", cloud.GeoBox{XMin: 1, XMax: 0, YMin: 0, YMax: 1}, opener.open)
	assert.ErrorIs(t, err, cloud.ErrInvalidRegion)
	assert.Empty(t, opener.opened)
}

func TestLoadSceneReadFailure(t *testing.T) {
	dir := writeScene(t, landsatFiles...)
	boom := errors.New("corrupt tiff")
	opener := &fakeOpener{
		tr:   cloud.RasterTransform{PixelWidth: 1, PixelHeight: -1},
		fail: map[string]error{"LC08_T1_B5.TIF": boom},
	}
	box, err := cloud.NewGeoBox(0, 1, -1, 0)
	require.NoError(t, err)

	_, err = LoadScene(context.Background(), dir, box, opener.open)
	assert.ErrorIs(t, err, boom)
}

func TestLoadSceneRejectsSouthUp(t *testing.T) {
	dir := writeScene(t, landsatFiles...)
	opener := &fakeOpener{tr: cloud.RasterTransform{PixelWidth: 1, PixelHeight: 1}}
	box, err := cloud.NewGeoBox(0, 1, 0, 1)
	require.NoError(t, err)

	_, err = LoadScene(context.Background(), dir, box, opener.open)
	assert.ErrorIs(t, err, ErrUnsupportedTransform)
}

func TestLoadSceneMissingDirectory(t *testing.T) {
	opener := &fakeOpener{}
	box, err := cloud.NewGeoBox(0, 1, 0, 1)
	require.NoError(t, err)
	_, err = LoadScene(context.Background(), filepath.Join(t.TempDir(), "nope"), box, opener.open)
	assert.Error(t, err)
}
