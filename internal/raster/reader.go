package raster

import (
	"errors"
	"fmt"
	"sync"

	"github.com/airbusgeo/godal"
	"github.com/forest-guardian/cloudcover/internal/cloud"
)

var (
	ErrEmptyRaster          = errors.New("raster has no band")
	ErrEmptyWindow          = errors.New("empty read window")
	ErrUnsupportedTransform = errors.New("raster is not north-up")
)

// Reader is a single-band georeferenced raster.
type Reader interface {
	Transform() (cloud.RasterTransform, error)
	// ReadWindow reads width x height pixels starting at (col, row) as float32.
	ReadWindow(col, row, width, height int) (cloud.Matrix, error)
	Close() error
}

// Opener opens the raster at path.
type Opener func(path string) (Reader, error)

var registerOnce sync.Once

type gdalReader struct {
	path string
	ds   *godal.Dataset
}

// OpenGDAL opens path with GDAL, registering drivers on first use.
func OpenGDAL(path string) (Reader, error) {
	registerOnce.Do(godal.RegisterAll)
	ds, err := godal.Open(path, godal.RasterOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to open raster %s: %w", path, err)
	}
	return &gdalReader{path: path, ds: ds}, nil
}

func (r *gdalReader) Transform() (cloud.RasterTransform, error) {
	gt, err := r.ds.GeoTransform()
	if err != nil {
		return cloud.RasterTransform{}, fmt.Errorf("failed to get geotransform of %s: %w", r.path, err)
	}
	return cloud.TransformFromGeoTransform(gt), nil
}

func (r *gdalReader) ReadWindow(col, row, width, height int) (cloud.Matrix, error) {
	if width <= 0 || height <= 0 {
		return cloud.Matrix{}, fmt.Errorf("%dx%d at (%d, %d): %w", width, height, col, row, ErrEmptyWindow)
	}
	bands := r.ds.Bands()
	if len(bands) == 0 {
		return cloud.Matrix{}, fmt.Errorf("%s: %w", r.path, ErrEmptyRaster)
	}
	m := cloud.NewGrid[float32](height, width)
	if err := bands[0].Read(col, row, m.Data, width, height); err != nil {
		return cloud.Matrix{}, fmt.Errorf("failed to read %dx%d window at (%d, %d) of %s: %w", width, height, col, row, r.path, err)
	}
	return m, nil
}

func (r *gdalReader) Close() error {
	return r.ds.Close()
}
