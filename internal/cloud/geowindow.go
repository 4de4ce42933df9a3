package cloud

import (
	"fmt"
	"math"
)

// RasterTransform is the north-up subset of a GDAL geotransform.
type RasterTransform struct {
	OriginX     float64
	OriginY     float64
	PixelWidth  float64
	PixelHeight float64
}

// TransformFromGeoTransform reads the GDAL six-coefficient form, rotation terms are ignored.
func TransformFromGeoTransform(gt [6]float64) RasterTransform {
	return RasterTransform{
		OriginX:     gt[0],
		OriginY:     gt[3],
		PixelWidth:  gt[1],
		PixelHeight: gt[5],
	}
}

// NorthUp reports whether the transform follows the supported convention.
func (t RasterTransform) NorthUp() bool {
	return t.PixelWidth > 0 && t.PixelHeight < 0
}

// GeoBox is a bounding box in the raster's CRS.
type GeoBox struct {
	XMin float64
	XMax float64
	YMin float64
	YMax float64
}

func NewGeoBox(xMin, xMax, yMin, yMax float64) (GeoBox, error) {
	box := GeoBox{XMin: xMin, XMax: xMax, YMin: yMin, YMax: yMax}
	if err := box.Validate(); err != nil {
		return GeoBox{}, err
	}
	return box, nil
}

// GeoBoxFromCorners builds a box from the top-left and bottom-right corners.
func GeoBoxFromCorners(topLeft, bottomRight [2]float64) (GeoBox, error) {
	return NewGeoBox(topLeft[0], bottomRight[0], bottomRight[1], topLeft[1])
}

func (b GeoBox) Validate() error {
	if !(b.XMin < b.XMax) || !(b.YMin < b.YMax) {
		return fmt.Errorf("x [%v, %v], y [%v, %v]: %w", b.XMin, b.XMax, b.YMin, b.YMax, ErrInvalidRegion)
	}
	return nil
}

// PixelWindow is an inclusive row/column range into a raster grid.
type PixelWindow struct {
	Row1 int
	Col1 int
	Row2 int
	Col2 int
}

// Width is the read width, bounds are inclusive.
func (w PixelWindow) Width() int {
	return w.Col2 - w.Col1 + 1
}

// Height is the read height, bounds are inclusive.
func (w PixelWindow) Height() int {
	return w.Row2 - w.Row1 + 1
}

// ResolveWindow maps a GeoBox onto the pixel grid described by t.
// The window is not clamped to the raster extent.
func ResolveWindow(box GeoBox, t RasterTransform) (PixelWindow, error) {
	if err := box.Validate(); err != nil {
		return PixelWindow{}, err
	}
	return PixelWindow{
		Row1: floorDiv(box.YMax-t.OriginY, t.PixelHeight),
		Col1: floorDiv(box.XMin-t.OriginX, t.PixelWidth),
		Row2: floorDiv(box.YMin-t.OriginY, t.PixelHeight),
		Col2: floorDiv(box.XMax-t.OriginX, t.PixelWidth),
	}, nil
}

func floorDiv(num, den float64) int {
	return int(math.Floor(num / den))
}
