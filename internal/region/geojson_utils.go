package region

import (
	"errors"
	"fmt"
	"os"

	"github.com/forest-guardian/cloudcover/internal/cloud"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var ErrNoGeometry = errors.New("geojson has no geometry")

// BoundFromGeoJSON returns the bounding box of every geometry in data.
// data may be a FeatureCollection, a single Feature or a bare Geometry.
func BoundFromGeoJSON(data []byte) (orb.Bound, error) {
	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil && len(fc.Features) > 0 {
		var (
			bound orb.Bound
			found bool
		)
		for _, feature := range fc.Features {
			if feature.Geometry == nil {
				continue
			}
			if !found {
				bound, found = feature.Geometry.Bound(), true
				continue
			}
			bound = bound.Union(feature.Geometry.Bound())
		}
		if !found {
			return orb.Bound{}, ErrNoGeometry
		}
		return bound, nil
	}
	if f, err := geojson.UnmarshalFeature(data); err == nil && f.Geometry != nil {
		return f.Geometry.Bound(), nil
	}
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return orb.Bound{}, fmt.Errorf("failed to parse geojson: %w", err)
	}
	if g.Coordinates == nil {
		return orb.Bound{}, ErrNoGeometry
	}
	return g.Coordinates.Bound(), nil
}

// GeoBoxFromBound converts an orb bound into a validated region of interest.
func GeoBoxFromBound(b orb.Bound) (cloud.GeoBox, error) {
	return cloud.NewGeoBox(b.Min.X(), b.Max.X(), b.Min.Y(), b.Max.Y())
}

// LoadGeoBox reads a GeoJSON file and returns its bounding box. Coordinates must already
// be in the CRS of the scene rasters.
func LoadGeoBox(path string) (cloud.GeoBox, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cloud.GeoBox{}, fmt.Errorf("failed to read region %s: %w", path, err)
	}
	bound, err := BoundFromGeoJSON(data)
	if err != nil {
		return cloud.GeoBox{}, fmt.Errorf("region %s: %w", path, err)
	}
	return GeoBoxFromBound(bound)
}
