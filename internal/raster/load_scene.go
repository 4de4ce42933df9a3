package raster

import (
	"context"
	"fmt"
	"sync"

	"github.com/forest-guardian/cloudcover/internal/cloud"
	"github.com/forest-guardian/cloudcover/internal/log"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Scene is the band set of one scene plus the window each band was cropped to.
type Scene struct {
	Dir     string
	Bands   cloud.BandSet
	Windows map[cloud.BandRole]cloud.PixelWindow
}

// ReadBandWindow crops one band file to box and returns the resolved window with the pixels.
func ReadBandWindow(open Opener, path string, box cloud.GeoBox) (cloud.Matrix, cloud.PixelWindow, error) {
	r, err := open(path)
	if err != nil {
		return cloud.Matrix{}, cloud.PixelWindow{}, err
	}
	defer r.Close()

	tr, err := r.Transform()
	if err != nil {
		return cloud.Matrix{}, cloud.PixelWindow{}, err
	}
	if !tr.NorthUp() {
		return cloud.Matrix{}, cloud.PixelWindow{}, fmt.Errorf("%s pixel size (%v, %v): %w", path, tr.PixelWidth, tr.PixelHeight, ErrUnsupportedTransform)
	}
	w, err := cloud.ResolveWindow(box, tr)
	if err != nil {
		return cloud.Matrix{}, cloud.PixelWindow{}, err
	}
	m, err := r.ReadWindow(w.Col1, w.Row1, w.Width(), w.Height())
	if err != nil {
		return cloud.Matrix{}, cloud.PixelWindow{}, err
	}
	return m, w, nil
}

// LoadScene crops the six band files of dir to box. The box is validated before any file is touched.
// Bands are read concurrently, each from its own dataset handle.
func LoadScene(ctx context.Context, dir string, box cloud.GeoBox, open Opener) (Scene, error) {
	if err := box.Validate(); err != nil {
		return Scene{}, err
	}
	files, err := DiscoverBands(dir)
	if err != nil {
		return Scene{}, err
	}

	var (
		mu      sync.Mutex
		bands   = make(map[cloud.BandRole]cloud.Matrix, len(files))
		windows = make(map[cloud.BandRole]cloud.PixelWindow, len(files))
	)
	g, ctx := errgroup.WithContext(ctx)
	for role, file := range files {
		role, file := role, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, w, err := ReadBandWindow(open, file.Path, box)
			if err != nil {
				return fmt.Errorf("band %s: %w", file.ID, err)
			}
			log.Debug(logTag+"band loaded", zap.String("band", file.ID), zap.String("role", role.String()),
				zap.Int("width", w.Width()), zap.Int("height", w.Height()))
			mu.Lock()
			bands[role] = m
			windows[role] = w
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Scene{}, err
	}

	set, err := cloud.NewBandSet(bands)
	if err != nil {
		return Scene{}, fmt.Errorf("scene %s: %w", dir, err)
	}
	return Scene{Dir: dir, Bands: set, Windows: windows}, nil
}
