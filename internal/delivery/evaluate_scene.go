package delivery

import (
	"context"
	"fmt"
	"math"
	"path/filepath"

	"github.com/forest-guardian/cloudcover/internal/cache"
	"github.com/forest-guardian/cloudcover/internal/cloud"
	"github.com/forest-guardian/cloudcover/internal/log"
	"github.com/forest-guardian/cloudcover/internal/raster"
	"github.com/forest-guardian/cloudcover/output"
	"go.uber.org/zap"
)

const logTag = "delivery: "

// SceneSummary is the cached, reportable part of a scene evaluation.
type SceneSummary struct {
	Coverage    float64 `json:"coverage"`
	Flagged     int     `json:"flagged"`
	Total       int     `json:"total"`
	ThresholdT2 float64 `json:"threshold_t2"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
}

type SceneJob struct {
	Dir     string
	Box     cloud.GeoBox
	Params  cloud.Params
	MaskDir string
	Cache   cache.CacheService[SceneSummary]
}

type SceneOutcome struct {
	Scene   string
	Summary SceneSummary
	// Result is empty when the summary came from the cache.
	Result    cloud.Result
	Cached    bool
	MaskPaths []string
}

type options struct {
	open     raster.Opener
	progress bool
	notify   bool
}

type Option func(*options)

// WithOpener replaces the GDAL reader, tests use it to serve synthetic rasters.
func WithOpener(open raster.Opener) Option {
	return func(o *options) { o.open = open }
}

func WithProgress(enabled bool) Option {
	return func(o *options) { o.progress = enabled }
}

func WithNotifications(enabled bool) Option {
	return func(o *options) { o.notify = enabled }
}

func newOptions(opts []Option) options {
	o := options{open: raster.OpenGDAL, progress: true, notify: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func SceneID(dir string) string {
	return filepath.Base(filepath.Clean(dir))
}

// EvaluateScene crops the scene to the job's box and estimates its cloud coverage.
// A cache hit skips decoding, except when masks are requested.
func EvaluateScene(ctx context.Context, job SceneJob, opts ...Option) (SceneOutcome, error) {
	o := newOptions(opts)
	scene := SceneID(job.Dir)
	outcome := SceneOutcome{Scene: scene}

	if err := job.Box.Validate(); err != nil {
		return outcome, err
	}

	var key string
	if job.Cache != nil {
		var err error
		key, err = cache.SceneKey(job.Cache, job.Dir, job.Box, job.Params)
		if err != nil {
			log.Warn(logTag+"cache key failed", zap.String("scene", scene), zap.Error(err))
		} else if summary, ok := job.Cache.Get(key); ok && job.MaskDir == "" {
			log.Debug(logTag+"cache hit", zap.String("scene", scene))
			outcome.Summary = summary
			outcome.Cached = true
			return outcome, nil
		}
	}

	loaded, err := raster.LoadScene(ctx, job.Dir, job.Box, o.open)
	if err != nil {
		return outcome, err
	}
	result, err := cloud.Evaluate(loaded.Bands, job.Params)
	if err != nil {
		return outcome, fmt.Errorf("scene %s: %w", scene, err)
	}
	rows, cols := loaded.Bands.Shape()
	outcome.Result = result
	outcome.Summary = SceneSummary{
		Coverage:    result.Coverage,
		Flagged:     result.Flagged,
		Total:       result.Total,
		ThresholdT2: result.ThresholdT2,
		Width:       cols,
		Height:      rows,
	}

	if job.MaskDir != "" {
		outcome.MaskPaths = exportMasks(job.MaskDir, scene, result)
	}

	if key != "" && cacheable(outcome.Summary) {
		if err := job.Cache.Set(key, outcome.Summary); err != nil {
			log.Warn(logTag+"cache write failed", zap.String("scene", scene), zap.Error(err))
		}
	}

	log.Info(logTag+"scene evaluated", zap.String("scene", scene), zap.Float64("coverage", result.Coverage),
		zap.Float64("threshold_t2", result.ThresholdT2), zap.Int("flagged", result.Flagged), zap.Int("total", result.Total))
	return outcome, nil
}

// JSON has no NaN, such summaries are recomputed on every run.
func cacheable(s SceneSummary) bool {
	return !math.IsNaN(s.Coverage) && !math.IsNaN(s.ThresholdT2) && !math.IsInf(s.ThresholdT2, 0)
}

// exportMasks writes the fused and per-index masks plus a ci2 rendering. Failures are logged only.
func exportMasks(dir, scene string, result cloud.Result) []string {
	var paths []string
	save := func(name string, draw func(string) (string, error)) {
		path, err := draw(filepath.Join(dir, scene+"_"+name))
		if err != nil {
			log.Warn(logTag+"mask export failed", zap.String("scene", scene), zap.String("mask", name), zap.Error(err))
			return
		}
		paths = append(paths, path)
	}
	save("fusion", func(p string) (string, error) { return output.CreateMaskImage(result.Fused, p) })
	save("ci1", func(p string) (string, error) { return output.CreateMaskImage(result.CI1Mask, p) })
	save("ci2", func(p string) (string, error) { return output.CreateMaskImage(result.CI2Mask, p) })
	save("ci2_index", func(p string) (string, error) { return output.CreateIndexImage(result.CI2, p) })
	return paths
}
