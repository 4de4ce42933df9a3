package delivery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/forest-guardian/cloudcover/internal/cache"
	"github.com/forest-guardian/cloudcover/internal/cloud"
	"github.com/forest-guardian/cloudcover/internal/log"
	"github.com/forest-guardian/cloudcover/internal/notification"
	"github.com/forest-guardian/cloudcover/internal/properties"
	"github.com/forest-guardian/cloudcover/internal/utils"
	"github.com/forest-guardian/cloudcover/output"
	"github.com/gammazero/workerpool"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

var ErrNoScenes = errors.New("no scene directory found")

type BatchResult struct {
	RunID string
	// Rows are sorted by scene id, failed scenes carry their error.
	Rows []*output.CoverageRow
	// Outcomes carry summaries and mask paths, per-pixel grids are released.
	Outcomes map[string]SceneOutcome
	Failed   int
}

// ListScenes returns the sub-directory names of seriesPath, sorted.
func ListScenes(seriesPath string) ([]string, error) {
	entries, err := os.ReadDir(seriesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read series %s: %w", seriesPath, err)
	}
	var scenes []string
	for _, entry := range entries {
		if entry.IsDir() {
			scenes = append(scenes, entry.Name())
		}
	}
	return utils.SortStrings(scenes, true), nil
}

// RunBatch evaluates every scene of cfg.SeriesPath with cfg.Workers workers. A scene
// failure is recorded in its report row and does not stop the batch. Region and series
// errors are returned before any scene is read.
func RunBatch(ctx context.Context, cfg properties.Config, opts ...Option) (BatchResult, error) {
	o := newOptions(opts)
	runID := uuid.NewString()
	res := BatchResult{RunID: runID, Outcomes: make(map[string]SceneOutcome)}

	box, err := cfg.GeoBox()
	if err != nil {
		return res, err
	}
	if err := box.Validate(); err != nil {
		return res, err
	}
	scenes, err := ListScenes(cfg.SeriesPath)
	if err != nil {
		return res, err
	}
	if len(scenes) == 0 {
		return res, fmt.Errorf("%s: %w", cfg.SeriesPath, ErrNoScenes)
	}

	var sceneCache cache.CacheService[SceneSummary]
	if cfg.CacheDir != "" {
		sceneCache = cache.NewFileCache[SceneSummary](cfg.CacheDir)
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = properties.DefaultWorkers
	}

	log.Info(logTag+"batch started", zap.String("run_id", runID), zap.String("series", cfg.SeriesPath),
		zap.Int("scenes", len(scenes)), zap.Int("workers", workers))

	var (
		mu          sync.Mutex
		failures    = make(map[string]error)
		progressBar *progressbar.ProgressBar
	)
	if o.progress {
		progressBar = progressbar.Default(int64(len(scenes)), "Estimating cloud coverage")
	}

	wp := workerpool.New(workers)
	for _, scene := range scenes {
		scene := scene
		wp.Submit(func() {
			var (
				outcome SceneOutcome
				err     = ctx.Err()
			)
			if err == nil {
				outcome, err = EvaluateScene(ctx, SceneJob{
					Dir:     filepath.Join(cfg.SeriesPath, scene),
					Box:     box,
					Params:  cfg.Params(),
					MaskDir: cfg.MaskDir,
					Cache:   sceneCache,
				}, opts...)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Error(logTag+"scene failed", zap.String("scene", scene), zap.Error(err))
				failures[scene] = err
			} else {
				// only the summary outlives the scene
				outcome.Result = cloud.Result{}
				res.Outcomes[scene] = outcome
			}
			if progressBar != nil {
				progressBar.Add(1)
			}
		})
	}
	wp.StopWait()

	coverage := make(map[string]float64, len(res.Outcomes))
	for scene, outcome := range res.Outcomes {
		coverage[scene] = outcome.Summary.Coverage
	}
	for _, scene := range scenes {
		if err, failed := failures[scene]; failed {
			res.Rows = append(res.Rows, &output.CoverageRow{Scene: scene, Error: err.Error(), RunID: runID})
			continue
		}
		s := res.Outcomes[scene]
		res.Rows = append(res.Rows, &output.CoverageRow{
			Scene:         scene,
			Coverage:      s.Summary.Coverage,
			FlaggedPixels: s.Summary.Flagged,
			TotalPixels:   s.Summary.Total,
			ThresholdT2:   s.Summary.ThresholdT2,
			Usable:        s.Summary.Coverage < cfg.CoverageThreshold,
			Cached:        s.Cached,
			RunID:         runID,
		})
	}
	res.Failed = len(failures)

	if cfg.ResultFile != "" {
		if err := output.AppendTextReport(cfg.ResultFile, utils.GetSortedKeys(coverage, true), coverage); err != nil {
			return res, err
		}
	}
	if cfg.ReportCSV != "" {
		if err := output.WriteCoverageReport(res.Rows, cfg.ReportCSV); err != nil {
			return res, err
		}
	}

	log.Info(logTag+"batch finished", zap.String("run_id", runID), zap.Int("scenes", len(scenes)), zap.Int("failed", res.Failed))
	if o.notify {
		notify(cfg, res, len(scenes))
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

func notify(cfg properties.Config, res BatchResult, total int) {
	msg := fmt.Sprintf("Run %s\n\nSeries: %s\nScenes: %d\nFailed: %d", res.RunID, cfg.SeriesPath, total, res.Failed)
	if cfg.ReportCSV != "" {
		msg += "\nReport: " + cfg.ReportCSV
	}
	send := notification.SendDiscordSuccessNotification
	if res.Failed > 0 {
		send = notification.SendDiscordWarnNotification
	}
	if err := send(msg); err != nil {
		log.Warn(logTag+"notification failed", zap.Error(err))
	}
}
