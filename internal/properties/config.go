package properties

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/forest-guardian/cloudcover/internal/cloud"
	"github.com/forest-guardian/cloudcover/internal/region"
	"gopkg.in/yaml.v2"
)

const (
	DefaultResultFile        = "results.txt"
	DefaultCoverageThreshold = 100.0
	DefaultWorkers           = 1
)

var (
	ErrMissingSeriesPath = errors.New("PATH is required")
	ErrMissingRegion     = errors.New("TOPLEFT and BOTRIGHT, or REGION_GEOJSON, are required")
	ErrInvalidWorkers    = errors.New("WORKERS must be at least 1")
)

// Config is a batch run configuration. Key names follow the historical conf.json,
// which loads unchanged since JSON is valid YAML.
type Config struct {
	TopLeft           []float64 `yaml:"TOPLEFT"`
	BottomRight       []float64 `yaml:"BOTRIGHT"`
	T1                float64   `yaml:"T1"`
	T2                float64   `yaml:"t2"`
	CoverageThreshold float64   `yaml:"SEUIL_ZONE"`
	SeriesPath        string    `yaml:"PATH"`
	ResultFile        string    `yaml:"RESULT_FILE"`
	RegionGeoJSON     string    `yaml:"REGION_GEOJSON"`
	MaskDir           string    `yaml:"MASK_DIR"`
	CacheDir          string    `yaml:"CACHE_DIR"`
	ReportCSV         string    `yaml:"REPORT_CSV"`
	Workers           int       `yaml:"WORKERS"`
}

func DefaultConfig() Config {
	return Config{
		T1:                cloud.DefaultT1,
		T2:                cloud.DefaultT2,
		CoverageThreshold: DefaultCoverageThreshold,
		ResultFile:        DefaultResultFile,
		Workers:           DefaultWorkers,
	}
}

// ParseConfig decodes data over the defaults, then applies environment overrides.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a config file. Relative paths inside it resolve against the file's directory.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, err
	}
	cfg.resolvePaths(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"CLOUD_SERIES_PATH": &c.SeriesPath,
		"CLOUD_RESULT_FILE": &c.ResultFile,
		"CLOUD_MASK_DIR":    &c.MaskDir,
		"CLOUD_CACHE_DIR":   &c.CacheDir,
		"CLOUD_REPORT_CSV":  &c.ReportCSV,
	}
	for key, field := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*field = v
		}
	}
	if v, ok := os.LookupEnv("CLOUD_WORKERS"); ok {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CLOUD_WORKERS: %w", err)
		}
		c.Workers = workers
	}
	return nil
}

func (c *Config) resolvePaths(base string) {
	for _, p := range []*string{&c.SeriesPath, &c.ResultFile, &c.RegionGeoJSON, &c.MaskDir, &c.CacheDir, &c.ReportCSV} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

func (c Config) Validate() error {
	if c.SeriesPath == "" {
		return ErrMissingSeriesPath
	}
	if c.Workers < 1 {
		return ErrInvalidWorkers
	}
	if c.RegionGeoJSON == "" && (len(c.TopLeft) != 2 || len(c.BottomRight) != 2) {
		return ErrMissingRegion
	}
	return nil
}

// GeoBox returns the region of interest, REGION_GEOJSON wins over the corners.
func (c Config) GeoBox() (cloud.GeoBox, error) {
	if c.RegionGeoJSON != "" {
		return region.LoadGeoBox(c.RegionGeoJSON)
	}
	if len(c.TopLeft) != 2 || len(c.BottomRight) != 2 {
		return cloud.GeoBox{}, ErrMissingRegion
	}
	return cloud.GeoBoxFromCorners([2]float64{c.TopLeft[0], c.TopLeft[1]}, [2]float64{c.BottomRight[0], c.BottomRight[1]})
}

func (c Config) Params() cloud.Params {
	return cloud.Params{T1: c.T1, T2: c.T2}
}
