package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	"github.com/forest-guardian/cloudcover/internal/cache"
	"github.com/forest-guardian/cloudcover/internal/cloud"
	"github.com/forest-guardian/cloudcover/internal/delivery"
	"github.com/forest-guardian/cloudcover/internal/log"
	"github.com/forest-guardian/cloudcover/internal/properties"
	"github.com/forest-guardian/cloudcover/internal/raster"
	"github.com/forest-guardian/cloudcover/internal/region"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errRegionFlags = errors.New("either --region or all of --xmin --xmax --ymin --ymax are required")

type rootFlags struct {
	logLevel string
	dev      bool
	banner   bool
}

func newRootCmd(opts ...delivery.Option) *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:          "cloudcover",
		Short:        "Estimate the cloud coverage of Landsat-8 scenes over a region of interest",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			envFile, err := properties.LoadEnv()
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}
			level := flags.logLevel
			if !cmd.Flags().Changed("log-level") {
				level = properties.LogLevel()
			}
			if err := log.Init(level, flags.dev); err != nil {
				return err
			}
			if flags.banner {
				printBanner()
			}
			if envFile != "" {
				log.Debug("env loaded", zap.String("file", envFile))
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&flags.dev, "dev", false, "human readable development logs")
	root.PersistentFlags().BoolVar(&flags.banner, "banner", true, "print the banner")

	root.AddCommand(newRunCmd(opts), newSceneCmd(opts), newBandsCmd())
	return root
}

// resolveConfigPath joins relative paths onto ROOT_PATH when it is set.
func resolveConfigPath(path string) string {
	if root := properties.RootPath(); root != "" && !filepath.IsAbs(path) {
		return filepath.Join(root, path)
	}
	return path
}

func newRunCmd(opts []delivery.Option) *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate every scene directory of the configured series",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := properties.LoadConfig(resolveConfigPath(configPath))
			if err != nil {
				return err
			}
			res, err := delivery.RunBatch(cmd.Context(), cfg, opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, row := range res.Rows {
				if row.Error != "" {
					color.New(color.FgRed).Fprintf(out, "%s: %s\n", row.Scene, row.Error)
					continue
				}
				c := color.New(color.FgGreen)
				if !row.Usable {
					c = color.New(color.FgYellow)
				}
				c.Fprintf(out, "%s = %s\n", row.Scene, strconv.FormatFloat(row.Coverage, 'f', -1, 64))
			}
			fmt.Fprintf(out, "run %s: %d scenes, %d failed\n", res.RunID, len(res.Rows), res.Failed)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "conf.json", "batch configuration file (JSON or YAML)")
	return cmd
}

type sceneFlags struct {
	xMin, xMax, yMin, yMax float64
	region                 string
	t1, t2                 float64
	maskDir                string
	cacheDir               string
}

func (f sceneFlags) box(cmd *cobra.Command) (cloud.GeoBox, error) {
	if f.region != "" {
		return region.LoadGeoBox(f.region)
	}
	for _, name := range []string{"xmin", "xmax", "ymin", "ymax"} {
		if !cmd.Flags().Changed(name) {
			return cloud.GeoBox{}, errRegionFlags
		}
	}
	return cloud.NewGeoBox(f.xMin, f.xMax, f.yMin, f.yMax)
}

func newSceneCmd(opts []delivery.Option) *cobra.Command {
	f := &sceneFlags{}
	cmd := &cobra.Command{
		Use:   "scene <dir>",
		Short: "Evaluate a single scene directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			box, err := f.box(cmd)
			if err != nil {
				return err
			}
			job := delivery.SceneJob{
				Dir:     args[0],
				Box:     box,
				Params:  cloud.Params{T1: f.t1, T2: f.t2},
				MaskDir: f.maskDir,
			}
			if f.cacheDir != "" {
				job.Cache = cache.NewFileCache[delivery.SceneSummary](f.cacheDir)
			}
			outcome, err := delivery.EvaluateScene(cmd.Context(), job, opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s = %s\n", outcome.Scene, strconv.FormatFloat(outcome.Summary.Coverage, 'f', -1, 64))
			fmt.Fprintf(out, "flagged %d / %d pixels, t2 threshold %v\n", outcome.Summary.Flagged, outcome.Summary.Total, outcome.Summary.ThresholdT2)
			for _, path := range outcome.MaskPaths {
				fmt.Fprintf(out, "mask: %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&f.xMin, "xmin", 0, "region west edge")
	cmd.Flags().Float64Var(&f.xMax, "xmax", 0, "region east edge")
	cmd.Flags().Float64Var(&f.yMin, "ymin", 0, "region south edge")
	cmd.Flags().Float64Var(&f.yMax, "ymax", 0, "region north edge")
	cmd.Flags().StringVar(&f.region, "region", "", "GeoJSON file whose bounds are the region")
	cmd.Flags().Float64Var(&f.t1, "t1", cloud.DefaultT1, "fixed threshold on |ci1 - 1|")
	cmd.Flags().Float64Var(&f.t2, "t2", cloud.DefaultT2, "adaptive threshold fraction for ci2")
	cmd.Flags().StringVar(&f.maskDir, "save-masks", "", "directory to export mask images to")
	cmd.Flags().StringVar(&f.cacheDir, "cache-dir", "", "result cache directory")
	return cmd
}

func newBandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bands <dir>",
		Short: "List the band files of a scene directory and the role each one fills",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := raster.ListBandFiles(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, file := range files {
				switch {
				case file.Recognized:
					color.New(color.FgGreen).Fprintf(out, "%-40s %-4s %s\n", file.Name, file.ID, file.Role)
				case file.ID != "":
					fmt.Fprintf(out, "%-40s %-4s unused\n", file.Name, file.ID)
				default:
					fmt.Fprintf(out, "%-40s skipped\n", file.Name)
				}
			}
			return nil
		},
	}
}
