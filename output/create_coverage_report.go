package output

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gocarina/gocsv"
)

type CoverageRow struct {
	Scene         string  `csv:"scene"`
	Coverage      float64 `csv:"coverage"`
	FlaggedPixels int     `csv:"flagged_pixels"`
	TotalPixels   int     `csv:"total_pixels"`
	ThresholdT2   float64 `csv:"threshold_t2"`
	Usable        bool    `csv:"usable"`
	Cached        bool    `csv:"cached"`
	Error         string  `csv:"error"`
	RunID         string  `csv:"run_id"`
}

// WriteCoverageReport writes rows, header included, replacing any previous report.
func WriteCoverageReport(rows []*CoverageRow, outputPath string) error {
	if err := ensureDir(outputPath); err != nil {
		return err
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create report %s: %w", outputPath, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("failed to write report %s: %w", outputPath, err)
	}
	return nil
}

func ReadCoverageReport(path string) ([]*CoverageRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open report %s: %w", path, err)
	}
	defer file.Close()

	var rows []*CoverageRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", path, err)
	}
	return rows, nil
}

// AppendTextReport appends one "<scene> = <coverage>" line per scene, in the given order.
func AppendTextReport(outputPath string, scenes []string, coverage map[string]float64) error {
	if err := ensureDir(outputPath); err != nil {
		return err
	}
	file, err := os.OpenFile(outputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open result file %s: %w", outputPath, err)
	}
	defer file.Close()

	for _, scene := range scenes {
		value, ok := coverage[scene]
		if !ok {
			continue
		}
		line := scene + " = " + strconv.FormatFloat(value, 'f', -1, 64) + "\n"
		if _, err := file.WriteString(line); err != nil {
			return fmt.Errorf("failed to write result file %s: %w", outputPath, err)
		}
	}
	return nil
}
