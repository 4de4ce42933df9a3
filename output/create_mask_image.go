package output

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/forest-guardian/cloudcover/internal/cloud"
)

func withPNGExt(path string) string {
	if !strings.HasSuffix(strings.ToLower(path), ".png") {
		path += ".png"
	}
	return path
}

func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create output folder: %w", err)
		}
	}
	return nil
}

func grayLevel[T cloud.Cell](v T) int {
	f := float64(v)
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= 255 {
		return 255
	}
	return int(f)
}

// CreateMaskImage writes g as an 8-bit grayscale PNG. Values above 255, such as a
// cell flagged by both indices in a fused mask, saturate to white.
func CreateMaskImage[T cloud.Cell](g cloud.Grid[T], outputImagePath string) (string, error) {
	if g.Rows == 0 || g.Cols == 0 {
		return "", fmt.Errorf("cannot draw %dx%d mask: %w", g.Rows, g.Cols, cloud.ErrShapeMismatch)
	}
	outputImagePath = withPNGExt(outputImagePath)
	if err := ensureDir(outputImagePath); err != nil {
		return "", err
	}

	dc := gg.NewContext(g.Cols, g.Rows)
	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.Cols; x++ {
			level := grayLevel(g.At(y, x))
			dc.SetRGB255(level, level, level)
			dc.SetPixel(x, y)
		}
	}
	if err := dc.SavePNG(outputImagePath); err != nil {
		return "", fmt.Errorf("failed to save mask image %s: %w", outputImagePath, err)
	}
	return outputImagePath, nil
}

func normalize(value, min, max float64) float64 {
	if max == min {
		return 0
	}
	norm := (value - min) / (max - min)
	if norm < 0 {
		return 0
	}
	if norm > 1 {
		return 1
	}
	return norm
}

func valueToColor(norm float64) color.RGBA {
	var r, g, b uint8
	if norm <= 0.5 {
		// blue to green
		ratio := norm / 0.5
		g = uint8(255 * ratio)
		b = uint8(255 * (1 - ratio))
	} else {
		// green to red
		ratio := (norm - 0.5) / 0.5
		r = uint8(255 * ratio)
		g = uint8(255 * (1 - ratio))
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// CreateIndexImage renders an index matrix as a blue-green-red ramp stretched over its
// finite range. NaN and infinite cells are drawn black.
func CreateIndexImage(m cloud.Matrix, outputImagePath string) (string, error) {
	if m.Rows == 0 || m.Cols == 0 {
		return "", fmt.Errorf("cannot draw %dx%d index: %w", m.Rows, m.Cols, cloud.ErrShapeMismatch)
	}
	outputImagePath = withPNGExt(outputImagePath)
	if err := ensureDir(outputImagePath); err != nil {
		return "", err
	}

	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range m.Data {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		min = math.Min(min, f)
		max = math.Max(max, f)
	}

	dc := gg.NewContext(m.Cols, m.Rows)
	for y := 0; y < m.Rows; y++ {
		for x := 0; x < m.Cols; x++ {
			f := float64(m.At(y, x))
			if math.IsNaN(f) || math.IsInf(f, 0) {
				dc.SetRGB(0, 0, 0)
			} else {
				dc.SetColor(valueToColor(normalize(f, min, max)))
			}
			dc.SetPixel(x, y)
		}
	}
	if err := dc.SavePNG(outputImagePath); err != nil {
		return "", fmt.Errorf("failed to save index image %s: %w", outputImagePath, err)
	}
	return outputImagePath, nil
}
