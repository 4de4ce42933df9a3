package cloud

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	MaskClear   uint8 = 0
	MaskFlagged uint8 = 255

	DefaultT1 = 0.1
	DefaultT2 = 0.1
)

type Mode int

const (
	// ModeFixed flags cells strictly below T1.
	ModeFixed Mode = 1
	// ModeAdaptive flags cells strictly above mean + t2*(max-mean) of the valid cells.
	ModeAdaptive Mode = 2
)

func (m Mode) String() string {
	switch m {
	case ModeFixed:
		return "fixed"
	case ModeAdaptive:
		return "adaptive"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Classify turns an index matrix into a 0/255 mask.
// t1 is only read in ModeFixed, t2 only in ModeAdaptive.
func Classify(m Matrix, mode Mode, t1, t2 float64) (Mask, error) {
	switch mode {
	case ModeFixed:
		return ClassifyFixed(m, t1), nil
	case ModeAdaptive:
		mask, _ := ClassifyAdaptive(m, t2)
		return mask, nil
	default:
		return Mask{}, fmt.Errorf("%s: %w", mode, ErrUnknownMode)
	}
}

// ClassifyFixed compares in float32, the precision of the index values.
func ClassifyFixed(m Matrix, t1 float64) Mask {
	limit := float32(t1)
	mask := NewGrid[uint8](m.Rows, m.Cols)
	for i, v := range m.Data {
		if v < limit {
			mask.Data[i] = MaskFlagged
		}
	}
	return mask
}

// ClassifyAdaptive also returns the derived threshold, NaN when m has no valid cell.
// A NaN threshold flags nothing.
func ClassifyAdaptive(m Matrix, t2 float64) (Mask, float64) {
	threshold := AdaptiveThreshold(m, t2)
	limit := float32(threshold)
	mask := NewGrid[uint8](m.Rows, m.Cols)
	for i, v := range m.Data {
		if v > limit {
			mask.Data[i] = MaskFlagged
		}
	}
	return mask, threshold
}

// AdaptiveThreshold returns mean + t2*(max-mean) over the non-NaN cells of m.
func AdaptiveThreshold(m Matrix, t2 float64) float64 {
	valid := make([]float64, 0, len(m.Data))
	for _, v := range m.Data {
		if !math.IsNaN(float64(v)) {
			valid = append(valid, float64(v))
		}
	}
	if len(valid) == 0 {
		return math.NaN()
	}
	mean := stat.Mean(valid, nil)
	min, max := floats.Min(valid), floats.Max(valid)
	// keep rounding from pushing the mean outside [min, max]
	mean = math.Max(min, math.Min(mean, max))
	return mean + t2*(max-mean)
}
