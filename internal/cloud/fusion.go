package cloud

import "fmt"

// Fuse adds two masks cell by cell, a cell flagged by both becomes 510.
func Fuse(a, b Mask) (FusedMask, error) {
	if !sameShape(a, b) {
		return FusedMask{}, fmt.Errorf("%dx%d and %dx%d: %w", a.Rows, a.Cols, b.Rows, b.Cols, ErrShapeMismatch)
	}
	fused := NewGrid[uint16](a.Rows, a.Cols)
	for i := range fused.Data {
		fused.Data[i] = uint16(a.Data[i]) + uint16(b.Data[i])
	}
	return fused, nil
}

// CountNonZero returns the number of flagged cells of g.
func CountNonZero[T Cell](g Grid[T]) int {
	count := 0
	for _, v := range g.Data {
		if v != 0 {
			count++
		}
	}
	return count
}

// CoverageRatio returns the percentage of non-zero cells of g.
// An empty grid yields NaN.
func CoverageRatio[T Cell](g Grid[T]) float64 {
	return float64(CountNonZero(g)) / float64(len(g.Data)) * 100
}
