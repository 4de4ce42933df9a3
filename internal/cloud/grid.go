package cloud

import "fmt"

// Cell is any value a Grid can hold.
type Cell interface {
	~float32 | ~uint8 | ~uint16
}

// Grid is a row-major 2D array.
type Grid[T Cell] struct {
	Rows int
	Cols int
	Data []T
}

// Matrix holds band reflectances or index values.
type Matrix = Grid[float32]

// Mask holds a classification, every cell is MaskClear or MaskFlagged.
type Mask = Grid[uint8]

// FusedMask holds the sum of two masks, cells are 0, 255 or 510.
type FusedMask = Grid[uint16]

func NewGrid[T Cell](rows, cols int) Grid[T] {
	return Grid[T]{Rows: rows, Cols: cols, Data: make([]T, rows*cols)}
}

// GridFromRows copies a [][]T into a Grid. Ragged input is rejected.
func GridFromRows[T Cell](rows [][]T) (Grid[T], error) {
	if len(rows) == 0 {
		return Grid[T]{}, nil
	}
	cols := len(rows[0])
	g := NewGrid[T](len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return Grid[T]{}, fmt.Errorf("row %d has %d values, expected %d: %w", i, len(row), cols, ErrShapeMismatch)
		}
		copy(g.Data[i*cols:(i+1)*cols], row)
	}
	return g, nil
}

func (g Grid[T]) At(row, col int) T {
	return g.Data[row*g.Cols+col]
}

func (g Grid[T]) Len() int {
	return len(g.Data)
}

func (g Grid[T]) SameShape(rows, cols int) bool {
	return g.Rows == rows && g.Cols == cols
}

// ToRows returns a [][]T view sharing the grid's storage.
func (g Grid[T]) ToRows() [][]T {
	result := make([][]T, g.Rows)
	for i := range result {
		result[i] = g.Data[i*g.Cols : (i+1)*g.Cols]
	}
	return result
}

func sameShape[A, B Cell](a Grid[A], b Grid[B]) bool {
	return a.Rows == b.Rows && a.Cols == b.Cols && len(a.Data) == len(b.Data)
}
