package cloud

import "math"

// ComputeCI1 returns (blue + green + red) / (nir + 2*swir1).
// Zero denominators yield NaN or Inf.
func ComputeCI1(b BandSet) (Matrix, error) {
	if err := b.checkShape(); err != nil {
		return Matrix{}, err
	}
	rows, cols := b.Shape()
	result := NewGrid[float32](rows, cols)
	for i := range result.Data {
		visible := b.Blue.Data[i] + b.Green.Data[i] + b.Red.Data[i]
		result.Data[i] = visible / (b.NIR.Data[i] + 2*b.SWIR1.Data[i])
	}
	return result, nil
}

// ComputeCI2 returns the mean reflectance over the six bands.
func ComputeCI2(b BandSet) (Matrix, error) {
	if err := b.checkShape(); err != nil {
		return Matrix{}, err
	}
	rows, cols := b.Shape()
	result := NewGrid[float32](rows, cols)
	for i := range result.Data {
		sum := b.Blue.Data[i] + b.Green.Data[i] + b.Red.Data[i] + b.NIR.Data[i] + b.SWIR1.Data[i] + b.SWIR2.Data[i]
		result.Data[i] = sum / 6
	}
	return result, nil
}

// AbsDeviation returns |m - 1|, the form ci1 is classified in.
func AbsDeviation(m Matrix) Matrix {
	result := NewGrid[float32](m.Rows, m.Cols)
	for i, v := range m.Data {
		result.Data[i] = float32(math.Abs(float64(v) - 1))
	}
	return result
}
