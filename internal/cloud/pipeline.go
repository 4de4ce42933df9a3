package cloud

// Params are the classification thresholds of one run.
type Params struct {
	T1 float64 // fixed threshold on |ci1 - 1|
	T2 float64 // fraction of the mean-to-max spread for ci2
}

func DefaultParams() Params {
	return Params{T1: DefaultT1, T2: DefaultT2}
}

// Result holds every intermediate of a scene evaluation.
type Result struct {
	CI1         Matrix
	CI1Abs      Matrix
	CI2         Matrix
	CI1Mask     Mask
	CI2Mask     Mask
	Fused       FusedMask
	ThresholdT2 float64
	Flagged     int
	Total       int
	Coverage    float64
}

// Evaluate runs index computation, classification, fusion and coverage on one band set.
func Evaluate(bands BandSet, p Params) (Result, error) {
	ci1, err := ComputeCI1(bands)
	if err != nil {
		return Result{}, err
	}
	ci2, err := ComputeCI2(bands)
	if err != nil {
		return Result{}, err
	}
	ci1Abs := AbsDeviation(ci1)

	mask1, err := Classify(ci1Abs, ModeFixed, p.T1, p.T2)
	if err != nil {
		return Result{}, err
	}
	mask2, t2 := ClassifyAdaptive(ci2, p.T2)

	fused, err := Fuse(mask1, mask2)
	if err != nil {
		return Result{}, err
	}
	return Result{
		CI1:         ci1,
		CI1Abs:      ci1Abs,
		CI2:         ci2,
		CI1Mask:     mask1,
		CI2Mask:     mask2,
		Fused:       fused,
		ThresholdT2: t2,
		Flagged:     CountNonZero(fused),
		Total:       fused.Len(),
		Coverage:    CoverageRatio(fused),
	}, nil
}
