package cloud

import "errors"

var (
	ErrInvalidRegion = errors.New("invalid region of interest")
	ErrMissingBand   = errors.New("missing band")
	ErrUnknownMode   = errors.New("unknown classification mode")
	ErrShapeMismatch = errors.New("grid shape mismatch")
)
