package cloud

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

type BandRole int

const (
	Blue BandRole = iota
	Green
	Red
	NIR
	SWIR1
	SWIR2
)

// Roles lists every role a BandSet needs, in band order.
var Roles = []BandRole{Blue, Green, Red, NIR, SWIR1, SWIR2}

func (r BandRole) String() string {
	switch r {
	case Blue:
		return "blue"
	case Green:
		return "green"
	case Red:
		return "red"
	case NIR:
		return "nir"
	case SWIR1:
		return "swir1"
	case SWIR2:
		return "swir2"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Landsat8 maps OLI band identifiers to roles.
var Landsat8 = map[string]BandRole{
	"B2": Blue,
	"B3": Green,
	"B4": Red,
	"B5": NIR,
	"B6": SWIR1,
	"B7": SWIR2,
}

var bandPattern = regexp.MustCompile(`(B[0-9]+)\.TIFF?$`)

// BandID extracts the upper-cased "B<digits>" identifier preceding the .TIF extension.
func BandID(filename string) (string, bool) {
	m := bandPattern.FindStringSubmatch(strings.ToUpper(filepath.Base(filename)))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IdentifyBand returns the Landsat-8 role of a band file, ok is false for anything else.
func IdentifyBand(filename string) (BandRole, bool) {
	id, ok := BandID(filename)
	if !ok {
		return 0, false
	}
	role, ok := Landsat8[id]
	return role, ok
}

// BandSet is the six co-registered arrays of one scene's region of interest.
type BandSet struct {
	Blue  Matrix
	Green Matrix
	Red   Matrix
	NIR   Matrix
	SWIR1 Matrix
	SWIR2 Matrix
}

// NewBandSet assembles a BandSet, every role must be present.
func NewBandSet(bands map[BandRole]Matrix) (BandSet, error) {
	for _, role := range Roles {
		if _, ok := bands[role]; !ok {
			return BandSet{}, fmt.Errorf("%s: %w", role, ErrMissingBand)
		}
	}
	return BandSet{
		Blue:  bands[Blue],
		Green: bands[Green],
		Red:   bands[Red],
		NIR:   bands[NIR],
		SWIR1: bands[SWIR1],
		SWIR2: bands[SWIR2],
	}, nil
}

func (b BandSet) Band(role BandRole) Matrix {
	switch role {
	case Blue:
		return b.Blue
	case Green:
		return b.Green
	case Red:
		return b.Red
	case NIR:
		return b.NIR
	case SWIR1:
		return b.SWIR1
	case SWIR2:
		return b.SWIR2
	default:
		return Matrix{}
	}
}

// Shape returns the rows and cols of the blue band, all bands share it.
func (b BandSet) Shape() (int, int) {
	return b.Blue.Rows, b.Blue.Cols
}

func (b BandSet) checkShape() error {
	rows, cols := b.Shape()
	for _, role := range Roles[1:] {
		band := b.Band(role)
		if !band.SameShape(rows, cols) || band.Len() != rows*cols {
			return fmt.Errorf("%s is %dx%d, blue is %dx%d: %w", role, band.Rows, band.Cols, rows, cols, ErrShapeMismatch)
		}
	}
	return nil
}
