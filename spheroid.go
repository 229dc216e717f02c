package geoproj

import (
	"errors"
	"fmt"
	"math"
)

// Spheroid describes the planet model a projection operates on: an
// oblate ellipsoid given by its major and minor semi-axes in meters, or
// a perfect sphere when the two are equal. Eccentricity terms are
// derived once at construction and reused by every projection call.
type Spheroid struct {
	majorSemiaxis float64
	minorSemiaxis float64

	e          float64 // eccentricity
	e2         float64 // eccentricity squared
	oneMinusE2 float64
}

// NewSpheroid constructs a Spheroid from its semi-axes in meters. Both
// axes must be positive and the minor semi-axis must not exceed the
// major semi-axis.
func NewSpheroid(majorSemiaxis, minorSemiaxis float64) (Spheroid, error) {
	if !(majorSemiaxis > 0) || math.IsInf(majorSemiaxis, 0) {
		return Spheroid{}, fmt.Errorf("major semi-axis must be positive and finite, got %g", majorSemiaxis)
	}
	if !(minorSemiaxis > 0) || math.IsInf(minorSemiaxis, 0) {
		return Spheroid{}, fmt.Errorf("minor semi-axis must be positive and finite, got %g", minorSemiaxis)
	}
	if minorSemiaxis > majorSemiaxis {
		return Spheroid{}, errors.New("minor semi-axis must not exceed major semi-axis")
	}

	s := Spheroid{
		majorSemiaxis: majorSemiaxis,
		minorSemiaxis: minorSemiaxis,
	}
	ratio := minorSemiaxis / majorSemiaxis
	e2 := 1 - ratio*ratio
	// Guard against the tiny negative that 1-r*r can produce for a
	// sphere under rounding.
	if e2 < 0 {
		e2 = 0
	} else if e2 > 1 {
		e2 = 1
	}
	s.e2 = e2
	s.e = math.Sqrt(e2)
	s.oneMinusE2 = 1 - e2
	return s, nil
}

// MajorSemiaxis returns the major semi-axis in meters.
func (s Spheroid) MajorSemiaxis() float64 { return s.majorSemiaxis }

// MinorSemiaxis returns the minor semi-axis in meters.
func (s Spheroid) MinorSemiaxis() float64 { return s.minorSemiaxis }

// Eccentricity returns the first eccentricity, zero for a sphere.
func (s Spheroid) Eccentricity() float64 { return s.e }

// IsSphere reports whether the two semi-axes are equal.
func (s Spheroid) IsSphere() bool { return s.majorSemiaxis == s.minorSemiaxis }

func (s Spheroid) equal(o Spheroid) bool {
	return aboutEqual(s.majorSemiaxis, o.majorSemiaxis) &&
		aboutEqual(s.minorSemiaxis, o.minorSemiaxis)
}

func (s Spheroid) valid() error {
	if !(s.majorSemiaxis > 0) || s.minorSemiaxis > s.majorSemiaxis || !(s.minorSemiaxis > 0) {
		return errors.New("spheroid semi-axes out of range")
	}
	if math.IsNaN(s.e) || s.e < 0 || s.e > 1 {
		return errors.New("spheroid eccentricity out of range")
	}
	return nil
}

// Common planet models. WGS84 and GRS80 are the usual geodetic
// ellipsoids; AQMSphere is the 6370 km sphere used by MM5/WRF-derived
// air-quality modeling grids.
var (
	WGS84     = mustSpheroid(6378137.0, 6356752.3142451793)
	GRS80     = mustSpheroid(6378137.0, 6356752.3141403558)
	AQMSphere = mustSpheroid(6370000.0, 6370000.0)
)

func mustSpheroid(major, minor float64) Spheroid {
	s, err := NewSpheroid(major, minor)
	if err != nil {
		panic(fmt.Sprintf("error constructing spheroid: %s", err))
	}
	return s
}
