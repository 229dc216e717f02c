// Package geoproj provides forward and inverse cartographic
// projections (Lambert Conformal Conic, Albers Equal-Area Conic,
// Stereographic, and Mercator) on spherical or ellipsoidal planet
// models, for regridding geophysical point observations onto the
// regular analysis grids used by air-quality models.
package geoproj

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// A Projector converts geodetic coordinates to planar map coordinates
// and back. Projectors are immutable after construction: deriving a
// variant with different false offsets or a different spheroid yields
// a new value, so concurrent Project/Unproject calls on one projector
// are safe.
type Projector interface {
	// Project converts a geodetic coordinate to planar (x, y) meters.
	// The input must be a valid latitude/longitude; the output is
	// never NaN for valid input.
	Project(ll s2.LatLng) (orb.Point, error)
	// Unproject converts planar (x, y) meters back to a geodetic
	// coordinate, with longitude normalized into [-180, 180] degrees.
	// If the iterative inverse solve fails to converge it returns the
	// zero coordinate (latitude 0, longitude 0) together with
	// ErrNoConvergence; (0, 0) is ambiguous without checking the error.
	Unproject(pt orb.Point) (s2.LatLng, error)

	Spheroid() Spheroid
	FalseEasting() float64
	FalseNorthing() float64
	CentralLongitude() s1.Angle
	CentralLatitude() s1.Angle

	// Equal reports whether the other projector is the same variant
	// with approximately equal parameters.
	Equal(Projector) bool
	// Clone returns an independent projector with identical
	// parameters.
	Clone() Projector
	// Valid re-checks the cached derived terms and returns an error
	// if any is out of range. It never fails for a projector obtained
	// from a constructor in this package.
	Valid() error
}

// Params carries the numeric description of a projection, as supplied
// by a grid-description header or command line. Latitudes and
// longitudes are in degrees, offsets in meters. Fields not used by a
// family are ignored by it.
type Params struct {
	Spheroid Spheroid

	CentralLongitude float64
	CentralLatitude  float64

	// Standard parallels, conic families only.
	LowerLatitude float64
	UpperLatitude float64

	// Latitude of true scale, Stereographic only.
	SecantLatitude float64

	FalseEasting  float64
	FalseNorthing float64
}

type familyFunc func(Params) (Projector, error)

var families map[string]familyFunc

func registerFamily(f familyFunc, names ...string) {
	if families == nil {
		families = make(map[string]familyFunc)
	}
	for _, n := range names {
		families[strings.ToLower(n)] = f
	}
}

// New constructs a projector by family name. Recognized names include
// "lcc"/"lambert_conformal_conic", "aea"/"albers", "stere"/
// "stereographic", and "merc"/"mercator", case-insensitively.
func New(family string, p Params) (Projector, error) {
	f, ok := families[strings.ToLower(family)]
	if !ok {
		return nil, fmt.Errorf("unknown projection family %q", family)
	}
	return f(p)
}

// Families returns the registered family names, for diagnostics.
func Families() []string {
	names := make([]string, 0, len(families))
	for n := range families {
		names = append(names, n)
	}
	return names
}

func checkGeodetic(ll s2.LatLng) error {
	if !ll.IsValid() {
		return fmt.Errorf("geodetic coordinate out of range: %v", ll)
	}
	return nil
}

func checkLongitudeDegrees(lon float64) error {
	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitude must be in [-180, 180] degrees, got %g", lon)
	}
	return nil
}

func checkLatitudeDegrees(lat float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be in [-90, 90] degrees, got %g", lat)
	}
	return nil
}

// checkStandardParallels validates the two standard parallels of a
// conic projection: same sign, each magnitude in [1, 89] degrees, and
// lower not above upper.
func checkStandardParallels(lower, upper float64) error {
	if lower > upper {
		return errors.New("lower standard parallel must not exceed upper standard parallel")
	}
	if sign(lower) != sign(upper) {
		return errors.New("standard parallels must be in the same hemisphere")
	}
	for _, lat := range []float64{lower, upper} {
		if a := absDeg(lat); a < 1 || a > 89 {
			return fmt.Errorf("standard parallel must have magnitude in [1, 89] degrees, got %g", lat)
		}
	}
	return nil
}

func absDeg(d float64) float64 {
	if d < 0 {
		return -d
	}
	return d
}

func checkOffset(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s must be finite, got %g", name, v)
	}
	return nil
}
