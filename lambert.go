package geoproj

import (
	"errors"
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// Lambert provides conversions between geodetic coordinates and
// Lambert Conformal Conic projection coordinates. The cone is tangent
// when the two standard parallels coincide and secant otherwise; the
// distinction is resolved once, at construction.
type Lambert struct {
	spheroid Spheroid

	// Projection parameters, radians and meters.
	lowerLatitude    float64
	upperLatitude    float64
	centralLongitude float64
	centralLatitude  float64
	falseEasting     float64
	falseNorthing    float64

	// Derived terms.
	isTangent bool
	n         float64 // cone constant
	f         float64 // scale constant
	rho0      float64 // radius of the central parallel
}

// NewLambert constructs a Lambert Conformal Conic projector. The
// standard parallels must be in the same hemisphere with magnitudes in
// [1, 89] degrees and lowerLatitude <= upperLatitude; longitudes and
// latitudes are in degrees, offsets in meters.
func NewLambert(s Spheroid, lowerLatitude, upperLatitude, centralLongitude,
	centralLatitude, falseEasting, falseNorthing float64) (*Lambert, error) {
	if err := s.valid(); err != nil {
		return nil, err
	}
	if err := checkStandardParallels(lowerLatitude, upperLatitude); err != nil {
		return nil, err
	}
	if err := checkLongitudeDegrees(centralLongitude); err != nil {
		return nil, err
	}
	if err := checkLatitudeDegrees(centralLatitude); err != nil {
		return nil, err
	}
	if err := checkOffset("false easting", falseEasting); err != nil {
		return nil, err
	}
	if err := checkOffset("false northing", falseNorthing); err != nil {
		return nil, err
	}

	l := &Lambert{
		spheroid:         s,
		lowerLatitude:    (s1.Angle(lowerLatitude) * s1.Degree).Radians(),
		upperLatitude:    (s1.Angle(upperLatitude) * s1.Degree).Radians(),
		centralLongitude: (s1.Angle(centralLongitude) * s1.Degree).Radians(),
		centralLatitude:  (s1.Angle(centralLatitude) * s1.Degree).Radians(),
		falseEasting:     falseEasting,
		falseNorthing:    falseNorthing,
	}
	l.derive()
	return l, nil
}

// derive computes the cone constant, scale constant, and central
// radius from the construction parameters. With a spherical model the
// eccentricity is zero and the factor functions reduce to the
// spherical forms exactly.
func (l *Lambert) derive() {
	e := l.spheroid.e

	sin1 := math.Sin(l.lowerLatitude)
	cos1 := math.Cos(l.lowerLatitude)
	ms1 := msfn(sin1, cos1, e)
	ts1 := tsfn(l.lowerLatitude, sin1, e)

	sin2 := math.Sin(l.upperLatitude)
	cos2 := math.Cos(l.upperLatitude)
	ms2 := msfn(sin2, cos2, e)
	ts2 := tsfn(l.upperLatitude, sin2, e)

	l.isTangent = l.upperLatitude-l.lowerLatitude < poleTolerance
	if l.isTangent {
		l.n = sin1
	} else {
		// The two parallels are distinct and in the same hemisphere,
		// so ts1 != ts2 and the ratio is well defined.
		l.n = math.Log(ms1/ms2) / math.Log(ts1/ts2)
	}
	l.f = ms1 / (l.n * math.Pow(ts1, l.n))

	if halfPi-math.Abs(l.centralLatitude) < poleTolerance {
		l.rho0 = 0
	} else {
		ts0 := tsfn(l.centralLatitude, math.Sin(l.centralLatitude), e)
		l.rho0 = l.spheroid.majorSemiaxis * l.f * math.Pow(ts0, l.n)
	}
}

// Project converts a geodetic coordinate to Lambert (x, y) meters.
func (l *Lambert) Project(ll s2.LatLng) (orb.Point, error) {
	if err := checkGeodetic(ll); err != nil {
		return orb.Point{}, err
	}
	phi := clampLatitude(ll.Lat.Radians())
	lam := clampLongitude(ll.Lng.Radians())

	ts := tsfn(phi, math.Sin(phi), l.spheroid.e)
	rho := l.spheroid.majorSemiaxis * l.f * math.Pow(ts, l.n)
	theta := l.n * adjustLongitude(lam-l.centralLongitude)

	x := rho*math.Sin(theta) + l.falseEasting
	y := l.rho0 - rho*math.Cos(theta) + l.falseNorthing
	return orb.Point{x, y}, nil
}

// Unproject converts Lambert (x, y) meters back to a geodetic
// coordinate.
func (l *Lambert) Unproject(pt orb.Point) (s2.LatLng, error) {
	x := pt.X() - l.falseEasting
	y := l.rho0 - (pt.Y() - l.falseNorthing)

	rho := math.Hypot(x, y)
	con := 1.0
	if l.n < 0 {
		rho = -rho
		con = -1
	}
	var theta float64
	if rho != 0 {
		theta = math.Atan2(con*x, con*y)
	}

	var phi float64
	if rho != 0 || l.n > 0 {
		ts := math.Pow(rho/(l.spheroid.majorSemiaxis*l.f), 1/l.n)
		var err error
		phi, err = phi2(ts, l.spheroid.e)
		if err != nil {
			return s2.LatLng{}, err
		}
	} else {
		phi = -halfPi
	}
	lam := adjustLongitude(theta/l.n + l.centralLongitude)
	return s2.LatLng{Lat: s1.Angle(phi), Lng: s1.Angle(lam)}, nil
}

// WithFalseOrigin returns a copy with different false easting and
// northing.
func (l *Lambert) WithFalseOrigin(falseEasting, falseNorthing float64) (*Lambert, error) {
	if err := checkOffset("false easting", falseEasting); err != nil {
		return nil, err
	}
	if err := checkOffset("false northing", falseNorthing); err != nil {
		return nil, err
	}
	o := *l
	o.falseEasting = falseEasting
	o.falseNorthing = falseNorthing
	return &o, nil
}

// WithSpheroid returns a copy on a different planet model, with all
// derived terms recomputed.
func (l *Lambert) WithSpheroid(s Spheroid) (*Lambert, error) {
	if err := s.valid(); err != nil {
		return nil, err
	}
	o := *l
	o.spheroid = s
	o.derive()
	return &o, nil
}

// Spheroid returns the planet model.
func (l *Lambert) Spheroid() Spheroid { return l.spheroid }

// FalseEasting returns the false easting in meters.
func (l *Lambert) FalseEasting() float64 { return l.falseEasting }

// FalseNorthing returns the false northing in meters.
func (l *Lambert) FalseNorthing() float64 { return l.falseNorthing }

// CentralLongitude returns the central meridian.
func (l *Lambert) CentralLongitude() s1.Angle { return s1.Angle(l.centralLongitude) }

// CentralLatitude returns the latitude of the projection origin.
func (l *Lambert) CentralLatitude() s1.Angle { return s1.Angle(l.centralLatitude) }

// LowerLatitude returns the lower standard parallel.
func (l *Lambert) LowerLatitude() s1.Angle { return s1.Angle(l.lowerLatitude) }

// UpperLatitude returns the upper standard parallel.
func (l *Lambert) UpperLatitude() s1.Angle { return s1.Angle(l.upperLatitude) }

// Equal reports whether the other projector is a Lambert with
// approximately equal parameters.
func (l *Lambert) Equal(p Projector) bool {
	o, ok := p.(*Lambert)
	if !ok {
		return false
	}
	return l.spheroid.equal(o.spheroid) &&
		aboutEqual(l.lowerLatitude, o.lowerLatitude) &&
		aboutEqual(l.upperLatitude, o.upperLatitude) &&
		aboutEqual(l.centralLongitude, o.centralLongitude) &&
		aboutEqual(l.centralLatitude, o.centralLatitude) &&
		aboutEqual(l.falseEasting, o.falseEasting) &&
		aboutEqual(l.falseNorthing, o.falseNorthing)
}

// Clone returns an independent copy.
func (l *Lambert) Clone() Projector {
	o := *l
	return &o
}

// Valid re-checks the cached derived terms.
func (l *Lambert) Valid() error {
	if err := l.spheroid.valid(); err != nil {
		return err
	}
	if math.IsNaN(l.n) || l.n == 0 || math.Abs(l.n) > 1 {
		return errors.New("lambert cone constant out of range")
	}
	if math.IsNaN(l.f) || l.f <= 0 {
		return errors.New("lambert scale constant out of range")
	}
	if math.IsNaN(l.rho0) {
		return errors.New("lambert central radius is NaN")
	}
	return nil
}

func init() {
	registerFamily(func(p Params) (Projector, error) {
		return NewLambert(p.Spheroid, p.LowerLatitude, p.UpperLatitude,
			p.CentralLongitude, p.CentralLatitude, p.FalseEasting, p.FalseNorthing)
	}, "lcc", "lambert", "lambert_conformal_conic")
}
