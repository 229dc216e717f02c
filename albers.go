package geoproj

import (
	"errors"
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// Albers provides conversions between geodetic coordinates and Albers
// Equal-Area Conic projection coordinates. It shares the tangent/
// secant subtype split with Lambert but is built on the authalic
// factor instead of the conformal factor.
type Albers struct {
	spheroid Spheroid

	lowerLatitude    float64
	upperLatitude    float64
	centralLongitude float64
	centralLatitude  float64
	falseEasting     float64
	falseNorthing    float64

	isTangent bool
	n         float64 // cone constant
	c         float64 // scale constant
	rho0      float64 // radius of the central parallel
	qPole     float64 // authalic factor at the pole
}

// NewAlbers constructs an Albers Equal-Area Conic projector. The
// parameter domain matches NewLambert: standard parallels in the same
// hemisphere with magnitudes in [1, 89] degrees, degrees for angles,
// meters for offsets.
func NewAlbers(s Spheroid, lowerLatitude, upperLatitude, centralLongitude,
	centralLatitude, falseEasting, falseNorthing float64) (*Albers, error) {
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

	a := &Albers{
		spheroid:         s,
		lowerLatitude:    (s1.Angle(lowerLatitude) * s1.Degree).Radians(),
		upperLatitude:    (s1.Angle(upperLatitude) * s1.Degree).Radians(),
		centralLongitude: (s1.Angle(centralLongitude) * s1.Degree).Radians(),
		centralLatitude:  (s1.Angle(centralLatitude) * s1.Degree).Radians(),
		falseEasting:     falseEasting,
		falseNorthing:    falseNorthing,
	}
	a.derive()
	return a, nil
}

func (a *Albers) derive() {
	e := a.spheroid.e
	oneMinusE2 := a.spheroid.oneMinusE2

	sin1 := math.Sin(a.lowerLatitude)
	cos1 := math.Cos(a.lowerLatitude)
	ms1 := msfn(sin1, cos1, e)
	qs1 := qsfn(sin1, e, oneMinusE2)

	sin2 := math.Sin(a.upperLatitude)
	cos2 := math.Cos(a.upperLatitude)
	ms2 := msfn(sin2, cos2, e)
	qs2 := qsfn(sin2, e, oneMinusE2)

	qs0 := qsfn(math.Sin(a.centralLatitude), e, oneMinusE2)

	a.isTangent = a.upperLatitude-a.lowerLatitude < poleTolerance
	if a.isTangent {
		a.n = sin1
	} else {
		a.n = (ms1*ms1 - ms2*ms2) / (qs2 - qs1)
	}
	a.c = ms1*ms1 + a.n*qs1
	a.rho0 = a.spheroid.majorSemiaxis * math.Sqrt(a.c-a.n*qs0) / a.n
	a.qPole = qsfn(1, e, oneMinusE2)
}

// Project converts a geodetic coordinate to Albers (x, y) meters.
func (a *Albers) Project(ll s2.LatLng) (orb.Point, error) {
	if err := checkGeodetic(ll); err != nil {
		return orb.Point{}, err
	}
	phi := clampLatitude(ll.Lat.Radians())
	lam := clampLongitude(ll.Lng.Radians())

	qs := qsfn(math.Sin(phi), a.spheroid.e, a.spheroid.oneMinusE2)
	arg := a.c - a.n*qs
	if arg < 0 {
		// Rounding can push the radicand fractionally below zero at
		// the pole opposite the cone apex.
		arg = 0
	}
	rho := a.spheroid.majorSemiaxis * math.Sqrt(arg) / a.n
	theta := a.n * adjustLongitude(lam-a.centralLongitude)

	x := rho*math.Sin(theta) + a.falseEasting
	y := a.rho0 - rho*math.Cos(theta) + a.falseNorthing
	return orb.Point{x, y}, nil
}

// Unproject converts Albers (x, y) meters back to a geodetic
// coordinate.
func (a *Albers) Unproject(pt orb.Point) (s2.LatLng, error) {
	x := pt.X() - a.falseEasting
	y := a.rho0 - (pt.Y() - a.falseNorthing)

	rho := math.Hypot(x, y)
	con := 1.0
	if a.n < 0 {
		rho = -rho
		con = -1
	}
	var theta float64
	if rho != 0 {
		theta = math.Atan2(con*x, con*y)
	}

	rn := rho * a.n / a.spheroid.majorSemiaxis
	var phi float64
	if a.spheroid.IsSphere() {
		phi = asinClamped((a.c - rn*rn) / (2 * a.n))
	} else {
		qs := (a.c - rn*rn) / a.n
		if math.Abs(a.qPole)-math.Abs(qs) < poleTolerance {
			// At or just past the pole the authalic series is
			// degenerate; the latitude is the pole itself.
			phi = sign(qs) * halfPi
		} else {
			var err error
			phi, err = authalicPhi1(qs, a.spheroid.e, a.spheroid.oneMinusE2)
			if err != nil {
				return s2.LatLng{}, err
			}
		}
	}
	lam := adjustLongitude(theta/a.n + a.centralLongitude)
	return s2.LatLng{Lat: s1.Angle(phi), Lng: s1.Angle(lam)}, nil
}

// WithFalseOrigin returns a copy with different false easting and
// northing.
func (a *Albers) WithFalseOrigin(falseEasting, falseNorthing float64) (*Albers, error) {
	if err := checkOffset("false easting", falseEasting); err != nil {
		return nil, err
	}
	if err := checkOffset("false northing", falseNorthing); err != nil {
		return nil, err
	}
	o := *a
	o.falseEasting = falseEasting
	o.falseNorthing = falseNorthing
	return &o, nil
}

// WithSpheroid returns a copy on a different planet model, with all
// derived terms recomputed.
func (a *Albers) WithSpheroid(s Spheroid) (*Albers, error) {
	if err := s.valid(); err != nil {
		return nil, err
	}
	o := *a
	o.spheroid = s
	o.derive()
	return &o, nil
}

// Spheroid returns the planet model.
func (a *Albers) Spheroid() Spheroid { return a.spheroid }

// FalseEasting returns the false easting in meters.
func (a *Albers) FalseEasting() float64 { return a.falseEasting }

// FalseNorthing returns the false northing in meters.
func (a *Albers) FalseNorthing() float64 { return a.falseNorthing }

// CentralLongitude returns the central meridian.
func (a *Albers) CentralLongitude() s1.Angle { return s1.Angle(a.centralLongitude) }

// CentralLatitude returns the latitude of the projection origin.
func (a *Albers) CentralLatitude() s1.Angle { return s1.Angle(a.centralLatitude) }

// LowerLatitude returns the lower standard parallel.
func (a *Albers) LowerLatitude() s1.Angle { return s1.Angle(a.lowerLatitude) }

// UpperLatitude returns the upper standard parallel.
func (a *Albers) UpperLatitude() s1.Angle { return s1.Angle(a.upperLatitude) }

// Equal reports whether the other projector is an Albers with
// approximately equal parameters.
func (a *Albers) Equal(p Projector) bool {
	o, ok := p.(*Albers)
	if !ok {
		return false
	}
	return a.spheroid.equal(o.spheroid) &&
		aboutEqual(a.lowerLatitude, o.lowerLatitude) &&
		aboutEqual(a.upperLatitude, o.upperLatitude) &&
		aboutEqual(a.centralLongitude, o.centralLongitude) &&
		aboutEqual(a.centralLatitude, o.centralLatitude) &&
		aboutEqual(a.falseEasting, o.falseEasting) &&
		aboutEqual(a.falseNorthing, o.falseNorthing)
}

// Clone returns an independent copy.
func (a *Albers) Clone() Projector {
	o := *a
	return &o
}

// Valid re-checks the cached derived terms.
func (a *Albers) Valid() error {
	if err := a.spheroid.valid(); err != nil {
		return err
	}
	if math.IsNaN(a.n) || a.n == 0 || math.Abs(a.n) > 1 {
		return errors.New("albers cone constant out of range")
	}
	if math.IsNaN(a.c) || a.c <= 0 {
		return errors.New("albers scale constant out of range")
	}
	if math.IsNaN(a.rho0) {
		return errors.New("albers central radius is NaN")
	}
	return nil
}

func init() {
	registerFamily(func(p Params) (Projector, error) {
		return NewAlbers(p.Spheroid, p.LowerLatitude, p.UpperLatitude,
			p.CentralLongitude, p.CentralLatitude, p.FalseEasting, p.FalseNorthing)
	}, "aea", "albers", "albers_conic_equal_area")
}
