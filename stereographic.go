package geoproj

import (
	"errors"
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// stereoMode selects among the four Stereographic aspects. It is fixed
// once, at construction, from the sign and magnitude of the central
// latitude.
type stereoMode int

const (
	stereoNorthPole stereoMode = iota
	stereoSouthPole
	stereoEquatorial
	stereoOblique
)

func (m stereoMode) String() string {
	switch m {
	case stereoNorthPole:
		return "north-polar"
	case stereoSouthPole:
		return "south-polar"
	case stereoEquatorial:
		return "equatorial"
	}
	return "oblique"
}

// Stereographic provides conversions between geodetic coordinates and
// Stereographic projection coordinates. The polar, equatorial, and
// oblique aspects each have independent forward and inverse formulas.
// The secant latitude (latitude of true scale) applies to the polar
// aspects; when it sits on the pole itself the scale constant switches
// to the closed-form expression that avoids the division by zero.
type Stereographic struct {
	spheroid Spheroid

	centralLongitude float64
	centralLatitude  float64
	secantLatitude   float64
	falseEasting     float64
	falseNorthing    float64

	// Derived terms.
	mode           stereoMode
	akm1           float64
	sinX1, cosX1   float64 // conformal latitude of the center (ellipsoid, non-polar)
	sinPh0, cosPh0 float64 // center latitude (sphere, oblique)

	// The center, projected once at construction and removed from
	// every forward result so round trips are centered on the origin.
	projectedCenterX float64
	projectedCenterY float64
}

// NewStereographic constructs a Stereographic projector. Longitudes
// and latitudes are in degrees, offsets in meters.
func NewStereographic(s Spheroid, centralLongitude, centralLatitude,
	secantLatitude, falseEasting, falseNorthing float64) (*Stereographic, error) {
	if err := s.valid(); err != nil {
		return nil, err
	}
	if err := checkLongitudeDegrees(centralLongitude); err != nil {
		return nil, err
	}
	if err := checkLatitudeDegrees(centralLatitude); err != nil {
		return nil, err
	}
	if err := checkLatitudeDegrees(secantLatitude); err != nil {
		return nil, err
	}
	if err := checkOffset("false easting", falseEasting); err != nil {
		return nil, err
	}
	if err := checkOffset("false northing", falseNorthing); err != nil {
		return nil, err
	}

	st := &Stereographic{
		spheroid:         s,
		centralLongitude: (s1.Angle(centralLongitude) * s1.Degree).Radians(),
		centralLatitude:  (s1.Angle(centralLatitude) * s1.Degree).Radians(),
		secantLatitude:   (s1.Angle(secantLatitude) * s1.Degree).Radians(),
		falseEasting:     falseEasting,
		falseNorthing:    falseNorthing,
	}
	st.derive()
	return st, nil
}

func (st *Stereographic) derive() {
	phi0 := st.centralLatitude
	e := st.spheroid.e

	switch {
	case halfPi-math.Abs(phi0) < poleTolerance:
		if phi0 < 0 {
			st.mode = stereoSouthPole
		} else {
			st.mode = stereoNorthPole
		}
	case math.Abs(phi0) < poleTolerance:
		st.mode = stereoEquatorial
	default:
		st.mode = stereoOblique
	}

	phits := math.Abs(st.secantLatitude)
	if st.spheroid.IsSphere() {
		switch st.mode {
		case stereoNorthPole, stereoSouthPole:
			if halfPi-phits < poleTolerance {
				st.akm1 = 2
			} else {
				st.akm1 = math.Cos(phits) / math.Tan(math.Pi/4-0.5*phits)
			}
		default:
			st.akm1 = 2
			st.sinPh0 = math.Sin(phi0)
			st.cosPh0 = math.Cos(phi0)
		}
	} else {
		switch st.mode {
		case stereoNorthPole, stereoSouthPole:
			if halfPi-phits < poleTolerance {
				// Secant latitude on the pole itself: tsfn is zero
				// there, so use the closed form instead of the ratio.
				st.akm1 = 2 / math.Sqrt(math.Pow(1+e, 1+e)*math.Pow(1-e, 1-e))
			} else {
				t := math.Sin(phits)
				st.akm1 = math.Cos(phits) / tsfn(phits, t, e)
				t *= e
				st.akm1 /= math.Sqrt(1 - t*t)
			}
		default:
			t := math.Sin(phi0)
			x := 2*math.Atan(ssfn(phi0, t, e)) - halfPi
			t *= e
			st.akm1 = 2 * math.Cos(phi0) / math.Sqrt(1-t*t)
			st.sinX1 = math.Sin(x)
			st.cosX1 = math.Cos(x)
		}
	}

	st.projectedCenterX, st.projectedCenterY = st.raw(clampLatitude(phi0), 0)
}

// raw projects an already-clamped latitude and a central-meridian-
// relative longitude, scaled to meters but before the projected-center
// and false-origin offsets.
func (st *Stereographic) raw(phi, dlam float64) (x, y float64) {
	a := st.spheroid.majorSemiaxis
	sinlam := math.Sin(dlam)
	coslam := math.Cos(dlam)

	if st.spheroid.IsSphere() {
		sinphi := math.Sin(phi)
		cosphi := math.Cos(phi)
		switch st.mode {
		case stereoEquatorial:
			A := st.akm1 / (1 + cosphi*coslam)
			x = A * cosphi * sinlam
			y = A * sinphi
		case stereoOblique:
			A := st.akm1 / (1 + st.sinPh0*sinphi + st.cosPh0*cosphi*coslam)
			x = A * cosphi * sinlam
			y = A * (st.cosPh0*sinphi - st.sinPh0*cosphi*coslam)
		case stereoNorthPole:
			rho := st.akm1 * math.Tan(math.Pi/4-0.5*phi)
			x = rho * sinlam
			y = -rho * coslam
		case stereoSouthPole:
			rho := st.akm1 * math.Tan(math.Pi/4+0.5*phi)
			x = rho * sinlam
			y = rho * coslam
		}
		return a * x, a * y
	}

	e := st.spheroid.e
	sinphi := math.Sin(phi)
	switch st.mode {
	case stereoEquatorial, stereoOblique:
		cX := 2*math.Atan(ssfn(phi, sinphi, e)) - halfPi
		sinX := math.Sin(cX)
		cosX := math.Cos(cX)
		var A float64
		if st.mode == stereoOblique {
			A = st.akm1 / (st.cosX1 * (1 + st.sinX1*sinX + st.cosX1*cosX*coslam))
			y = A * (st.cosX1*sinX - st.sinX1*cosX*coslam)
		} else {
			A = st.akm1 / (1 + cosX*coslam)
			y = A * sinX
		}
		x = A * cosX * sinlam
	case stereoNorthPole:
		rho := st.akm1 * tsfn(phi, sinphi, e)
		x = rho * sinlam
		y = -rho * coslam
	case stereoSouthPole:
		rho := st.akm1 * tsfn(-phi, -sinphi, e)
		x = rho * sinlam
		y = rho * coslam
	}
	return a * x, a * y
}

// Project converts a geodetic coordinate to Stereographic (x, y)
// meters.
func (st *Stereographic) Project(ll s2.LatLng) (orb.Point, error) {
	if err := checkGeodetic(ll); err != nil {
		return orb.Point{}, err
	}
	phi := clampLatitude(ll.Lat.Radians())
	lam := clampLongitude(ll.Lng.Radians())
	dlam := adjustLongitude(lam - st.centralLongitude)

	x, y := st.raw(phi, dlam)
	return orb.Point{
		x - st.projectedCenterX + st.falseEasting,
		y - st.projectedCenterY + st.falseNorthing,
	}, nil
}

// Unproject converts Stereographic (x, y) meters back to a geodetic
// coordinate.
func (st *Stereographic) Unproject(pt orb.Point) (s2.LatLng, error) {
	a := st.spheroid.majorSemiaxis
	x := (pt.X() - st.falseEasting + st.projectedCenterX) / a
	y := (pt.Y() - st.falseNorthing + st.projectedCenterY) / a

	var phi, dlam float64
	var err error
	if st.spheroid.IsSphere() {
		phi, dlam = st.sphereInverse(x, y)
	} else {
		phi, dlam, err = st.ellipsoidInverse(x, y)
		if err != nil {
			return s2.LatLng{}, err
		}
	}
	lam := adjustLongitude(dlam + st.centralLongitude)
	return s2.LatLng{Lat: s1.Angle(phi), Lng: s1.Angle(lam)}, nil
}

func (st *Stereographic) sphereInverse(x, y float64) (phi, dlam float64) {
	rh := math.Hypot(x, y)
	c := 2 * math.Atan(rh/st.akm1)
	sinc := math.Sin(c)
	cosc := math.Cos(c)

	switch st.mode {
	case stereoEquatorial:
		if rh > poleTolerance {
			phi = asinClamped(y * sinc / rh)
		}
		if cosc != 0 || x != 0 {
			dlam = math.Atan2(x*sinc, cosc*rh)
		}
	case stereoOblique:
		if rh <= poleTolerance {
			phi = st.centralLatitude
		} else {
			phi = asinClamped(cosc*st.sinPh0 + y*sinc*st.cosPh0/rh)
		}
		if den := cosc - st.sinPh0*math.Sin(phi); den != 0 || x != 0 {
			dlam = math.Atan2(x*sinc*st.cosPh0, den*rh)
		}
	case stereoNorthPole:
		y = -y
		fallthrough
	case stereoSouthPole:
		if rh <= poleTolerance {
			phi = st.centralLatitude
		} else if st.mode == stereoSouthPole {
			phi = asinClamped(-cosc)
		} else {
			phi = asinClamped(cosc)
		}
		if x != 0 || y != 0 {
			dlam = math.Atan2(x, y)
		}
	}
	return phi, dlam
}

func (st *Stereographic) ellipsoidInverse(x, y float64) (phi, dlam float64, err error) {
	e := st.spheroid.e
	rho := math.Hypot(x, y)

	var tp, phiL, halfpi, halfe float64
	switch st.mode {
	case stereoEquatorial, stereoOblique:
		tp = 2 * math.Atan2(rho*st.cosX1, st.akm1)
		cosphi := math.Cos(tp)
		sinphi := math.Sin(tp)
		if rho == 0 {
			phiL = asinClamped(cosphi * st.sinX1)
		} else {
			phiL = asinClamped(cosphi*st.sinX1 + y*sinphi*st.cosX1/rho)
		}
		tp = math.Tan(0.5 * (halfPi + phiL))
		x *= sinphi
		y = rho*st.cosX1*cosphi - y*st.sinX1*sinphi
		halfpi = halfPi
		halfe = 0.5 * e
	case stereoNorthPole:
		y = -y
		fallthrough
	case stereoSouthPole:
		tp = -rho / st.akm1
		phiL = halfPi - 2*math.Atan(tp)
		halfpi = -halfPi
		halfe = -0.5 * e
	}

	for i := 0; i < maxInverseIterations; i++ {
		sinphi := e * math.Sin(phiL)
		phi = 2*math.Atan(tp*math.Pow((1+sinphi)/(1-sinphi), halfe)) - halfpi
		if math.Abs(phiL-phi) < inverseTolerance {
			if st.mode == stereoSouthPole {
				phi = -phi
			}
			if x != 0 || y != 0 {
				dlam = math.Atan2(x, y)
			}
			return phi, dlam, nil
		}
		phiL = phi
	}
	return 0, 0, ErrNoConvergence
}

// WithFalseOrigin returns a copy with different false easting and
// northing.
func (st *Stereographic) WithFalseOrigin(falseEasting, falseNorthing float64) (*Stereographic, error) {
	if err := checkOffset("false easting", falseEasting); err != nil {
		return nil, err
	}
	if err := checkOffset("false northing", falseNorthing); err != nil {
		return nil, err
	}
	o := *st
	o.falseEasting = falseEasting
	o.falseNorthing = falseNorthing
	return &o, nil
}

// WithSpheroid returns a copy on a different planet model, with all
// derived terms recomputed.
func (st *Stereographic) WithSpheroid(s Spheroid) (*Stereographic, error) {
	if err := s.valid(); err != nil {
		return nil, err
	}
	o := *st
	o.spheroid = s
	o.derive()
	return &o, nil
}

// Spheroid returns the planet model.
func (st *Stereographic) Spheroid() Spheroid { return st.spheroid }

// FalseEasting returns the false easting in meters.
func (st *Stereographic) FalseEasting() float64 { return st.falseEasting }

// FalseNorthing returns the false northing in meters.
func (st *Stereographic) FalseNorthing() float64 { return st.falseNorthing }

// CentralLongitude returns the central meridian.
func (st *Stereographic) CentralLongitude() s1.Angle { return s1.Angle(st.centralLongitude) }

// CentralLatitude returns the latitude of the projection center.
func (st *Stereographic) CentralLatitude() s1.Angle { return s1.Angle(st.centralLatitude) }

// SecantLatitude returns the latitude of true scale.
func (st *Stereographic) SecantLatitude() s1.Angle { return s1.Angle(st.secantLatitude) }

// Equal reports whether the other projector is a Stereographic with
// approximately equal parameters.
func (st *Stereographic) Equal(p Projector) bool {
	o, ok := p.(*Stereographic)
	if !ok {
		return false
	}
	return st.spheroid.equal(o.spheroid) &&
		aboutEqual(st.centralLongitude, o.centralLongitude) &&
		aboutEqual(st.centralLatitude, o.centralLatitude) &&
		aboutEqual(st.secantLatitude, o.secantLatitude) &&
		aboutEqual(st.falseEasting, o.falseEasting) &&
		aboutEqual(st.falseNorthing, o.falseNorthing)
}

// Clone returns an independent copy.
func (st *Stereographic) Clone() Projector {
	o := *st
	return &o
}

// Valid re-checks the cached derived terms.
func (st *Stereographic) Valid() error {
	if err := st.spheroid.valid(); err != nil {
		return err
	}
	if math.IsNaN(st.akm1) || st.akm1 <= 0 {
		return errors.New("stereographic scale constant out of range")
	}
	if math.IsNaN(st.projectedCenterX) || math.IsNaN(st.projectedCenterY) {
		return errors.New("stereographic projected center is NaN")
	}
	return nil
}

func init() {
	registerFamily(func(p Params) (Projector, error) {
		return NewStereographic(p.Spheroid, p.CentralLongitude, p.CentralLatitude,
			p.SecantLatitude, p.FalseEasting, p.FalseNorthing)
	}, "stere", "stereographic")
}
