package geoproj

import (
	"errors"
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// Mercator provides conversions between geodetic coordinates and
// Mercator projection coordinates. The projection is cylindrical and
// parameterized by the central meridian only; it is singular at the
// poles, which the forward direction avoids by clamping and the
// inverse reports as exactly +-90 degrees.
type Mercator struct {
	spheroid Spheroid

	centralLongitude float64
	falseEasting     float64
	falseNorthing    float64
}

// NewMercator constructs a Mercator projector. The central longitude
// is in degrees, offsets in meters.
func NewMercator(s Spheroid, centralLongitude, falseEasting, falseNorthing float64) (*Mercator, error) {
	if err := s.valid(); err != nil {
		return nil, err
	}
	if err := checkLongitudeDegrees(centralLongitude); err != nil {
		return nil, err
	}
	if err := checkOffset("false easting", falseEasting); err != nil {
		return nil, err
	}
	if err := checkOffset("false northing", falseNorthing); err != nil {
		return nil, err
	}
	return &Mercator{
		spheroid:         s,
		centralLongitude: (s1.Angle(centralLongitude) * s1.Degree).Radians(),
		falseEasting:     falseEasting,
		falseNorthing:    falseNorthing,
	}, nil
}

// Project converts a geodetic coordinate to Mercator (x, y) meters.
func (m *Mercator) Project(ll s2.LatLng) (orb.Point, error) {
	if err := checkGeodetic(ll); err != nil {
		return orb.Point{}, err
	}
	phi := clampLatitude(ll.Lat.Radians())
	lam := clampLongitude(ll.Lng.Radians())
	a := m.spheroid.majorSemiaxis

	x := a*adjustLongitude(lam-m.centralLongitude) + m.falseEasting
	var y float64
	if m.spheroid.IsSphere() {
		y = a*math.Log(math.Tan(math.Pi/4+0.5*phi)) + m.falseNorthing
	} else {
		y = -a*math.Log(tsfn(phi, math.Sin(phi), m.spheroid.e)) + m.falseNorthing
	}
	return orb.Point{x, y}, nil
}

// Unproject converts Mercator (x, y) meters back to a geodetic
// coordinate. Ordinates past the clamped pole image decay to exactly
// +-90 degrees latitude without dividing by zero.
func (m *Mercator) Unproject(pt orb.Point) (s2.LatLng, error) {
	a := m.spheroid.majorSemiaxis
	x := pt.X() - m.falseEasting
	y := pt.Y() - m.falseNorthing

	var phi float64
	if m.spheroid.IsSphere() {
		phi = halfPi - 2*math.Atan(math.Exp(-y/a))
	} else {
		ts := math.Exp(-y / a)
		var err error
		phi, err = phi2(ts, m.spheroid.e)
		if err != nil {
			return s2.LatLng{}, err
		}
	}
	lam := adjustLongitude(m.centralLongitude + x/a)
	return s2.LatLng{Lat: s1.Angle(phi), Lng: s1.Angle(lam)}, nil
}

// WithFalseOrigin returns a copy with different false easting and
// northing.
func (m *Mercator) WithFalseOrigin(falseEasting, falseNorthing float64) (*Mercator, error) {
	if err := checkOffset("false easting", falseEasting); err != nil {
		return nil, err
	}
	if err := checkOffset("false northing", falseNorthing); err != nil {
		return nil, err
	}
	o := *m
	o.falseEasting = falseEasting
	o.falseNorthing = falseNorthing
	return &o, nil
}

// WithSpheroid returns a copy on a different planet model.
func (m *Mercator) WithSpheroid(s Spheroid) (*Mercator, error) {
	if err := s.valid(); err != nil {
		return nil, err
	}
	o := *m
	o.spheroid = s
	return &o, nil
}

// Spheroid returns the planet model.
func (m *Mercator) Spheroid() Spheroid { return m.spheroid }

// FalseEasting returns the false easting in meters.
func (m *Mercator) FalseEasting() float64 { return m.falseEasting }

// FalseNorthing returns the false northing in meters.
func (m *Mercator) FalseNorthing() float64 { return m.falseNorthing }

// CentralLongitude returns the central meridian.
func (m *Mercator) CentralLongitude() s1.Angle { return s1.Angle(m.centralLongitude) }

// CentralLatitude returns the latitude of the projection origin,
// always the equator for Mercator.
func (m *Mercator) CentralLatitude() s1.Angle { return 0 }

// Equal reports whether the other projector is a Mercator with
// approximately equal parameters.
func (m *Mercator) Equal(p Projector) bool {
	o, ok := p.(*Mercator)
	if !ok {
		return false
	}
	return m.spheroid.equal(o.spheroid) &&
		aboutEqual(m.centralLongitude, o.centralLongitude) &&
		aboutEqual(m.falseEasting, o.falseEasting) &&
		aboutEqual(m.falseNorthing, o.falseNorthing)
}

// Clone returns an independent copy.
func (m *Mercator) Clone() Projector {
	o := *m
	return &o
}

// Valid re-checks the construction parameters.
func (m *Mercator) Valid() error {
	if err := m.spheroid.valid(); err != nil {
		return err
	}
	if math.IsNaN(m.centralLongitude) || math.Abs(m.centralLongitude) > math.Pi {
		return errors.New("mercator central longitude out of range")
	}
	return nil
}

func init() {
	registerFamily(func(p Params) (Projector, error) {
		return NewMercator(p.Spheroid, p.CentralLongitude, p.FalseEasting, p.FalseNorthing)
	}, "merc", "mercator")
}
