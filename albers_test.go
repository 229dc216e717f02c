package geoproj_test

import (
	"math"
	"testing"

	"github.com/golang/geo/s2"

	"github.com/tzneal/geoproj"
)

// newConusAlbers returns the Albers projector of the standard CONUS
// equal-area analysis domain.
func newConusAlbers(t *testing.T, s geoproj.Spheroid) *geoproj.Albers {
	t.Helper()
	a, err := geoproj.NewAlbers(s, 29.5, 45.5, -96, 23, 0, 0)
	if err != nil {
		t.Fatalf("error creating Albers projector: %s", err)
	}
	return a
}

func TestAlbersKnownPointEllipsoid(t *testing.T) {
	a := newConusAlbers(t, geoproj.WGS84)
	pt, err := a.Project(s2.LatLngFromDegrees(39.74, -104.98))
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}
	if math.Abs(pt.X()-(-761529.7158579291)) > 1e-4 {
		t.Errorf("got x %.4f, expected -761529.7159", pt.X())
	}
	if math.Abs(pt.Y()-1893850.2621294577) > 1e-4 {
		t.Errorf("got y %.4f, expected 1893850.2621", pt.Y())
	}
}

func TestAlbersRoundTrip(t *testing.T) {
	for _, s := range []geoproj.Spheroid{geoproj.AQMSphere, geoproj.WGS84} {
		roundTripSweep(t, newConusAlbers(t, s))
	}
}

func TestAlbersTangentSecantContinuity(t *testing.T) {
	tangent, err := geoproj.NewAlbers(geoproj.WGS84, 40, 40, -96, 23, 0, 0)
	if err != nil {
		t.Fatalf("error creating tangent Albers: %s", err)
	}
	ref, err := tangent.Project(s2.LatLngFromDegrees(39.74, -104.98))
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}
	prevErr := math.Inf(1)
	for _, gap := range []float64{1, 1e-2, 1e-4} {
		secant, err := geoproj.NewAlbers(geoproj.WGS84, 40, 40+gap, -96, 23, 0, 0)
		if err != nil {
			t.Fatalf("error creating secant Albers with gap %g: %s", gap, err)
		}
		pt, err := secant.Project(s2.LatLngFromDegrees(39.74, -104.98))
		if err != nil {
			t.Fatalf("expected no error, got %s", err)
		}
		d := math.Hypot(pt.X()-ref.X(), pt.Y()-ref.Y())
		if d >= prevErr {
			t.Errorf("gap %g: distance to tangent %.6f did not shrink (previous %.6f)", gap, d, prevErr)
		}
		prevErr = d
	}
	if prevErr > 1 {
		t.Errorf("secant projection %.6f m from tangent at gap 1e-4", prevErr)
	}
}

func TestAlbersEqualAreaProperty(t *testing.T) {
	// Quadrilaterals of equal spherical area must map to planar cells
	// of equal area. Compare two 1x1 degree cells at different
	// latitudes on the sphere, weighting by cos(latitude).
	a := newConusAlbers(t, geoproj.AQMSphere)
	cellArea := func(lng, lat float64) float64 {
		var pts [4]s2.LatLng
		pts[0] = s2.LatLngFromDegrees(lat, lng)
		pts[1] = s2.LatLngFromDegrees(lat, lng+1)
		pts[2] = s2.LatLngFromDegrees(lat+1, lng+1)
		pts[3] = s2.LatLngFromDegrees(lat+1, lng)
		var xs, ys [4]float64
		for i, ll := range pts {
			pt, err := a.Project(ll)
			if err != nil {
				t.Fatalf("expected no error, got %s", err)
			}
			xs[i], ys[i] = pt.X(), pt.Y()
		}
		area := 0.0
		for i := 0; i < 4; i++ {
			j := (i + 1) % 4
			area += xs[i]*ys[j] - xs[j]*ys[i]
		}
		return math.Abs(area / 2)
	}
	sphericalRatio := math.Abs(math.Sin(31*math.Pi/180)-math.Sin(30*math.Pi/180)) /
		math.Abs(math.Sin(46*math.Pi/180)-math.Sin(45*math.Pi/180))
	planarRatio := cellArea(-96, 30) / cellArea(-96, 45)
	if math.Abs(planarRatio/sphericalRatio-1) > 1e-3 {
		t.Errorf("area ratio %.6f, expected %.6f", planarRatio, sphericalRatio)
	}
}

func TestAlbersPoleUnproject(t *testing.T) {
	a := newConusAlbers(t, geoproj.WGS84)
	apex, err := a.Project(s2.LatLngFromDegrees(90, -96))
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}
	ll, err := a.Unproject(apex)
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}
	if math.Abs(ll.Lat.Degrees()-90) > 1e-5 {
		t.Errorf("got latitude %.8f, expected 90", ll.Lat.Degrees())
	}
}

func TestAlbersConstructionErrors(t *testing.T) {
	cases := []struct {
		name         string
		lower, upper float64
	}{
		{"parallels out of order", 45.5, 29.5},
		{"opposite hemispheres", -29.5, 45.5},
		{"parallel at equator", 0.2, 45.5},
		{"parallel past pole bound", 29.5, 89.7},
	}
	for _, tc := range cases {
		if _, err := geoproj.NewAlbers(geoproj.WGS84, tc.lower, tc.upper, -96, 23, 0, 0); err == nil {
			t.Errorf("%s: expected an error, got none", tc.name)
		}
	}
}
