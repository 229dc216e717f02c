package geoproj_test

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"

	"github.com/tzneal/geoproj"
)

func TestMercatorRoundTrip(t *testing.T) {
	for _, s := range []geoproj.Spheroid{geoproj.AQMSphere, geoproj.WGS84} {
		m, err := geoproj.NewMercator(s, -100, 0, 0)
		if err != nil {
			t.Fatalf("error creating Mercator projector: %s", err)
		}
		roundTripSweep(t, m)
	}
}

func TestMercatorKnownPointEllipsoid(t *testing.T) {
	m, err := geoproj.NewMercator(geoproj.WGS84, 0, 0, 0)
	if err != nil {
		t.Fatalf("error creating Mercator projector: %s", err)
	}
	pt, err := m.Project(s2.LatLngFromDegrees(51.5, -0.1))
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}
	if math.Abs(pt.X()-(-11131.949079327358)) > 1e-4 {
		t.Errorf("got x %.4f, expected -11131.9491", pt.X())
	}
	if math.Abs(pt.Y()-6676757.7540833065) > 1e-4 {
		t.Errorf("got y %.4f, expected 6676757.7541", pt.Y())
	}
}

func TestMercatorSphereMatchesReference(t *testing.T) {
	const r = 6370000.0
	m, err := geoproj.NewMercator(geoproj.AQMSphere, 0, 0, 0)
	if err != nil {
		t.Fatalf("error creating Mercator projector: %s", err)
	}
	for lat := -85.0; lat < 86; lat += 5.5 {
		for lng := -175.0; lng < 180; lng += 11.5 {
			pt, err := m.Project(s2.LatLngFromDegrees(lat, lng))
			if err != nil {
				t.Fatalf("expected no error at (%g, %g), got %s", lng, lat, err)
			}
			wantX := r * lng * math.Pi / 180
			wantY := r * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))
			if math.Abs(pt.X()-wantX) > 1e-6 || math.Abs(pt.Y()-wantY) > 1e-6 {
				t.Fatalf("(%g, %g): got (%.6f, %.6f), reference (%.6f, %.6f)",
					lng, lat, pt.X(), pt.Y(), wantX, wantY)
			}
		}
	}
}

func TestMercatorPoles(t *testing.T) {
	m, err := geoproj.NewMercator(geoproj.WGS84, 0, 0, 0)
	if err != nil {
		t.Fatalf("error creating Mercator projector: %s", err)
	}
	// The forward direction clamps poleward input to a finite ordinate.
	for _, lat := range []float64{90, -90} {
		pt, err := m.Project(s2.LatLngFromDegrees(lat, 10))
		if err != nil {
			t.Fatalf("expected no error at latitude %g, got %s", lat, err)
		}
		if math.IsNaN(pt.Y()) || math.IsInf(pt.Y(), 0) {
			t.Errorf("latitude %g projected to non-finite ordinate %g", lat, pt.Y())
		}
	}
	// Ordinates far past the pole image invert to the pole latitude
	// without dividing by zero.
	ll, err := m.Unproject(orb.Point{0, 1e9})
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}
	if math.Abs(ll.Lat.Degrees()-90) > 1e-6 {
		t.Errorf("got latitude %.8f, expected 90", ll.Lat.Degrees())
	}
	ll, err = m.Unproject(orb.Point{0, -1e9})
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}
	if math.Abs(ll.Lat.Degrees()-(-90)) > 1e-6 {
		t.Errorf("got latitude %.8f, expected -90", ll.Lat.Degrees())
	}
}

func TestMercatorCentralMeridianShift(t *testing.T) {
	m, err := geoproj.NewMercator(geoproj.AQMSphere, -100, 0, 0)
	if err != nil {
		t.Fatalf("error creating Mercator projector: %s", err)
	}
	pt, err := m.Project(s2.LatLngFromDegrees(0, -100))
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}
	if math.Abs(pt.X()) > 1e-9 || math.Abs(pt.Y()) > 1e-9 {
		t.Errorf("central meridian equator crossing projected to (%g, %g), expected origin", pt.X(), pt.Y())
	}
	// Longitudes on the far side of the antimeridian wrap toward the
	// nearer edge of the map.
	east, err := m.Project(s2.LatLngFromDegrees(0, 170))
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}
	if east.X() > 0 {
		t.Errorf("longitude 170 east of central meridian -100 should map west of center, got x=%g", east.X())
	}
}

func TestMercatorUnprojectNoConvergence(t *testing.T) {
	// A valid but near-degenerate spheroid drives the inverse latitude
	// iteration past its cap. The result is the documented fallback,
	// latitude 0 / longitude 0, alongside the sentinel error, so legacy
	// callers that ignore the error see the historical (0, 0) and
	// checking callers can tell it apart from a real equator crossing.
	needle, err := geoproj.NewSpheroid(6378137, 1000)
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}
	m, err := geoproj.NewMercator(needle, -100, 0, 0)
	if err != nil {
		t.Fatalf("error creating Mercator projector: %s", err)
	}
	ll, err := m.Unproject(orb.Point{0, 1e6})
	if !errors.Is(err, geoproj.ErrNoConvergence) {
		t.Fatalf("expected ErrNoConvergence, got %v", err)
	}
	if ll.Lat != 0 || ll.Lng != 0 {
		t.Errorf("got fallback coordinate %v, expected (0, 0)", ll)
	}
}

func TestMercatorConstructionErrors(t *testing.T) {
	if _, err := geoproj.NewMercator(geoproj.WGS84, 181, 0, 0); err == nil {
		t.Error("expected an error for central longitude 181, got none")
	}
	if _, err := geoproj.NewMercator(geoproj.WGS84, 0, math.Inf(-1), 0); err == nil {
		t.Error("expected an error for infinite false easting, got none")
	}
	if _, err := geoproj.NewSpheroid(-1, -1); err == nil {
		t.Error("expected an error for negative semi-axes, got none")
	}
}
