package geoproj_test

import (
	"math"
	"testing"

	"github.com/tzneal/geoproj"
)

func TestSpheroidAccessors(t *testing.T) {
	s, err := geoproj.NewSpheroid(6378137.0, 6356752.3142451793)
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}
	if s.MajorSemiaxis() != 6378137.0 {
		t.Errorf("got major semi-axis %g", s.MajorSemiaxis())
	}
	if s.MinorSemiaxis() != 6356752.3142451793 {
		t.Errorf("got minor semi-axis %g", s.MinorSemiaxis())
	}
	// First eccentricity of the WGS84 ellipsoid.
	if math.Abs(s.Eccentricity()-0.0818191908426215) > 1e-12 {
		t.Errorf("got eccentricity %.16f", s.Eccentricity())
	}
	if s.IsSphere() {
		t.Error("an ellipsoid reported itself as a sphere")
	}
}

func TestSpheroidSphere(t *testing.T) {
	s, err := geoproj.NewSpheroid(6370000, 6370000)
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}
	if !s.IsSphere() {
		t.Error("equal semi-axes did not produce a sphere")
	}
	if s.Eccentricity() != 0 {
		t.Errorf("got eccentricity %g for a sphere, expected 0", s.Eccentricity())
	}
}

func TestSpheroidValidation(t *testing.T) {
	cases := []struct {
		name         string
		major, minor float64
	}{
		{"zero axes", 0, 0},
		{"negative major", -6378137, 6356752},
		{"minor above major", 6356752, 6378137},
		{"NaN major", math.NaN(), 6356752},
		{"infinite minor", 6378137, math.Inf(1)},
	}
	for _, tc := range cases {
		if _, err := geoproj.NewSpheroid(tc.major, tc.minor); err == nil {
			t.Errorf("%s: expected an error, got none", tc.name)
		}
	}
}

func TestBuiltinSpheroids(t *testing.T) {
	if geoproj.WGS84.MajorSemiaxis() != 6378137.0 {
		t.Errorf("WGS84 major semi-axis %g", geoproj.WGS84.MajorSemiaxis())
	}
	if geoproj.GRS80.MajorSemiaxis() != 6378137.0 {
		t.Errorf("GRS80 major semi-axis %g", geoproj.GRS80.MajorSemiaxis())
	}
	// GRS80 and WGS84 differ only in the last decimals of the minor
	// semi-axis.
	if geoproj.GRS80.MinorSemiaxis() == geoproj.WGS84.MinorSemiaxis() {
		t.Error("GRS80 and WGS84 minor semi-axes should differ")
	}
	if !geoproj.AQMSphere.IsSphere() || geoproj.AQMSphere.MajorSemiaxis() != 6370000 {
		t.Errorf("unexpected analysis sphere: %v", geoproj.AQMSphere)
	}
}
