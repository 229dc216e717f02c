package geoproj

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// ErrNoConvergence is returned by Unproject when an iterative inverse
// latitude solve fails to converge within maxInverseIterations. The
// accompanying coordinate is the legacy fallback (latitude 0,
// longitude 0), so callers that ignore the error keep the historical
// behavior but must treat (0, 0) as ambiguous.
var ErrNoConvergence = errors.New("inverse latitude iteration did not converge")

const (
	halfPi = math.Pi / 2
	twoPi  = 2 * math.Pi
	// spi is slightly greater than pi so longitudes that drift past
	// the 180th meridian by floating-point noise keep their sign when
	// normalized.
	spi = 3.14159265359

	// poleTolerance is the radian distance from a pole (or from the
	// 180th meridian) inside which forward inputs are nudged into the
	// open interval, so that round trips recover the input instead of
	// collapsing onto the central meridian.
	poleTolerance = 1e-10

	// inverseTolerance and maxInverseIterations bound the iterative
	// conformal and authalic inverse latitude solves.
	inverseTolerance     = 1e-9
	maxInverseIterations = 15

	// Eccentricities below this are treated as spherical by the
	// authalic series.
	sphericalEccentricity = 1e-7
)

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// adjustLongitude normalizes a longitude in radians into [-pi, pi] by
// repeated full-circle adjustment.
func adjustLongitude(lon float64) float64 {
	for math.Abs(lon) > spi {
		lon -= sign(lon) * twoPi
	}
	return lon
}

// asinClamped is asin with its argument clamped into [-1, 1], guarding
// the rounding overshoot of expressions like (c - rho*rho) / (2 * n).
func asinClamped(x float64) float64 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	return math.Asin(x)
}

// msfn computes the radius of the parallel of latitude phi divided by
// the major semi-axis: cos(phi)/sqrt(1 - e^2 sin^2(phi)).
func msfn(sinphi, cosphi, e float64) float64 {
	con := e * sinphi
	return cosphi / math.Sqrt(1-con*con)
}

// tsfn computes the conformal-latitude factor used by the Lambert,
// polar Stereographic, and Mercator ellipsoid formulas. It is strictly
// positive and finite for latitudes strictly between the poles.
func tsfn(phi, sinphi, e float64) float64 {
	con := e * sinphi
	return math.Tan(0.5*(halfPi-phi)) / math.Pow((1-con)/(1+con), 0.5*e)
}

// ssfn computes the factor used by the oblique and equatorial
// Stereographic ellipsoid formulas.
func ssfn(phi, sinphi, e float64) float64 {
	con := e * sinphi
	return math.Tan(0.5*(halfPi+phi)) * math.Pow((1-con)/(1+con), 0.5*e)
}

// qsfn computes the authalic-latitude factor used by the Albers
// equal-area formulas.
func qsfn(sinphi, e, oneMinusE2 float64) float64 {
	if e < sphericalEccentricity {
		return 2 * sinphi
	}
	con := e * sinphi
	return oneMinusE2 * (sinphi/(1-con*con) - (0.5/e)*math.Log((1-con)/(1+con)))
}

// phi2 solves tsfn for latitude by fixed-point iteration. On
// non-convergence it returns ErrNoConvergence and a zero latitude.
func phi2(ts, e float64) (float64, error) {
	halfE := 0.5 * e
	phi := halfPi - 2*math.Atan(ts)
	for i := 0; i < maxInverseIterations; i++ {
		con := e * math.Sin(phi)
		dphi := halfPi - 2*math.Atan(ts*math.Pow((1-con)/(1+con), halfE)) - phi
		phi += dphi
		if math.Abs(dphi) <= inverseTolerance {
			return phi, nil
		}
	}
	return 0, ErrNoConvergence
}

// authalicPhi1 solves qsfn for latitude by Newton iteration. On
// non-convergence it returns ErrNoConvergence and a zero latitude.
func authalicPhi1(qs, e, oneMinusE2 float64) (float64, error) {
	phi := asinClamped(0.5 * qs)
	if e < sphericalEccentricity {
		return phi, nil
	}
	for i := 0; i < maxInverseIterations; i++ {
		sinphi := math.Sin(phi)
		cosphi := math.Cos(phi)
		con := e * sinphi
		com := 1 - con*con
		dphi := 0.5 * com * com / cosphi *
			(qs/oneMinusE2 - sinphi/com + 0.5/e*math.Log((1-con)/(1+con)))
		phi += dphi
		if math.Abs(dphi) <= inverseTolerance {
			return phi, nil
		}
	}
	return 0, ErrNoConvergence
}

// clampLatitude nudges latitudes within poleTolerance of a pole just
// inside the open interval (-pi/2, pi/2).
func clampLatitude(phi float64) float64 {
	if halfPi-math.Abs(phi) < poleTolerance {
		return sign(phi) * (halfPi - poleTolerance)
	}
	return phi
}

// clampLongitude nudges longitudes within poleTolerance of the 180th
// meridian just inside the open interval (-pi, pi).
func clampLongitude(lam float64) float64 {
	if math.Pi-math.Abs(lam) < poleTolerance {
		return sign(lam) * (math.Pi - poleTolerance)
	}
	return lam
}

// aboutEqual is the parameter comparison used by every projector's
// Equal method.
func aboutEqual(a, b float64) bool {
	return scalar.EqualWithinAbsOrRel(a, b, 1e-9, 1e-9)
}
