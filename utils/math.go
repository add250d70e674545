// Package utils contains small math helpers shared across armkit.
package utils

import "math"

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// DefaultSnapEpsilon is the magnitude below which SnapZero treats a value as
// floating-point noise.
const DefaultSnapEpsilon = 1e-9

// SnapZero maps values within eps of zero to exactly +0. Trig terms that
// should be exactly zero often come out as ±1e-16 noise, and feeding those to
// atan2 or asin flips signs near singular orientations.
func SnapZero(v, eps float64) float64 {
	if math.Abs(v) < eps {
		return 0
	}
	return v
}

// AngleDiff returns the absolute difference between two angles in radians,
// accounting for wraparound.
func AngleDiff(a1, a2 float64) float64 {
	return math.Pi - math.Abs(math.Abs(a1-a2)-math.Pi)
}

// Float64AlmostEqual returns true if two floats are within tol of each other.
func Float64AlmostEqual(v1, v2, tol float64) bool {
	return math.Abs(v1-v2) < tol
}
