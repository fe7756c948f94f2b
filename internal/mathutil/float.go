package mathutil

import "math"

// Epsilon replaces exact zeros before a division. It is large enough that
// 1/Epsilon stays finite and small enough to never be visible on screen.
const Epsilon = 1e-6

// AvoidZero returns Epsilon when v is exactly zero and v otherwise.
func AvoidZero(v float64) float64 {
	if v == 0 {
		return Epsilon
	}
	return v
}

// Fract returns the fractional part of v in [0, 1), also for negative v.
func Fract(v float64) float64 {
	f := v - math.Floor(v)
	if f >= 1 {
		// v - Floor(v) can round up to 1 for tiny negative v.
		return 0
	}
	return f
}

// NormalizeAngle wraps an angle in radians into (-Pi, Pi].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// ToDegrees converts radians to degrees.
func ToDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// ToRadians converts degrees to radians.
func ToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
