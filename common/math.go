package common

import "math"

const (
	BaseWidth  = 1280
	BaseHeight = 720

	// FrameMillis is the nominal frame duration at the viewer's 60 TPS.
	FrameMillis = 1000.0 / 60.0

	epsilon = 1e-9
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WrapAngle maps an angle into (-Pi, Pi].
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

func NearlyEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
