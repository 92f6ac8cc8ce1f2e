package kernel

import "math"

// round8 rounds half up and clamps to the 0..255 channel range.
func round8(v float64) uint8 {
	r := math.Floor(v + 0.5)
	switch {
	case r <= 0 || math.IsNaN(r):
		return 0
	case r >= 255:
		return 255
	}
	return uint8(r)
}

// floor8 truncates toward negative infinity and clamps to 0..255.
func floor8(v float64) uint8 {
	r := math.Floor(v)
	switch {
	case r <= 0 || math.IsNaN(r):
		return 0
	case r >= 255:
		return 255
	}
	return uint8(r)
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// fade is the smootherstep curve 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 { return t * t * t * (t*(t*6-15) + 10) }
