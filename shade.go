package fractal

import (
	"image/color"
	"math"
	"math/cmplx"
)

// distance estimates the distance from the final iterate z of a pixel to the
// boundary of the set, scaled by the image width. It is NaN or infinite when
// |z| is 0 or |dz/dc| is 0.
func distance(z Dual, width float64) float64 {
	r, dr := cmplx.Abs(z.V), cmplx.Abs(z.D)
	return width * 0.7 * math.Log(r) * r / dr
}

// grayLevel maps a distance estimate to an 8-bit intensity. NaN is black.
func grayLevel(d float64) uint8 {
	v := math.Floor(255 * d)
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

// distanceColor is the gray pixel for a distance estimate.
func distanceColor(d float64) color.RGBA {
	g := grayLevel(d)
	return color.RGBA{R: g, G: g, B: g, A: 255}
}

// escapeColor is the red ramp pixel for a pixel that escaped on iteration i
// of iters, or black if i is negative.
func escapeColor(i, iters int) color.RGBA {
	if i < 0 {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: uint8(float64(i) / float64(iters) * 255), A: 255}
}
