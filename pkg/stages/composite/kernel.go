package composite

import (
	"math"

	"golang.org/x/image/draw"
)

// Lanczos3 is a Lanczos resampling kernel with a support of 3 lobes.
// draw.Kernel widens the support when downscaling, so the filter is
// area-correct in both directions.
var Lanczos3 = &draw.Kernel{Support: 3, At: lanczos(3)}

func lanczos(a float64) func(float64) float64 {
	return func(t float64) float64 {
		if t < 0 {
			t = -t
		}
		if t == 0 {
			return 1
		}
		if t >= a {
			return 0
		}
		pt := math.Pi * t
		return a * math.Sin(pt) * math.Sin(pt/a) / (pt * pt)
	}
}
