package image

import "math"

// FitLongest scales orig so that its longest side equals target, keeping
// the aspect ratio. The second result is false when orig already fits.
func FitLongest(orig Size, target uint) (Size, bool) {
	longest := orig.Longest()
	if target == 0 || orig.IsZero() || longest <= target {
		return orig, false
	}
	scale := float64(target) / float64(longest)
	return Size{
		Width:  scaleSide(orig.Width, scale),
		Height: scaleSide(orig.Height, scale),
	}, true
}

func scaleSide(v uint, scale float64) uint {
	n := uint(math.Round(float64(v) * scale))
	if n < 1 {
		return 1
	}
	return n
}
