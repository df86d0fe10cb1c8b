package kinetics

import "math"

const (
	lambertMaxIterations = 50
	lambertTolerance     = 1e-12
)

// LambertW0 evaluates the principal branch of the Lambert W function, the
// inverse of f(w) = w·e^w, using Halley's method. The second return value is
// false when x < -1/e, where no real solution exists.
func LambertW0(x float64) (float64, bool) {
	branchPoint := -1 / math.E

	switch {
	case math.IsNaN(x):
		return 0, false
	case x == 0:
		return 0, true
	case x == math.E:
		return 1, true
	case x < branchPoint:
		return 0, false
	case x == branchPoint:
		return -1, true
	}

	w := initialGuess(x)
	tol := lambertTolerance * math.Abs(x)

	for i := 0; i < lambertMaxIterations; i++ {
		ew := math.Exp(w)
		f := w*ew - x
		if math.Abs(f) < tol {
			break
		}

		fp := ew * (w + 1)
		fpp := ew * (w + 2)

		// Halley update; Newton when the cubic denominator degenerates.
		den := 2*fp*fp - f*fpp
		if den == 0 {
			if fp == 0 {
				break
			}
			w -= f / fp
			continue
		}
		w -= 2 * f * fp / den
	}

	return w, true
}

func initialGuess(x float64) float64 {
	switch {
	case x < 1:
		return x
	case x < 10:
		return math.Log(x)
	default:
		lx := math.Log(x)
		llx := math.Log(lx)
		return lx - llx + llx/lx
	}
}
