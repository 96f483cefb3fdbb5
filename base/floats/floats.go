package floats

import (
	"math"
	"slices"
)

func Min(fs []float64) float64 {
	if len(fs) == 0 {
		panic("unexpected number of values")
	}
	return slices.Min(fs)
}

func Max(fs []float64) float64 {
	if len(fs) == 0 {
		panic("unexpected number of values")
	}
	return slices.Max(fs)
}

func Sum(fs []float64) float64 {
	var s float64
	for _, f := range fs {
		s += f
	}
	return s
}

func Finite(fs ...float64) bool {
	for _, f := range fs {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// Clamp01 maps NaN to 0.
func Clamp01(f float64) float64 {
	switch {
	case math.IsNaN(f) || f < 0.0:
		return 0.0
	case f > 1.0:
		return 1.0
	default:
		return f
	}
}
