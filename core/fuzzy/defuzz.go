package fuzzy

import (
	"fmt"

	"example.com/ecwindow/base/floats"
)

// Method selects how an aggregated fuzzy set is reduced to a crisp value.
type Method string

const (
	Centroid      Method = "centroid"
	Bisector      Method = "bisector"
	MeanOfMax     Method = "mom"
	SmallestOfMax Method = "som"
	LargestOfMax  Method = "lom"
)

func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case Centroid, Bisector, MeanOfMax, SmallestOfMax, LargestOfMax:
		return m, nil
	case "":
		return Centroid, nil
	default:
		return "", fmt.Errorf("unknown defuzzification method %q", s)
	}
}

// Defuzzify reduces the aggregated membership degrees mu, sampled at the
// grid points ys, to a crisp value. It returns ErrUndefinedOutput if mu is
// zero everywhere.
func Defuzzify(m Method, ys, mu []float64) (float64, error) {
	if len(ys) != len(mu) {
		panic("unexpected number of values")
	}
	if len(mu) == 0 || floats.Max(mu) <= 0 {
		return 0, ErrUndefinedOutput
	}
	switch m {
	case Centroid, "":
		return centroid(ys, mu)
	case Bisector:
		return bisector(ys, mu), nil
	case MeanOfMax, SmallestOfMax, LargestOfMax:
		return ofMax(m, ys, mu), nil
	default:
		panic("unexpected defuzzification method")
	}
}

func centroid(ys, mu []float64) (float64, error) {
	var num, den float64
	for i, y := range ys {
		num += y * mu[i]
		den += mu[i]
	}
	if den == 0 {
		return 0, ErrUndefinedOutput
	}
	return num / den, nil
}

// bisector returns the first grid point at which the cumulative membership
// reaches half of the total.
func bisector(ys, mu []float64) float64 {
	half := floats.Sum(mu) / 2.0
	var acc float64
	for i, y := range ys {
		acc += mu[i]
		if acc >= half {
			return y
		}
	}
	return ys[len(ys)-1]
}

func ofMax(m Method, ys, mu []float64) float64 {
	top := floats.Max(mu)
	var xs []float64
	for i, y := range ys {
		if mu[i] == top {
			xs = append(xs, y)
		}
	}
	switch m {
	case SmallestOfMax:
		return floats.Min(xs)
	case LargestOfMax:
		return floats.Max(xs)
	default:
		return floats.Sum(xs) / float64(len(xs))
	}
}
