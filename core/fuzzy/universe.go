package fuzzy

import (
	"fmt"
	"math"

	"example.com/ecwindow/base/floats"
)

// Universe is the numeric range of a linguistic variable. Step is only used
// to discretize consequent universes for aggregation and defuzzification.
type Universe struct {
	Min, Max, Step float64
}

// MaxUniversePoints bounds the discretization grid of a universe.
const MaxUniversePoints = 1 << 20

func NewUniverse(min, max, step float64) (Universe, error) {
	if !floats.Finite(min, max, step) || min >= max || step <= 0 {
		return Universe{}, fmt.Errorf("%w: [%v, %v] step %v", ErrInvalidUniverse, min, max, step)
	}
	n := math.Round((max - min) / step)
	if !floats.Finite(n) || n+1 > MaxUniversePoints {
		return Universe{}, fmt.Errorf("%w: [%v, %v] step %v exceeds %d points",
			ErrInvalidUniverse, min, max, step, MaxUniversePoints)
	}
	return Universe{Min: min, Max: max, Step: step}, nil
}

// Len returns the number of grid points, both bounds included.
func (u Universe) Len() int {
	n := int(math.Round((u.Max - u.Min) / u.Step))
	if n < 1 {
		n = 1
	}
	return n + 1
}

// Points returns the discretization grid. Points are computed as
// Min + i*Step rather than accumulated, and the last point is Max.
func (u Universe) Points() []float64 {
	n := u.Len()
	ps := make([]float64, n)
	for i := range ps {
		ps[i] = u.Min + float64(i)*u.Step
	}
	if n > 1 {
		ps[n-1] = u.Max
	}
	return ps
}

func (u Universe) Contains(x float64) bool {
	return x >= u.Min && x <= u.Max
}

func (u Universe) String() string {
	return fmt.Sprintf("[%v, %v] step %v", u.Min, u.Max, u.Step)
}
