package fuzzy

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrapezoidBoundaries(t *testing.T) {
	shapes := [][4]float64{
		{0, 1, 2, 3},
		{-10, -5, 5, 10},
		{160, 200, 300, 340},
		{0, 1, 1, 2},
		{0.5, 0.6, 0.6, 0.61},
	}
	for _, p := range shapes {
		s, err := Trapezoid(p[0], p[1], p[2], p[3])
		require.NoError(t, err)

		assert.Equal(t, 0.0, s.Eval(p[0]), "at a for %v", p)
		assert.Equal(t, 1.0, s.Eval(p[1]), "at b for %v", p)
		assert.Equal(t, 1.0, s.Eval(p[2]), "at c for %v", p)
		assert.Equal(t, 0.0, s.Eval(p[3]), "at d for %v", p)

		lo, hi := p[0]-10, p[3]+10
		for i := 0; i <= 1000; i++ {
			x := lo + float64(i)*(hi-lo)/1000
			mu := s.Eval(x)
			assert.True(t, mu >= 0 && mu <= 1, "Eval(%v) = %v out of range for %v", x, mu, p)
		}
	}
}

func TestTrapezoidRamps(t *testing.T) {
	s := MustTrapezoid(18, 22, 24, 26)
	assert.InDelta(t, 0.5, s.Eval(20), 1e-12)
	assert.InDelta(t, 0.25, s.Eval(19), 1e-12)
	assert.InDelta(t, 0.5, s.Eval(25), 1e-12)
	assert.Equal(t, 1.0, s.Eval(23))
	assert.Equal(t, 0.0, s.Eval(30))
	assert.Equal(t, 0.0, s.Eval(0))
}

func TestShouldersSaturate(t *testing.T) {
	left := MustTrapezoid(-10, -10, 12, 18)
	assert.Equal(t, 1.0, left.Eval(-10))
	assert.Equal(t, 1.0, left.Eval(-40))
	assert.InDelta(t, 0.5, left.Eval(15), 1e-12)
	assert.Equal(t, 0.0, left.Eval(18))
	assert.Equal(t, 0.0, left.Eval(100))

	right := MustTrapezoid(20, 40, 60, 60)
	assert.Equal(t, 0.0, right.Eval(20))
	assert.InDelta(t, 0.5, right.Eval(30), 1e-12)
	assert.Equal(t, 1.0, right.Eval(60))
	assert.Equal(t, 1.0, right.Eval(600))

	tri := MustTriangle(0.45, 0.6, 0.6)
	assert.Equal(t, 1.0, tri.Eval(0.6))
	assert.Equal(t, 1.0, tri.Eval(0.7))
	assert.Equal(t, 0.0, tri.Eval(0.45))
}

func TestTriangle(t *testing.T) {
	s := MustTriangle(0.15, 0.3, 0.45)
	assert.Equal(t, 0.0, s.Eval(0.15))
	assert.Equal(t, 1.0, s.Eval(0.3))
	assert.Equal(t, 0.0, s.Eval(0.45))
	assert.InDelta(t, 0.5, s.Eval(0.225), 1e-12)
	assert.InDelta(t, 0.5, s.Eval(0.375), 1e-12)
	assert.Equal(t, []float64{0.15, 0.3, 0.45}, s.Params())
	assert.Equal(t, ShapeTriangle, s.Kind())
}

func TestSpike(t *testing.T) {
	s := MustTriangle(0.05, 0.05, 0.05)
	require.True(t, s.IsSpike())
	assert.Equal(t, 1.0, s.Eval(0.05))
	for _, x := range []float64{0.04, 0.0500001, 0.0499999, 0.06, -0.05, 1, math.Inf(1)} {
		assert.Equal(t, 0.0, s.Eval(x), "Eval(%v)", x)
	}
}

func TestEvalNaN(t *testing.T) {
	assert.Equal(t, 0.0, MustTrapezoid(0, 1, 2, 3).Eval(math.NaN()))
	assert.Equal(t, 0.0, MustTriangle(0, 0, 0).Eval(math.NaN()))
}

func TestInvalidShapes(t *testing.T) {
	_, err := Trapezoid(2, 1, 3, 4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidShape))
	var serr *InvalidShapeError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, []float64{2, 1, 3, 4}, serr.Params)

	_, err = Trapezoid(0, 1, 3, 2)
	assert.ErrorIs(t, err, ErrInvalidShape)
	_, err = Triangle(0, 2, 1)
	assert.ErrorIs(t, err, ErrInvalidShape)
	_, err = Triangle(math.NaN(), 0, 1)
	assert.ErrorIs(t, err, ErrInvalidShape)
	_, err = NewShape(ShapeTriangle, []float64{0, 1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidShape)

	assert.Panics(t, func() { MustTriangle(1, 0, 2) })
}

func TestParseShapeKind(t *testing.T) {
	k, err := ParseShapeKind("trimf")
	require.NoError(t, err)
	assert.Equal(t, ShapeTriangle, k)
	k, err = ParseShapeKind("trapezoid")
	require.NoError(t, err)
	assert.Equal(t, ShapeTrapezoid, k)
	_, err = ParseShapeKind("gauss")
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestUniversePoints(t *testing.T) {
	u, err := NewUniverse(0.05, 0.60, 0.01)
	require.NoError(t, err)
	ps := u.Points()
	require.Len(t, ps, 56)
	assert.Equal(t, 0.05, ps[0])
	assert.Equal(t, 0.60, ps[55])
	for i := 1; i < len(ps); i++ {
		assert.Greater(t, ps[i], ps[i-1])
	}

	u, err = NewUniverse(0, 1, 0.3)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.3, 0.6, 1}, u.Points())

	u, err = NewUniverse(0, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, u.Points())

	for _, bad := range [][3]float64{{1, 0, 0.1}, {0, 0, 0.1}, {0, 1, 0}, {0, 1, -1}, {0, math.Inf(1), 1}} {
		_, err := NewUniverse(bad[0], bad[1], bad[2])
		assert.ErrorIs(t, err, ErrInvalidUniverse, "%v", bad)
	}
}

func TestUniverseGridIsBounded(t *testing.T) {
	for _, step := range []float64{1e-300, 1e-8, 1.0 / MaxUniversePoints} {
		_, err := NewUniverse(0, 1, step)
		assert.ErrorIs(t, err, ErrInvalidUniverse, "step %v", step)
	}

	u, err := NewUniverse(0, MaxUniversePoints-1, 1)
	require.NoError(t, err)
	assert.Equal(t, MaxUniversePoints, u.Len())

	_, err = NewUniverse(-math.MaxFloat64, math.MaxFloat64, 1)
	assert.ErrorIs(t, err, ErrInvalidUniverse)
}
