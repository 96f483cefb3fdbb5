package fuzzy

import (
	"fmt"
	"math"

	"example.com/ecwindow/base/floats"
)

type ShapeKind int

const (
	ShapeTrapezoid ShapeKind = iota
	ShapeTriangle
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeTrapezoid:
		return "trapezoid"
	case ShapeTriangle:
		return "triangle"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// Shape is a piecewise linear membership function. A triangle (a, b, c) is
// stored as the trapezoid (a, b, b, c).
//
// A shape with a == b is open to the left and evaluates to 1 for every
// x <= b; a shape with c == d is open to the right. Shapes collapsed to a
// single point (a == d) are spikes: 1 at exactly that point, 0 elsewhere.
type Shape struct {
	kind       ShapeKind
	a, b, c, d float64
	valid      bool
}

func Trapezoid(a, b, c, d float64) (Shape, error) {
	if !floats.Finite(a, b, c, d) || a > b || b > c || c > d {
		return Shape{}, &InvalidShapeError{Kind: ShapeTrapezoid, Params: []float64{a, b, c, d}}
	}
	return Shape{kind: ShapeTrapezoid, a: a, b: b, c: c, d: d, valid: true}, nil
}

func Triangle(a, b, c float64) (Shape, error) {
	if !floats.Finite(a, b, c) || a > b || b > c {
		return Shape{}, &InvalidShapeError{Kind: ShapeTriangle, Params: []float64{a, b, c}}
	}
	return Shape{kind: ShapeTriangle, a: a, b: b, c: b, d: c, valid: true}, nil
}

func MustTrapezoid(a, b, c, d float64) Shape {
	s, err := Trapezoid(a, b, c, d)
	if err != nil {
		panic(err)
	}
	return s
}

func MustTriangle(a, b, c float64) Shape {
	s, err := Triangle(a, b, c)
	if err != nil {
		panic(err)
	}
	return s
}

// NewShape builds a shape from its kind and parameter list, as read from a
// configuration file.
func NewShape(kind ShapeKind, params []float64) (Shape, error) {
	switch {
	case kind == ShapeTrapezoid && len(params) == 4:
		return Trapezoid(params[0], params[1], params[2], params[3])
	case kind == ShapeTriangle && len(params) == 3:
		return Triangle(params[0], params[1], params[2])
	default:
		return Shape{}, &InvalidShapeError{Kind: kind, Params: params}
	}
}

func ParseShapeKind(s string) (ShapeKind, error) {
	switch s {
	case "trapezoid", "trap", "trapmf":
		return ShapeTrapezoid, nil
	case "triangle", "tri", "trimf":
		return ShapeTriangle, nil
	default:
		return 0, fmt.Errorf("%w: unknown shape kind %q", ErrInvalidShape, s)
	}
}

func (s Shape) Kind() ShapeKind { return s.kind }

// Valid reports whether s was built by Trapezoid or Triangle. The zero Shape
// is not valid.
func (s Shape) Valid() bool { return s.valid }

func (s Shape) Params() []float64 {
	if s.kind == ShapeTriangle {
		return []float64{s.a, s.b, s.d}
	}
	return []float64{s.a, s.b, s.c, s.d}
}

// Support returns the smallest interval outside of which the shape is 0,
// ignoring open shoulders.
func (s Shape) Support() (lo, hi float64) { return s.a, s.d }

// Core returns the interval on which the shape evaluates to 1.
func (s Shape) Core() (lo, hi float64) { return s.b, s.c }

func (s Shape) IsSpike() bool { return s.a == s.d }

func (s Shape) Eval(x float64) float64 {
	if math.IsNaN(x) {
		return 0.0
	}
	if s.IsSpike() {
		if x == s.a {
			return 1.0
		}
		return 0.0
	}
	switch {
	case x >= s.b && x <= s.c:
		return 1.0
	case x < s.b && s.a == s.b:
		return 1.0
	case x > s.c && s.c == s.d:
		return 1.0
	case x <= s.a || x >= s.d:
		return 0.0
	case x < s.b:
		return floats.Clamp01((x - s.a) / (s.b - s.a))
	default:
		return floats.Clamp01((s.d - x) / (s.d - s.c))
	}
}

func (s Shape) String() string {
	return fmt.Sprintf("%v%v", s.kind, s.Params())
}
