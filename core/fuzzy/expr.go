package fuzzy

import (
	"strings"

	"example.com/ecwindow/base/floats"
)

// Ref names one fuzzy set of one variable.
type Ref struct {
	Variable string
	Label    string
}

func (r Ref) String() string { return r.Variable + "[" + r.Label + "]" }

// Variables maps variable names to their definitions.
type Variables map[string]*Variable

// Expr is a rule antecedent. And and Or are the Mamdani min and max.
type Expr interface {
	Eval(vs Variables, inputs map[string]float64) (float64, error)
	Refs() []Ref
	String() string
}

type termExpr struct {
	ref Ref
}

type andExpr struct {
	xs []Expr
}

type orExpr struct {
	xs []Expr
}

func Term(variable, label string) Expr {
	return &termExpr{ref: Ref{Variable: variable, Label: label}}
}

func And(xs ...Expr) Expr {
	if len(xs) < 2 {
		panic("And requires at least two operands")
	}
	return &andExpr{xs: append([]Expr(nil), xs...)}
}

func Or(xs ...Expr) Expr {
	if len(xs) < 2 {
		panic("Or requires at least two operands")
	}
	return &orExpr{xs: append([]Expr(nil), xs...)}
}

func (x *termExpr) Eval(vs Variables, inputs map[string]float64) (float64, error) {
	v, ok := vs[x.ref.Variable]
	if !ok {
		return 0, &UnknownTermError{Variable: x.ref.Variable, Label: x.ref.Label}
	}
	in, ok := inputs[x.ref.Variable]
	if !ok {
		return 0, &MissingInputError{Variable: x.ref.Variable}
	}
	return v.Fuzzify(x.ref.Label, in)
}

func (x *termExpr) Refs() []Ref { return []Ref{x.ref} }

func (x *termExpr) String() string { return x.ref.String() }

func evalAll(xs []Expr, vs Variables, inputs map[string]float64) ([]float64, error) {
	fs := make([]float64, len(xs))
	for i, x := range xs {
		f, err := x.Eval(vs, inputs)
		if err != nil {
			return nil, err
		}
		fs[i] = f
	}
	return fs, nil
}

func refsAll(xs []Expr) []Ref {
	var rs []Ref
	for _, x := range xs {
		rs = append(rs, x.Refs()...)
	}
	return rs
}

func stringAll(xs []Expr, op string) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, x := range xs {
		if i != 0 {
			sb.WriteString(op)
		}
		sb.WriteString(x.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

func (x *andExpr) Eval(vs Variables, inputs map[string]float64) (float64, error) {
	fs, err := evalAll(x.xs, vs, inputs)
	if err != nil {
		return 0, err
	}
	return floats.Min(fs), nil
}

func (x *andExpr) Refs() []Ref { return refsAll(x.xs) }

func (x *andExpr) String() string { return stringAll(x.xs, " & ") }

func (x *orExpr) Eval(vs Variables, inputs map[string]float64) (float64, error) {
	fs, err := evalAll(x.xs, vs, inputs)
	if err != nil {
		return 0, err
	}
	return floats.Max(fs), nil
}

func (x *orExpr) Refs() []Ref { return refsAll(x.xs) }

func (x *orExpr) String() string { return stringAll(x.xs, " | ") }

// AnyOf builds the disjunction of conjunctive clauses, collapsing
// single-element clauses and a single clause to their only operand.
func AnyOf(clauses ...[]Expr) Expr {
	if len(clauses) == 0 {
		panic("AnyOf requires at least one clause")
	}
	xs := make([]Expr, len(clauses))
	for i, c := range clauses {
		switch len(c) {
		case 0:
			panic("AnyOf requires non-empty clauses")
		case 1:
			xs[i] = c[0]
		default:
			xs[i] = And(c...)
		}
	}
	if len(xs) == 1 {
		return xs[0]
	}
	return Or(xs...)
}
