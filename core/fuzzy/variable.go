package fuzzy

import (
	"fmt"

	"go.uber.org/multierr"
)

type Role int

const (
	Antecedent Role = iota
	Consequent
)

func (r Role) String() string {
	switch r {
	case Antecedent:
		return "antecedent"
	case Consequent:
		return "consequent"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

func ParseRole(s string) (Role, error) {
	switch s {
	case "antecedent", "input":
		return Antecedent, nil
	case "consequent", "output":
		return Consequent, nil
	default:
		return 0, fmt.Errorf("unknown variable role %q", s)
	}
}

// Set is a labelled fuzzy set on a linguistic variable.
type Set struct {
	Label string
	Shape Shape
}

// Variable is a linguistic variable. It is immutable once constructed and
// safe for concurrent use.
type Variable struct {
	name     string
	role     Role
	universe Universe
	sets     []Set
	index    map[string]int
}

func NewVariable(name string, role Role, u Universe, sets ...Set) (*Variable, error) {
	var err error
	if name == "" {
		err = multierr.Append(err, fmt.Errorf("variable name must not be empty"))
	}
	if _, uerr := NewUniverse(u.Min, u.Max, u.Step); uerr != nil {
		err = multierr.Append(err, fmt.Errorf("variable %q: %w", name, uerr))
	}
	v := &Variable{
		name:     name,
		role:     role,
		universe: u,
		sets:     make([]Set, 0, len(sets)),
		index:    make(map[string]int, len(sets)),
	}
	for _, s := range sets {
		if s.Label == "" {
			err = multierr.Append(err, fmt.Errorf("variable %q: empty term label", name))
			continue
		}
		if _, ok := v.index[s.Label]; ok {
			err = multierr.Append(err, &DuplicateLabelError{Variable: name, Label: s.Label})
			continue
		}
		if !s.Shape.Valid() {
			err = multierr.Append(err, fmt.Errorf("variable %q term %q: %w",
				name, s.Label, &InvalidShapeError{Kind: s.Shape.Kind(), Params: s.Shape.Params()}))
			continue
		}
		v.index[s.Label] = len(v.sets)
		v.sets = append(v.sets, s)
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func NewAntecedent(name string, u Universe, sets ...Set) (*Variable, error) {
	return NewVariable(name, Antecedent, u, sets...)
}

func NewConsequent(name string, u Universe, sets ...Set) (*Variable, error) {
	return NewVariable(name, Consequent, u, sets...)
}

func (v *Variable) Name() string       { return v.name }
func (v *Variable) Role() Role         { return v.role }
func (v *Variable) Universe() Universe { return v.universe }

// Sets returns a copy of the variable's fuzzy sets in declaration order.
func (v *Variable) Sets() []Set {
	return append([]Set(nil), v.sets...)
}

func (v *Variable) Shape(label string) (Shape, error) {
	i, ok := v.index[label]
	if !ok {
		return Shape{}, &UnknownTermError{Variable: v.name, Label: label}
	}
	return v.sets[i].Shape, nil
}

func (v *Variable) Fuzzify(label string, x float64) (float64, error) {
	s, err := v.Shape(label)
	if err != nil {
		return 0, err
	}
	return s.Eval(x), nil
}

// FuzzifyAll returns the degree of membership of x in every set of v.
func (v *Variable) FuzzifyAll(x float64) map[string]float64 {
	m := make(map[string]float64, len(v.sets))
	for _, s := range v.sets {
		m[s.Label] = s.Shape.Eval(x)
	}
	return m
}
