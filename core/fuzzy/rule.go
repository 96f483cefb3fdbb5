package fuzzy

import (
	"fmt"
	"strings"
)

// Rule maps an antecedent to one or more consequent fuzzy sets. The label
// is only used in diagnostics.
type Rule struct {
	Label       string
	Antecedent  Expr
	Consequents []Ref
}

func NewRule(label string, antecedent Expr, consequents ...Ref) Rule {
	return Rule{
		Label:       label,
		Antecedent:  antecedent,
		Consequents: append([]Ref(nil), consequents...),
	}
}

func Then(variable, label string) Ref {
	return Ref{Variable: variable, Label: label}
}

// Strength evaluates the firing strength of the rule's antecedent.
func (r Rule) Strength(vs Variables, inputs map[string]float64) (float64, error) {
	return r.Antecedent.Eval(vs, inputs)
}

func (r Rule) String() string {
	cs := make([]string, len(r.Consequents))
	for i, c := range r.Consequents {
		cs[i] = c.String()
	}
	return fmt.Sprintf("%s: IF %v THEN %s", r.Label, r.Antecedent, strings.Join(cs, ", "))
}

// clip accumulates the implied fuzzy set min(s, shape(y)) of a fired rule
// into agg by pointwise maximum.
func clip(s float64, shape Shape, ys, agg []float64) {
	if s <= 0 {
		return
	}
	for i, y := range ys {
		mu := shape.Eval(y)
		if mu > s {
			mu = s
		}
		if mu > agg[i] {
			agg[i] = mu
		}
	}
}
