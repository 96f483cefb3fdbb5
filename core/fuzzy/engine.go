package fuzzy

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"example.com/ecwindow/base/floats"
	"example.com/ecwindow/base/zaplog"
)

// SpikePolicy decides how consequent sets of zero width are defuzzified.
//
// With SpikeSampled, a spike only contributes to the aggregated set where a
// grid point lands exactly on it. With SpikeOverride, a spike fired at least
// as strongly as every other rule on the same variable determines the output
// directly, bypassing the grid.
type SpikePolicy string

const (
	SpikeOverride SpikePolicy = "override"
	SpikeSampled  SpikePolicy = "sampled"
)

func ParseSpikePolicy(s string) (SpikePolicy, error) {
	switch p := SpikePolicy(s); p {
	case SpikeOverride, SpikeSampled:
		return p, nil
	case "":
		return SpikeOverride, nil
	default:
		return "", fmt.Errorf("unknown spike policy %q", s)
	}
}

type implication struct {
	out   int
	shape Shape
}

type compiledRule struct {
	Rule
	implies []implication
}

type output struct {
	v  *Variable
	ys []float64
}

// Engine is a Mamdani inference engine over a fixed rule base. Its
// configuration is never modified after construction, so Compute may be
// called concurrently.
type Engine struct {
	log     *zap.Logger
	method  Method
	spikes  SpikePolicy
	vars    Variables
	order   []*Variable
	rules   []compiledRule
	outputs []output
}

type Option func(*Engine)

func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

func WithMethod(m Method) Option {
	return func(e *Engine) { e.method = m }
}

func WithSpikePolicy(p SpikePolicy) Option {
	return func(e *Engine) { e.spikes = p }
}

func NewEngine(vars []*Variable, rules []Rule, opts ...Option) (*Engine, error) {
	e := &Engine{
		log:    zaplog.Logger(),
		method: Centroid,
		spikes: SpikeOverride,
		vars:   make(Variables, len(vars)),
	}
	for _, opt := range opts {
		opt(e)
	}
	if _, err := ParseMethod(string(e.method)); err != nil {
		return nil, err
	}
	if _, err := ParseSpikePolicy(string(e.spikes)); err != nil {
		return nil, err
	}

	var err error
	outs := make(map[string]int)
	for _, v := range vars {
		if v == nil {
			err = multierr.Append(err, errors.New("nil variable"))
			continue
		}
		if _, ok := e.vars[v.Name()]; ok {
			err = multierr.Append(err, &DuplicateLabelError{Variable: v.Name()})
			continue
		}
		e.vars[v.Name()] = v
		e.order = append(e.order, v)
		if v.Role() == Consequent {
			outs[v.Name()] = len(e.outputs)
			e.outputs = append(e.outputs, output{v: v, ys: v.Universe().Points()})
		}
	}
	if len(e.outputs) == 0 {
		err = multierr.Append(err, errors.New("no consequent variables"))
	}

	for _, r := range rules {
		cr, rerr := e.compile(r, outs)
		if rerr != nil {
			err = multierr.Append(err, rerr)
			continue
		}
		e.rules = append(e.rules, cr)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) compile(r Rule, outs map[string]int) (compiledRule, error) {
	if r.Antecedent == nil {
		return compiledRule{}, fmt.Errorf("rule %q: missing antecedent", r.Label)
	}
	if len(r.Consequents) == 0 {
		return compiledRule{}, fmt.Errorf("rule %q: missing consequent", r.Label)
	}
	var err error
	for _, ref := range r.Antecedent.Refs() {
		v, ok := e.vars[ref.Variable]
		if !ok {
			err = multierr.Append(err, fmt.Errorf("rule %q: %w",
				r.Label, &UnknownTermError{Variable: ref.Variable, Label: ref.Label}))
			continue
		}
		if v.Role() != Antecedent {
			err = multierr.Append(err, fmt.Errorf("rule %q: %s is not an antecedent", r.Label, ref))
			continue
		}
		if _, serr := v.Shape(ref.Label); serr != nil {
			err = multierr.Append(err, fmt.Errorf("rule %q: %w", r.Label, serr))
		}
	}
	cr := compiledRule{Rule: NewRule(r.Label, r.Antecedent, r.Consequents...)}
	for _, ref := range r.Consequents {
		i, ok := outs[ref.Variable]
		if !ok {
			err = multierr.Append(err, fmt.Errorf("rule %q: %w",
				r.Label, &UnknownTermError{Variable: ref.Variable, Label: ref.Label}))
			continue
		}
		shape, serr := e.outputs[i].v.Shape(ref.Label)
		if serr != nil {
			err = multierr.Append(err, fmt.Errorf("rule %q: %w", r.Label, serr))
			continue
		}
		cr.implies = append(cr.implies, implication{out: i, shape: shape})
	}
	return cr, err
}

func (e *Engine) Method() Method           { return e.method }
func (e *Engine) SpikePolicy() SpikePolicy { return e.spikes }

// Variables returns the engine's variables in declaration order.
func (e *Engine) Variables() []*Variable {
	return append([]*Variable(nil), e.order...)
}

func (e *Engine) Variable(name string) (*Variable, bool) {
	v, ok := e.vars[name]
	return v, ok
}

func (e *Engine) Rules() []Rule {
	rs := make([]Rule, len(e.rules))
	for i, r := range e.rules {
		rs[i] = NewRule(r.Label, r.Antecedent, r.Consequents...)
	}
	return rs
}

// Firing is the evaluated strength of one rule.
type Firing struct {
	Rule     string
	Strength float64
}

// Profile is the aggregated fuzzy set of one consequent variable, sampled
// on the variable's universe grid.
type Profile struct {
	Variable string
	Points   []float64
	Degrees  []float64
}

// Trace records the intermediate results of one evaluation.
type Trace struct {
	Firings  []Firing
	Profiles []Profile
	Outputs  map[string]float64
}

type spike struct {
	strength float64
	at       float64
	other    float64
}

func (e *Engine) infer(inputs map[string]float64) (*Trace, error) {
	t := &Trace{
		Firings:  make([]Firing, len(e.rules)),
		Profiles: make([]Profile, len(e.outputs)),
		Outputs:  make(map[string]float64, len(e.outputs)),
	}
	for i, o := range e.outputs {
		t.Profiles[i] = Profile{
			Variable: o.v.Name(),
			Points:   o.ys,
			Degrees:  make([]float64, len(o.ys)),
		}
	}
	spikes := make([]spike, len(e.outputs))

	for i, r := range e.rules {
		s, err := r.Strength(e.vars, inputs)
		if err != nil {
			return t, fmt.Errorf("rule %q: %w", r.Label, err)
		}
		s = floats.Clamp01(s)
		t.Firings[i] = Firing{Rule: r.Label, Strength: s}
		if s == 0 {
			continue
		}
		if ce := e.log.Check(zap.DebugLevel, "rule fired"); ce != nil {
			ce.Write(zap.String("rule", r.Label), zap.Float64("strength", s))
		}
		for _, im := range r.implies {
			clip(s, im.shape, e.outputs[im.out].ys, t.Profiles[im.out].Degrees)
			sp := &spikes[im.out]
			if im.shape.IsSpike() {
				if s > sp.strength {
					sp.strength = s
					sp.at, _ = im.shape.Support()
				}
			} else if s > sp.other {
				sp.other = s
			}
		}
	}

	for i, o := range e.outputs {
		sp := spikes[i]
		if e.spikes == SpikeOverride && sp.strength > 0 && sp.strength >= sp.other {
			t.Outputs[o.v.Name()] = sp.at
			continue
		}
		y, err := Defuzzify(e.method, o.ys, t.Profiles[i].Degrees)
		if err != nil {
			if errors.Is(err, ErrUndefinedOutput) {
				err = &UndefinedOutputError{Variable: o.v.Name()}
			}
			return t, err
		}
		t.Outputs[o.v.Name()] = y
	}
	return t, nil
}

// Compute evaluates the rule base against one assignment of crisp inputs
// and returns one crisp value per consequent variable.
func (e *Engine) Compute(inputs map[string]float64) (map[string]float64, error) {
	t, err := e.infer(inputs)
	if err != nil {
		return nil, err
	}
	return t.Outputs, nil
}

// Explain is like Compute but also returns the rule firing strengths and the
// aggregated profiles. The trace is returned even if evaluation fails.
func (e *Engine) Explain(inputs map[string]float64) (*Trace, error) {
	t, err := e.infer(inputs)
	for i := range t.Profiles {
		t.Profiles[i].Points = append([]float64(nil), t.Profiles[i].Points...)
	}
	return t, err
}
