package window

import (
	"fmt"

	"go.uber.org/zap"

	"example.com/ecwindow/core/config"
	"example.com/ecwindow/core/fuzzy"
)

// Controller applies the caller policy on top of the inference engine:
// setpoints below the threshold are reported as unchanged. An undefined
// engine output is returned as an error; holding the previous actuator
// state is up to the caller.
type Controller struct {
	log       *zap.Logger
	engine    *fuzzy.Engine
	threshold float64
}

func NewController(log *zap.Logger, cfg *config.Config) (*Controller, error) {
	if log == nil {
		log = zap.NewNop()
	}
	threshold, err := cfg.Threshold(DefaultUnchangedThreshold)
	if err != nil {
		return nil, err
	}
	e, err := cfg.Engine(log)
	if err != nil {
		return nil, err
	}
	tv, ok := e.Variable(VarTv)
	if !ok || tv.Role() != fuzzy.Consequent {
		return nil, fmt.Errorf("configuration lacks consequent variable %q", VarTv)
	}
	known := Inputs{}.Map()
	for _, v := range e.Variables() {
		if _, ok := known[v.Name()]; v.Role() == fuzzy.Antecedent && !ok {
			return nil, fmt.Errorf("unsupported input variable %q", v.Name())
		}
	}
	return &Controller{log: log, engine: e, threshold: threshold}, nil
}

func (c *Controller) Engine() *fuzzy.Engine { return c.engine }

func (c *Controller) Threshold() float64 { return c.threshold }

func (c *Controller) Decide(in Inputs) (Decision, error) {
	evaluationsCounter.Inc()
	t, err := c.engine.Explain(in.Map())
	for _, f := range t.Firings {
		if f.Strength > 0 {
			rulesFiredCounter.Inc()
		}
	}
	if err != nil {
		errorsCounter.WithLabelValues(errorKind(err)).Inc()
		c.log.Debug("evaluation failed", zap.Any("inputs", in), zap.Error(err))
		return Decision{}, err
	}
	tv := t.Outputs[VarTv]
	d := Decision{Tv: tv, Unchanged: tv < c.threshold}
	setpointHistogram.Observe(tv)
	if d.Unchanged {
		unchangedCounter.Inc()
	}
	if ce := c.log.Check(zap.DebugLevel, "decision"); ce != nil {
		fs := make([]zap.Field, 0, len(t.Firings)+2)
		fs = append(fs, zap.Float64("tv", tv), zap.Bool("unchanged", d.Unchanged))
		for _, f := range t.Firings {
			fs = append(fs, zap.Float64(f.Rule, f.Strength))
		}
		ce.Write(fs...)
	}
	return d, nil
}
