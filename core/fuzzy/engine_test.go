package fuzzy

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"
)

func fanVariables(t *testing.T) []*Variable {
	t.Helper()
	temp, err := NewAntecedent("temp", Universe{Min: 0, Max: 40, Step: 1},
		Set{Label: "cold", Shape: MustTrapezoid(0, 0, 10, 20)},
		Set{Label: "hot", Shape: MustTrapezoid(10, 20, 40, 40)},
	)
	require.NoError(t, err)
	sw, err := NewAntecedent("switch", Universe{Min: 0, Max: 1, Step: 0.1},
		Set{Label: "on", Shape: MustTrapezoid(0.5, 1, 1, 1)},
	)
	require.NoError(t, err)
	fan, err := NewConsequent("fan", Universe{Min: 0, Max: 1, Step: 0.01},
		Set{Label: "low", Shape: MustTriangle(0, 0, 0.5)},
		Set{Label: "high", Shape: MustTriangle(0.5, 1, 1)},
		Set{Label: "hold", Shape: MustTriangle(0.333, 0.333, 0.333)},
	)
	require.NoError(t, err)
	return []*Variable{temp, sw, fan}
}

func fanRules() []Rule {
	return []Rule{
		NewRule("low", Term("temp", "cold"), Then("fan", "low")),
		NewRule("high", Term("temp", "hot"), Then("fan", "high")),
		NewRule("hold", Term("switch", "on"), Then("fan", "hold")),
	}
}

func newFanEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	e, err := NewEngine(fanVariables(t), fanRules(), opts...)
	require.NoError(t, err)
	return e
}

func TestEngineCentroid(t *testing.T) {
	e := newFanEngine(t)

	tests := []struct {
		temp  float64
		want  float64
		delta float64
	}{
		{temp: 0, want: 1.0 / 6.0, delta: 0.01},
		{temp: 40, want: 5.0 / 6.0, delta: 0.01},
		{temp: 15, want: 0.5, delta: 1e-9},
		{temp: -30, want: 1.0 / 6.0, delta: 0.01},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.temp), func(t *testing.T) {
			out, err := e.Compute(map[string]float64{"temp": tt.temp, "switch": 0})
			require.NoError(t, err)
			require.Len(t, out, 1)
			assert.InDelta(t, tt.want, out["fan"], tt.delta)
		})
	}
}

func TestEngineDeterministic(t *testing.T) {
	e := newFanEngine(t)
	in := map[string]float64{"temp": 13.7, "switch": 0.2}
	first, err := e.Compute(in)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		out, err := e.Compute(in)
		require.NoError(t, err)
		assert.InDelta(t, first["fan"], out["fan"], 1e-9)
	}
	assert.Equal(t, map[string]float64{"temp": 13.7, "switch": 0.2}, in)
}

func TestEngineSpikePolicy(t *testing.T) {
	in := map[string]float64{"temp": 40, "switch": 1}

	out, err := newFanEngine(t).Compute(in)
	require.NoError(t, err)
	assert.Equal(t, 0.333, out["fan"])

	out, err = newFanEngine(t, WithSpikePolicy(SpikeSampled)).Compute(in)
	require.NoError(t, err)
	assert.InDelta(t, 5.0/6.0, out["fan"], 0.01)

	// A weaker spike does not override the centroid.
	out, err = newFanEngine(t).Compute(map[string]float64{"temp": 40, "switch": 0.75})
	require.NoError(t, err)
	assert.InDelta(t, 5.0/6.0, out["fan"], 0.01)
}

func TestEngineUndefinedOutput(t *testing.T) {
	vs := fanVariables(t)
	rules := []Rule{NewRule("hold", Term("switch", "on"), Then("fan", "hold"))}

	e, err := NewEngine(vs, rules)
	require.NoError(t, err)
	_, err = e.Compute(map[string]float64{"switch": 0})
	var uerr *UndefinedOutputError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, "fan", uerr.Variable)

	out, err := e.Compute(map[string]float64{"switch": 1})
	require.NoError(t, err)
	assert.Equal(t, 0.333, out["fan"])

	e, err = NewEngine(vs, rules, WithSpikePolicy(SpikeSampled))
	require.NoError(t, err)
	_, err = e.Compute(map[string]float64{"switch": 1})
	assert.ErrorIs(t, err, ErrUndefinedOutput)

	e, err = NewEngine(vs, nil)
	require.NoError(t, err)
	_, err = e.Compute(map[string]float64{})
	assert.ErrorIs(t, err, ErrUndefinedOutput)
}

func TestEngineMissingInput(t *testing.T) {
	e := newFanEngine(t)
	_, err := e.Compute(map[string]float64{"temp": 10})
	var merr *MissingInputError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, "switch", merr.Variable)
}

func TestNewEngineRejectsMalformedConfiguration(t *testing.T) {
	vs := fanVariables(t)

	_, err := NewEngine(vs, []Rule{NewRule("r", Term("temp", "warm"), Then("fan", "low"))})
	assert.ErrorIs(t, err, ErrUnknownTerm)

	_, err = NewEngine(vs, []Rule{NewRule("r", Term("humidity", "dry"), Then("fan", "low"))})
	assert.ErrorIs(t, err, ErrUnknownTerm)

	_, err = NewEngine(vs, []Rule{NewRule("r", Term("temp", "hot"), Then("fan", "max"))})
	assert.ErrorIs(t, err, ErrUnknownTerm)

	_, err = NewEngine(vs, []Rule{NewRule("r", Term("fan", "low"), Then("fan", "low"))})
	assert.Error(t, err)

	_, err = NewEngine(vs, []Rule{{Label: "r", Antecedent: Term("temp", "hot")}})
	assert.Error(t, err)

	_, err = NewEngine(append(vs, vs[0]), fanRules())
	assert.ErrorIs(t, err, ErrDuplicateLabel)

	_, err = NewEngine(vs[:2], nil)
	assert.Error(t, err)

	_, err = NewEngine(vs, fanRules(), WithMethod("median"))
	assert.Error(t, err)

	_, err = NewEngine(vs, []Rule{
		NewRule("a", Term("temp", "warm"), Then("fan", "low")),
		NewRule("b", Term("temp", "hot"), Then("fan", "max")),
	})
	assert.Len(t, multierr.Errors(err), 2)
}

func TestEngineExplain(t *testing.T) {
	e := newFanEngine(t)
	tr, err := e.Explain(map[string]float64{"temp": 15, "switch": 0})
	require.NoError(t, err)
	require.Len(t, tr.Firings, 3)
	assert.Equal(t, Firing{Rule: "low", Strength: 0.5}, tr.Firings[0])
	assert.Equal(t, Firing{Rule: "high", Strength: 0.5}, tr.Firings[1])
	assert.Equal(t, Firing{Rule: "hold", Strength: 0}, tr.Firings[2])
	require.Len(t, tr.Profiles, 1)
	assert.Equal(t, "fan", tr.Profiles[0].Variable)
	assert.Len(t, tr.Profiles[0].Points, 101)
	for _, mu := range tr.Profiles[0].Degrees {
		assert.LessOrEqual(t, mu, 0.5)
	}

	// Mutating a trace must not affect the engine.
	tr.Profiles[0].Points[0] = 42
	tr2, err := e.Explain(map[string]float64{"temp": 15, "switch": 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, tr2.Profiles[0].Points[0])
	assert.InDelta(t, tr.Outputs["fan"], tr2.Outputs["fan"], 1e-12)
}

func TestEngineConcurrentCompute(t *testing.T) {
	e := newFanEngine(t)
	want := make([]float64, 41)
	for i := range want {
		out, err := e.Compute(map[string]float64{"temp": float64(i), "switch": 0})
		require.NoError(t, err)
		want[i] = out["fan"]
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range want {
				out, err := e.Compute(map[string]float64{"temp": float64(i), "switch": 0})
				if err != nil {
					errs <- err
					return
				}
				if out["fan"] != want[i] {
					errs <- fmt.Errorf("temp %d: got %v, want %v", i, out["fan"], want[i])
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestEngineAccessors(t *testing.T) {
	e := newFanEngine(t, WithMethod(MeanOfMax))
	assert.Equal(t, MeanOfMax, e.Method())
	assert.Equal(t, SpikeOverride, e.SpikePolicy())
	vs := e.Variables()
	require.Len(t, vs, 3)
	assert.Equal(t, "temp", vs[0].Name())
	v, ok := e.Variable("fan")
	require.True(t, ok)
	assert.Equal(t, Consequent, v.Role())
	_, ok = e.Variable("nope")
	assert.False(t, ok)
	assert.Len(t, e.Rules(), 3)
}
