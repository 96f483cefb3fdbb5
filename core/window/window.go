// Package window decides the visible light transmission setpoint of an
// electrochromic window from user interaction recency, outdoor and indoor
// temperature, and illuminance.
package window

import (
	"strconv"

	"example.com/ecwindow/core/config"
)

const (
	VarUserInteraction = "userInteraction"
	VarOutdoorTemp     = "outdoorTemp"
	VarIndoorTemp      = "indoorTemp"
	VarLux             = "Lux"
	VarTv              = "Tv"

	// DefaultUnchangedThreshold is the setpoint below which the transmission
	// level is left as is.
	DefaultUnchangedThreshold = 0.06

	UnchangedMessage = "light transmission level unchanged"
)

// Inputs are the crisp controller inputs. UserInteraction is the time since
// the occupant last acted on the window, in minutes.
type Inputs struct {
	UserInteraction float64
	OutdoorTemp     float64
	IndoorTemp      float64
	Lux             float64
}

func (in Inputs) Map() map[string]float64 {
	return map[string]float64{
		VarUserInteraction: in.UserInteraction,
		VarOutdoorTemp:     in.OutdoorTemp,
		VarIndoorTemp:      in.IndoorTemp,
		VarLux:             in.Lux,
	}
}

type Decision struct {
	Tv        float64
	Unchanged bool
}

func (d Decision) String() string {
	if d.Unchanged {
		return UnchangedMessage
	}
	return strconv.FormatFloat(d.Tv, 'f', 4, 64)
}

func trap(label string, a, b, c, d float64) config.TermConfig {
	return config.TermConfig{Label: label, Shape: "trapezoid", Params: []float64{a, b, c, d}}
}

func tri(label string, a, b, c float64) config.TermConfig {
	return config.TermConfig{Label: label, Shape: "triangle", Params: []float64{a, b, c}}
}

// DefaultConfig returns the reference window rule base.
//
// Labels: outdoorTemp h (below 18 degrees) / c; indoorTemp c / w / h;
// userInteraction A (acted) / nA (not acted); Lux d (dark) / c (comfort) /
// b (too bright); Tv l / ml / m / mh / h and nc, the zero-width "no change"
// set at the lower end of the Tv universe.
func DefaultConfig() *config.Config {
	threshold := DefaultUnchangedThreshold
	return &config.Config{
		Defuzzify:          "centroid",
		SpikePolicy:        "override",
		UnchangedThreshold: &threshold,
		MetricsAddr:        config.DefaultMetricsAddr,
		Variables: []config.VariableConfig{
			{
				Name: VarUserInteraction, Role: "antecedent", Min: 0, Max: 60, Step: 1,
				Terms: []config.TermConfig{
					trap("A", 0, 0, 20, 40),
					trap("nA", 20, 40, 60, 60),
				},
			},
			{
				Name: VarOutdoorTemp, Role: "antecedent", Min: -10, Max: 60, Step: 1,
				Terms: []config.TermConfig{
					trap("h", -10, -10, 12, 18),
					trap("c", 12, 18, 60, 60),
				},
			},
			{
				Name: VarIndoorTemp, Role: "antecedent", Min: -10, Max: 34, Step: 1,
				Terms: []config.TermConfig{
					trap("c", -10, -10, 18, 22),
					trap("w", 18, 22, 24, 26),
					trap("h", 24, 26, 45, 45),
				},
			},
			{
				Name: VarLux, Role: "antecedent", Min: 0, Max: 1499, Step: 1,
				Terms: []config.TermConfig{
					trap("d", 0, 0, 130, 200),
					trap("c", 160, 200, 300, 340),
					trap("b", 300, 400, 1500, 1500),
				},
			},
			{
				Name: VarTv, Role: "consequent", Min: 0.05, Max: 0.60, Step: 0.01,
				Terms: []config.TermConfig{
					tri("l", 0.05, 0.05, 0.15),
					tri("ml", 0.05, 0.15, 0.3),
					tri("m", 0.15, 0.3, 0.45),
					tri("mh", 0.3, 0.45, 0.6),
					tri("h", 0.45, 0.6, 0.6),
					tri("nc", 0.05, 0.05, 0.05),
				},
			},
		},
		Rules: []config.RuleConfig{
			{
				Label: "rule l",
				When: [][]string{
					{"userInteraction.nA", "outdoorTemp.h", "indoorTemp.h", "Lux.b"},
					{"userInteraction.nA", "outdoorTemp.h", "indoorTemp.w", "Lux.b"},
				},
				Then: []string{"Tv.l"},
			},
			{
				Label: "rule ml",
				When: [][]string{
					{"userInteraction.nA", "outdoorTemp.c", "indoorTemp.h", "Lux.b"},
					{"userInteraction.nA", "outdoorTemp.c", "indoorTemp.w", "Lux.b"},
					{"userInteraction.nA", "outdoorTemp.h", "indoorTemp.c", "Lux.b"},
				},
				Then: []string{"Tv.ml"},
			},
			{
				Label: "rule m",
				When: [][]string{
					{"userInteraction.nA", "outdoorTemp.c", "indoorTemp.c", "Lux.b"},
				},
				Then: []string{"Tv.m"},
			},
			{
				Label: "rule mh",
				When: [][]string{
					{"userInteraction.nA", "outdoorTemp.h", "indoorTemp.w", "Lux.d"},
					{"userInteraction.nA", "outdoorTemp.h", "indoorTemp.c", "Lux.d"},
					{"userInteraction.nA", "indoorTemp.h", "Lux.d"},
				},
				Then: []string{"Tv.mh"},
			},
			{
				Label: "rule h",
				When: [][]string{
					{"userInteraction.nA", "outdoorTemp.c", "indoorTemp.c", "Lux.d"},
					{"userInteraction.nA", "outdoorTemp.c", "indoorTemp.w", "Lux.d"},
				},
				Then: []string{"Tv.h"},
			},
			{
				Label: "rule nc",
				When: [][]string{
					{"userInteraction.A"},
					{"userInteraction.nA", "Lux.c"},
				},
				Then: []string{"Tv.nc"},
			},
		},
	}
}
