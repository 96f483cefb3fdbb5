// Package config reads fuzzy controller configurations from TOML or YAML
// files and builds inference engines from them.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"example.com/ecwindow/base/floats"
	"example.com/ecwindow/core/fuzzy"
)

const (
	FormatTOML = "toml"
	FormatYAML = "yaml"

	DefaultMetricsAddr = "127.0.0.1:8080"
)

type Config struct {
	Defuzzify          string           `toml:"defuzzify,omitempty" yaml:"defuzzify,omitempty"`
	SpikePolicy        string           `toml:"spike_policy,omitempty" yaml:"spike_policy,omitempty"`
	UnchangedThreshold *float64         `toml:"unchanged_threshold,omitempty" yaml:"unchanged_threshold,omitempty"`
	MetricsAddr        string           `toml:"metrics_address,omitempty" yaml:"metrics_address,omitempty"`
	Variables          []VariableConfig `toml:"variables" yaml:"variables"`
	Rules              []RuleConfig     `toml:"rules" yaml:"rules"`
}

type VariableConfig struct {
	Name  string       `toml:"name" yaml:"name"`
	Role  string       `toml:"role" yaml:"role"`
	Min   float64      `toml:"min" yaml:"min"`
	Max   float64      `toml:"max" yaml:"max"`
	Step  float64      `toml:"step" yaml:"step"`
	Terms []TermConfig `toml:"terms" yaml:"terms"`
}

type TermConfig struct {
	Label  string    `toml:"label" yaml:"label"`
	Shape  string    `toml:"shape" yaml:"shape"`
	Params []float64 `toml:"params" yaml:"params"`
}

// RuleConfig is a rule in disjunctive normal form: the rule fires with the
// maximum over the When clauses of the minimum over each clause's terms.
// Terms are written as "variable.label".
type RuleConfig struct {
	Label string     `toml:"label" yaml:"label"`
	When  [][]string `toml:"when" yaml:"when"`
	Then  []string   `toml:"then" yaml:"then"`
}

func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported config file extension: %q", path)
	}
}

func Load(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Decode(raw, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return cfg, nil
}

func Decode(raw []byte, format string) (*Config, error) {
	var cfg Config
	switch format {
	case FormatTOML:
		err := toml.NewDecoder(bytes.NewReader(raw)).DisallowUnknownFields().Decode(&cfg)
		if err != nil {
			return nil, err
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		err := dec.Decode(&cfg)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %q", format)
	}
	return &cfg, nil
}

func (c *Config) Encode(format string) ([]byte, error) {
	switch format {
	case FormatTOML:
		return toml.Marshal(c)
	case FormatYAML:
		return yaml.Marshal(c)
	default:
		return nil, fmt.Errorf("unsupported config format: %q", format)
	}
}

func (c *Config) Threshold(def float64) (float64, error) {
	if c.UnchangedThreshold == nil {
		return def, nil
	}
	t := *c.UnchangedThreshold
	if !floats.Finite(t) || t < 0 {
		return 0, fmt.Errorf("invalid unchanged threshold: %v", t)
	}
	return t, nil
}

func (c *Config) MetricsAddress() string {
	if c.MetricsAddr == "" {
		return DefaultMetricsAddr
	}
	return c.MetricsAddr
}

func ParseRef(s string) (fuzzy.Ref, error) {
	v, l, ok := strings.Cut(s, ".")
	if !ok || v == "" || l == "" {
		return fuzzy.Ref{}, fmt.Errorf("malformed term reference %q, want \"variable.label\"", s)
	}
	return fuzzy.Ref{Variable: v, Label: l}, nil
}

func (vc *VariableConfig) variable() (*fuzzy.Variable, error) {
	role, err := fuzzy.ParseRole(vc.Role)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", vc.Name, err)
	}
	if strings.Contains(vc.Name, ".") {
		return nil, fmt.Errorf("variable %q: name must not contain '.'", vc.Name)
	}
	var sets []fuzzy.Set
	for _, tc := range vc.Terms {
		kind, kerr := fuzzy.ParseShapeKind(tc.Shape)
		if kerr != nil {
			err = multierr.Append(err, fmt.Errorf("variable %q term %q: %w", vc.Name, tc.Label, kerr))
			continue
		}
		shape, serr := fuzzy.NewShape(kind, tc.Params)
		if serr != nil {
			err = multierr.Append(err, fmt.Errorf("variable %q term %q: %w", vc.Name, tc.Label, serr))
			continue
		}
		sets = append(sets, fuzzy.Set{Label: tc.Label, Shape: shape})
	}
	if err != nil {
		return nil, err
	}
	u := fuzzy.Universe{Min: vc.Min, Max: vc.Max, Step: vc.Step}
	return fuzzy.NewVariable(vc.Name, role, u, sets...)
}

func (rc *RuleConfig) rule() (fuzzy.Rule, error) {
	if len(rc.When) == 0 {
		return fuzzy.Rule{}, fmt.Errorf("rule %q: missing antecedent", rc.Label)
	}
	var err error
	clauses := make([][]fuzzy.Expr, len(rc.When))
	for i, clause := range rc.When {
		if len(clause) == 0 {
			err = multierr.Append(err, fmt.Errorf("rule %q: empty clause %d", rc.Label, i))
			continue
		}
		for _, s := range clause {
			ref, rerr := ParseRef(s)
			if rerr != nil {
				err = multierr.Append(err, fmt.Errorf("rule %q: %w", rc.Label, rerr))
				continue
			}
			clauses[i] = append(clauses[i], fuzzy.Term(ref.Variable, ref.Label))
		}
	}
	var consequents []fuzzy.Ref
	for _, s := range rc.Then {
		ref, rerr := ParseRef(s)
		if rerr != nil {
			err = multierr.Append(err, fmt.Errorf("rule %q: %w", rc.Label, rerr))
			continue
		}
		consequents = append(consequents, ref)
	}
	if err != nil {
		return fuzzy.Rule{}, err
	}
	return fuzzy.NewRule(rc.Label, fuzzy.AnyOf(clauses...), consequents...), nil
}

// Engine validates the configuration and builds an inference engine. All
// problems found are reported together.
func (c *Config) Engine(log *zap.Logger) (*fuzzy.Engine, error) {
	var err error
	method, merr := fuzzy.ParseMethod(c.Defuzzify)
	err = multierr.Append(err, merr)
	policy, perr := fuzzy.ParseSpikePolicy(c.SpikePolicy)
	err = multierr.Append(err, perr)
	_, terr := c.Threshold(0)
	err = multierr.Append(err, terr)
	if len(c.Variables) == 0 {
		err = multierr.Append(err, errors.New("no variables configured"))
	}

	vars := make([]*fuzzy.Variable, 0, len(c.Variables))
	for i := range c.Variables {
		v, verr := c.Variables[i].variable()
		if verr != nil {
			err = multierr.Append(err, verr)
			continue
		}
		vars = append(vars, v)
	}
	rules := make([]fuzzy.Rule, 0, len(c.Rules))
	for i := range c.Rules {
		r, rerr := c.Rules[i].rule()
		if rerr != nil {
			err = multierr.Append(err, rerr)
			continue
		}
		rules = append(rules, r)
	}
	if err != nil {
		return nil, err
	}

	return fuzzy.NewEngine(vars, rules,
		fuzzy.WithLogger(log),
		fuzzy.WithMethod(method),
		fuzzy.WithSpikePolicy(policy),
	)
}
