package rule

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Set is an ordered list of compiled rules. Rules later in the list see the
// values derived by earlier ones.
type Set struct {
	rules  []Rule
	logger *slog.Logger
}

// NewSet compiles rules in a fresh environment.
func NewSet(rules []Rule, logger *slog.Logger) (*Set, error) {
	if logger == nil {
		logger = slog.Default()
	}
	env, err := NewEnv()
	if err != nil {
		return nil, err
	}
	for i := range rules {
		if err := rules[i].Init(env); err != nil {
			return nil, err
		}
	}
	return &Set{rules: rules, logger: logger}, nil
}

// LoadFromFile reads a YAML list of rules and compiles it.
func LoadFromFile(file string, logger *slog.Logger) (*Set, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return Parse(content, logger)
}

// Parse compiles a YAML list of rules.
func Parse(content []byte, logger *slog.Logger) (*Set, error) {
	var rules []Rule
	if err := yaml.Unmarshal(content, &rules); err != nil {
		return nil, err
	}
	return NewSet(rules, logger)
}

// Len returns the number of rules.
func (s *Set) Len() int {
	return len(s.rules)
}

// Derive applies every rule in order and returns the derived leaf values.
// values is not modified.
func (s *Set) Derive(values map[string]float64) map[string]float64 {
	derived := make(map[string]float64)
	if s == nil || len(s.rules) == 0 {
		return derived
	}

	visible := make(map[string]float64, len(values)+len(s.rules))
	for k, v := range values {
		visible[k] = v
	}

	for i := range s.rules {
		r := &s.rules[i]
		v, ok, err := r.Eval(visible)
		if err != nil {
			s.logger.Warn("rule eval", "error", err, "leaf", r.Leaf)
			continue
		}
		if !ok {
			continue
		}
		derived[r.Leaf] = v
		visible[r.Leaf] = v
	}
	return derived
}
