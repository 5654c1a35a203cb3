package rule

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// Rule derives the value of one leaf from the values an alternative already has.
// When is an optional CEL condition; Then is the CEL expression producing the
// value. Both see the attributes as `values`, a map(string, double).
type Rule struct {
	// Leaf is the id of the leaf receiving the derived value.
	Leaf string `yaml:"leaf"`
	// When must evaluate to a bool. An empty condition always applies.
	When string `yaml:"when"`
	// Then must evaluate to a double or an int.
	Then string `yaml:"then"`

	when cel.Program
	then cel.Program
}

// NewEnv returns the CEL environment rules are compiled against.
func NewEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("values", cel.MapType(cel.StringType, cel.DoubleType)),
	)
}

// Init compiles When and Then in env.
func (r *Rule) Init(env *cel.Env) error {
	if r.Leaf == "" {
		return fmt.Errorf("rule: leaf is required")
	}

	if r.When != "" {
		prg, err := compile(env, r.When, cel.BoolType)
		if err != nil {
			return fmt.Errorf("rule %s: when: %w", r.Leaf, err)
		}
		r.when = prg
	}

	prg, err := compile(env, r.Then, cel.DoubleType, cel.IntType)
	if err != nil {
		return fmt.Errorf("rule %s: then: %w", r.Leaf, err)
	}
	r.then = prg
	return nil
}

// Eval runs the rule against values. ok is false when the condition does not hold
// or evaluation failed (a referenced attribute is absent, division by zero). A
// failed rule never interrupts scoring; err only describes why it was skipped.
func (r *Rule) Eval(values map[string]float64) (value float64, ok bool, err error) {
	if r.then == nil {
		return 0, false, fmt.Errorf("rule %s is not initialized", r.Leaf)
	}
	if values == nil {
		values = map[string]float64{}
	}
	vars := map[string]any{"values": values}

	if r.when != nil {
		out, _, err := r.when.Eval(vars)
		if err != nil {
			return 0, false, err
		}
		if out.Value() != true {
			return 0, false, nil
		}
	}

	out, _, err := r.then.Eval(vars)
	if err != nil {
		return 0, false, err
	}
	switch v := out.Value().(type) {
	case float64:
		return v, true, nil
	case int64:
		return float64(v), true, nil
	default:
		return 0, false, fmt.Errorf("rule %s: unexpected result %T", r.Leaf, v)
	}
}

func compile(env *cel.Env, expr string, want ...*cel.Type) (cel.Program, error) {
	ast, iss := env.Parse(expr)
	if iss.Err() != nil {
		return nil, iss.Err()
	}

	checked, iss := env.Check(ast)
	if iss.Err() != nil {
		return nil, iss.Err()
	}

	out := checked.OutputType()
	matched := false
	for _, t := range want {
		if out.IsExactType(t) {
			matched = true
			break
		}
	}
	if !matched {
		return nil, fmt.Errorf("expression %q has type %s", expr, out)
	}

	return env.Program(checked)
}
