package rules

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Engine runs compiled rules against the tick's facts.
// Rules are checked in priority order and the first match decides.
type Engine struct {
	rules []*Rule
}

// NewEngine compiles all rule conditions into expr bytecode and sorts by priority.
func NewEngine(rules []*Rule) (*Engine, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &Engine{rules: compiled}, nil
}

// Decide returns the highest-priority rule whose condition holds, or nil
// when none does. A condition that fails at runtime is logged; a failing
// Hold rule still fires, any other failing rule is skipped.
func (e *Engine) Decide(env Env) *Rule {
	for _, r := range e.rules {
		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("rule condition error", "rule", r.Name, "error", err)
			if r.Verdict == Hold {
				return r
			}
			continue
		}
		if match, ok := result.(bool); ok && match {
			slog.Debug("rule fired", "rule", r.Name, "priority", r.Priority, "verdict", r.Verdict)
			return r
		}
	}
	return nil
}

// Rules returns the compiled rules in evaluation order.
func (e *Engine) Rules() []*Rule {
	out := make([]*Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(Env{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}
