package rules

import "github.com/expr-lang/expr/vm"

// Verdict is what a fired rule tells the controller to do this tick.
type Verdict string

const (
	Idle  Verdict = "idle"  // no rule matched
	Hold  Verdict = "hold"  // a blocking condition holds; do not build
	Build Verdict = "build" // attempt a placement this tick
)

// Rule is a condition → verdict pair. The engine evaluates rules by
// priority and the first one whose condition is true decides the tick.
type Rule struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = evaluated first
	ConditionSrc string      // expr source (preserved for logging)
	Verdict      Verdict
	program      *vm.Program // compiled bytecode
}
