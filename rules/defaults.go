package rules

import "fmt"

// Rule names of the built-in gating set.
const (
	RuleSupplyCeiling = "supply-ceiling"
	RuleOrderPending  = "build-order-pending"
	RuleCannotAfford  = "cannot-afford"
	RuleBufferLow     = "supply-buffer-low"
)

// DefaultRules returns the gating rule set. Extra hold conditions are
// slotted below the supply ceiling and above every other rule, so they can
// only ever suppress a build.
func DefaultRules(extraHolds ...string) []*Rule {
	rules := []*Rule{
		{
			Name:         RuleSupplyCeiling,
			Priority:     1000,
			ConditionSrc: `ProjectedCap >= MaxSupply`,
			Verdict:      Hold,
		},
		{
			Name:         RuleOrderPending,
			Priority:     900,
			ConditionSrc: `PendingOrders > 0`,
			Verdict:      Hold,
		},
		{
			Name:         RuleCannotAfford,
			Priority:     850,
			ConditionSrc: `!CanAfford`,
			Verdict:      Hold,
		},
		{
			Name:         RuleBufferLow,
			Priority:     800,
			ConditionSrc: `ProjectedCap - SupplyUsed < Gap`,
			Verdict:      Build,
		},
	}

	for i, src := range extraHolds {
		rules = append(rules, &Rule{
			Name:         fmt.Sprintf("hold-%d", i+1),
			Priority:     950,
			ConditionSrc: src,
			Verdict:      Hold,
		})
	}
	return rules
}
