package rules

// Env is the per-tick fact sheet rule conditions are evaluated against.
// Field names are the identifiers available inside expr conditions.
type Env struct {
	Tick          int
	SupplyUsed    int
	SupplyCap     int
	InProgress    int // supply structures under construction
	PendingOrders int // workers walking to start one
	ProjectedCap  int
	Gap           int
	Bases         int
	CanAfford     bool
	MaxSupply     int
	Progress      int // supply structures this controller has started
}

// Buffer is the unspent projected supply.
func (e Env) Buffer() int {
	return e.ProjectedCap - e.SupplyUsed
}
