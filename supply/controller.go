package supply

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nstehr/vimy/supply-core/geom"
	"github.com/nstehr/vimy/supply-core/model"
	"github.com/nstehr/vimy/supply-core/rules"
)

// Builder issues the build order. A nil error means the host accepted it.
type Builder interface {
	Build(ctx context.Context, structureType string, p geom.Point) error
}

// Recorder receives every decision the controller makes.
type Recorder interface {
	Record(d Decision)
}

// Economy is the host's supply bookkeeping for one tick.
type Economy struct {
	SupplyUsed    int
	SupplyCap     int
	InProgress    int // supply structures under construction
	PendingOrders int // workers with an order to start one
	CanAfford     bool
}

// Facts is everything the controller reads on a tick.
type Facts struct {
	Tick       int
	Economy    Economy
	Bases      int
	Topology   *model.Topology
	Occupied   []*model.Expansion
	Structures []geom.Point // own supply structures, built or queued
}

// Decision is the outcome of one tick.
type Decision struct {
	Tick         int           `json:"tick"`
	Verdict      rules.Verdict `json:"verdict"`
	Rule         string        `json:"rule,omitempty"`
	SupplyUsed   int           `json:"supplyUsed"`
	ProjectedCap int           `json:"projectedCap"`
	Gap          int           `json:"gap"`
	Strategy     Strategy      `json:"strategy,omitempty"`
	Expansion    string        `json:"expansion,omitempty"`
	Candidates   int           `json:"candidates"`
	Probed       int           `json:"probed"`
	Placed       bool          `json:"placed"`
	Point        *geom.Point   `json:"point,omitempty"`
	Progress     int           `json:"progress"`
}

// Controller decides once per tick whether to start a supply structure and
// where. It owns the progress counter that drives the selector's stages.
type Controller struct {
	structure string
	tuning    Tuning
	engine    *rules.Engine
	selector  *Selector
	sampler   *Sampler
	oracle    Oracle
	builder   Builder
	state     StateStore
	recorders []Recorder
}

// Option configures a Controller.
type Option func(*Controller)

// WithStateStore replaces the in-memory state store.
func WithStateStore(s StateStore) Option {
	return func(c *Controller) { c.state = s }
}

// WithRecorders registers decision recorders.
func WithRecorders(r ...Recorder) Option {
	return func(c *Controller) { c.recorders = append(c.recorders, r...) }
}

// NewController builds a controller for one structure type.
func NewController(structureType string, t Tuning, oracle Oracle, builder Builder, opts ...Option) (*Controller, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	engine, err := rules.NewEngine(rules.DefaultRules(t.ExtraHoldConditions...))
	if err != nil {
		return nil, fmt.Errorf("gating rules: %w", err)
	}
	c := &Controller{
		structure: structureType,
		tuning:    t,
		engine:    engine,
		sampler:   NewSampler(t.Seed, t.ProbeCount),
		oracle:    oracle,
		builder:   builder,
		state:     NewMemoryStore(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.selector = NewSelector(t, c.state)

	names := make([]string, 0, len(t.ExtraHoldConditions)+4)
	for _, r := range engine.Rules() {
		names = append(names, r.Name)
	}
	slog.Debug("supply controller ready", "structure", structureType, "rules", names)
	return c, nil
}

// Structure returns the structure type this controller builds.
func (c *Controller) Structure() string { return c.structure }

// Tick runs one decision. State changes only after the builder accepts an
// order; a miss leaves everything as it was for the next tick. Errors come
// from the collaborators and are returned unmasked.
func (c *Controller) Tick(ctx context.Context, f Facts) (Decision, error) {
	progress, err := c.state.Progress(ctx)
	if err != nil {
		return Decision{}, fmt.Errorf("read progress: %w", err)
	}

	eco := f.Economy
	projected := eco.SupplyCap + c.tuning.SupplyPerStructure*(eco.InProgress+eco.PendingOrders)
	env := rules.Env{
		Tick:          f.Tick,
		SupplyUsed:    eco.SupplyUsed,
		SupplyCap:     eco.SupplyCap,
		InProgress:    eco.InProgress,
		PendingOrders: eco.PendingOrders,
		ProjectedCap:  projected,
		Gap:           Gap(eco.SupplyUsed, f.Bases),
		Bases:         f.Bases,
		CanAfford:     eco.CanAfford,
		MaxSupply:     c.tuning.MaxSupply,
		Progress:      progress,
	}

	d := Decision{
		Tick:         f.Tick,
		Verdict:      rules.Idle,
		SupplyUsed:   eco.SupplyUsed,
		ProjectedCap: projected,
		Gap:          env.Gap,
		Progress:     progress,
	}

	r := c.engine.Decide(env)
	if r != nil {
		d.Rule = r.Name
		d.Verdict = r.Verdict
	}
	if d.Verdict != rules.Build {
		c.record(d)
		return d, nil
	}

	sel, err := c.selector.Select(ctx, View{
		Topology:   f.Topology,
		Occupied:   f.Occupied,
		Structures: f.Structures,
		Stage:      progress,
	})
	if err != nil {
		return d, fmt.Errorf("select candidates: %w", err)
	}
	d.Strategy = sel.Strategy
	d.Expansion = sel.Expansion
	d.Candidates = len(sel.Candidates)

	p, probed, ok, err := c.sampler.SampleAndValidate(ctx, c.oracle, c.structure, sel.Candidates)
	d.Probed = probed
	if err != nil {
		return d, err
	}
	if !ok {
		slog.Debug("no supply placement found",
			"tick", f.Tick, "strategy", sel.Strategy, "candidates", len(sel.Candidates), "probed", probed)
		c.record(d)
		return d, nil
	}

	if err := c.builder.Build(ctx, c.structure, p); err != nil {
		return d, fmt.Errorf("build %s at (%.1f, %.1f): %w", c.structure, p.X, p.Y, err)
	}
	progress, err = c.state.Advance(ctx)
	if err != nil {
		return d, fmt.Errorf("advance progress: %w", err)
	}

	d.Placed = true
	d.Point = &p
	d.Progress = progress
	slog.Info("supply structure ordered",
		"tick", f.Tick,
		"structure", c.structure,
		"x", p.X, "y", p.Y,
		"strategy", sel.Strategy,
		"expansion", sel.Expansion,
		"supply", fmt.Sprintf("%d/%d", eco.SupplyUsed, projected),
		"gap", env.Gap,
		"progress", progress,
	)
	c.record(d)
	return d, nil
}

func (c *Controller) record(d Decision) {
	for _, r := range c.recorders {
		r.Record(d)
	}
}
