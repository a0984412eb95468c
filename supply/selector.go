package supply

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nstehr/vimy/supply-core/geom"
	"github.com/nstehr/vimy/supply-core/model"
)

// Strategy names the candidate generator that produced a selection.
type Strategy string

const (
	StrategyMainCluster       Strategy = "main_cluster"
	StrategyNaturalFront      Strategy = "natural_front"
	StrategySuperPylon        Strategy = "super_pylon"
	StrategyBehindMineralLine Strategy = "behind_mineral_line"
	StrategyFallback          Strategy = "fallback"
)

// View is what the selector needs to know about the world this tick.
type View struct {
	Topology   *model.Topology
	Occupied   []*model.Expansion // own expansions, topology order
	Structures []geom.Point       // own supply structures, built or queued
	Stage      int                // controller progress counter
}

// Selection is the selector's answer. Candidates may be empty; that means
// there is nowhere to try this tick.
type Selection struct {
	Strategy   Strategy
	Expansion  string
	Candidates []geom.Point
}

// Selector picks a placement strategy from the build progress and returns
// its candidate cells.
type Selector struct {
	tuning Tuning
	state  StateStore
}

func NewSelector(t Tuning, state StateStore) *Selector {
	return &Selector{tuning: t, state: state}
}

// Select walks the stages in priority order and returns the first that
// applies. The behind-mineral-line branch labels its expansion as attempted
// before generating candidates, so each expansion gets exactly one try.
func (s *Selector) Select(ctx context.Context, v View) (Selection, error) {
	main, natural := v.Topology.Main(), v.Topology.Natural()

	switch v.Stage {
	case 0:
		return Selection{
			Strategy:   StrategyMainCluster,
			Expansion:  expansionID(main),
			Candidates: s.mainCluster(main),
		}, nil
	case 1:
		return Selection{
			Strategy:   StrategyNaturalFront,
			Expansion:  expansionID(natural),
			Candidates: s.naturalFront(natural),
		}, nil
	}

	if e := s.needsSuperPylon(v); e != nil {
		return Selection{
			Strategy:   StrategySuperPylon,
			Expansion:  e.ID,
			Candidates: s.superPylon(e),
		}, nil
	}

	e, err := s.needsBehindMineralLine(ctx, v)
	if err != nil {
		return Selection{}, err
	}
	if e != nil {
		if err := s.state.MarkAttempted(ctx, e.ID); err != nil {
			return Selection{}, fmt.Errorf("mark %s attempted: %w", e.ID, err)
		}
		slog.Debug("behind-mineral-line attempt", "expansion", e.ID)
		return Selection{
			Strategy:   StrategyBehindMineralLine,
			Expansion:  e.ID,
			Candidates: s.behindMineralLine(e),
		}, nil
	}

	var all []geom.Point
	if main != nil {
		all = append(all, main.PlacementGrid...)
	}
	if natural != nil {
		all = append(all, natural.PlacementGrid...)
	}
	return Selection{Strategy: StrategyFallback, Candidates: all}, nil
}

// mainCluster keeps fill cells close to the main's town hall but clear of
// the mineral line and the geysers.
func (s *Selector) mainCluster(main *model.Expansion) []geom.Point {
	if main == nil {
		return nil
	}
	t := s.tuning
	return geom.Filter(main.AreaFill, func(p geom.Point) bool {
		return geom.Distance(p, main.Anchor) <= t.MainRadius &&
			clearOf(main.MineralLine, p, t.MineralClearance) &&
			clearOf(main.Geysers, p, t.GeyserClearance)
	})
}

// needsSuperPylon returns the first occupied expansion with no own supply
// structure covering its town hall.
func (s *Selector) needsSuperPylon(v View) *model.Expansion {
	for _, e := range v.Occupied {
		if !geom.Near(v.Structures, e.Anchor, s.tuning.SuperPylonRadius) {
			return e
		}
	}
	return nil
}

func (s *Selector) superPylon(e *model.Expansion) []geom.Point {
	return geom.Filter(e.PlacementGrid, func(p geom.Point) bool {
		return s.tuning.SuperPylonBand.Between(p, e.Anchor)
	})
}

// needsBehindMineralLine returns the first occupied expansion without a
// supply structure behind its mineral line that has not been tried yet.
func (s *Selector) needsBehindMineralLine(ctx context.Context, v View) (*model.Expansion, error) {
	for _, e := range v.Occupied {
		if hasStructureOn(v.Structures, e.BehindMineralLine) {
			continue
		}
		attempted, err := s.state.Attempted(ctx, e.ID)
		if err != nil {
			return nil, fmt.Errorf("read %s attempted: %w", e.ID, err)
		}
		if !attempted {
			return e, nil
		}
	}
	return nil, nil
}

func (s *Selector) behindMineralLine(e *model.Expansion) []geom.Point {
	c, ok := geom.Centroid(e.BehindMineralLine)
	if !ok {
		return nil
	}
	return geom.Filter(e.BehindMineralLine, func(p geom.Point) bool {
		return geom.Distance(p, c) < s.tuning.BMLRadius
	})
}

// clearOf reports whether every point of set is farther than r from p.
func clearOf(set []geom.Point, p geom.Point, r float64) bool {
	for _, q := range set {
		if geom.Distance(q, p) <= r {
			return false
		}
	}
	return true
}

func hasStructureOn(structures, cells []geom.Point) bool {
	for _, s := range structures {
		if geom.Contains(cells, s) {
			return true
		}
	}
	return false
}

func expansionID(e *model.Expansion) string {
	if e == nil {
		return ""
	}
	return e.ID
}
