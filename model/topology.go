package model

import "github.com/nstehr/vimy/supply-core/geom"

// occupiedTolerance is how far a town hall may sit from an expansion anchor
// and still be counted as occupying it.
const occupiedTolerance = 1.0

// Expansion is a base site. All cell sets are read-only to the engine.
type Expansion struct {
	ID                string       `json:"id"`
	Anchor            geom.Point   `json:"anchor"`
	AreaFill          []geom.Point `json:"areaFill"`
	PlacementGrid     []geom.Point `json:"placementGrid"`
	MineralLine       []geom.Point `json:"mineralLine"`
	BehindMineralLine []geom.Point `json:"behindMineralLine"`
	Geysers           []geom.Point `json:"geysers"`
	Front             []geom.Point `json:"front"`
	Wall              []geom.Point `json:"wall"`
	Hull              []geom.Point `json:"hull"`
}

// Topology is the static map description sent once with the hello.
// Expansions are ordered main first, natural second.
type Topology struct {
	Expansions []Expansion `json:"expansions"`
}

// Main returns the starting expansion, or nil when the topology is empty.
func (t *Topology) Main() *Expansion {
	if t == nil || len(t.Expansions) == 0 {
		return nil
	}
	return &t.Expansions[0]
}

// Natural returns the second expansion, or nil when there is none.
func (t *Topology) Natural() *Expansion {
	if t == nil || len(t.Expansions) < 2 {
		return nil
	}
	return &t.Expansions[1]
}

// Occupied returns the expansions with one of townHalls on their anchor, in
// topology order.
func (t *Topology) Occupied(townHalls []geom.Point) []*Expansion {
	if t == nil {
		return nil
	}
	var out []*Expansion
	for i := range t.Expansions {
		e := &t.Expansions[i]
		if geom.Near(townHalls, e.Anchor, occupiedTolerance) {
			out = append(out, e)
		}
	}
	return out
}
