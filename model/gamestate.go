package model

import (
	"strings"

	"github.com/nstehr/vimy/supply-core/geom"
)

// Alliance values as reported by the host.
const (
	AllianceSelf    = "self"
	AllianceAlly    = "ally"
	AllianceEnemy   = "enemy"
	AllianceNeutral = "neutral"
)

type GameState struct {
	Tick       int            `json:"tick"`
	Player     Player         `json:"player"`
	Affordable []string       `json:"affordable"`
	Structures []Structure    `json:"structures"`
	Units      []Unit         `json:"units"`
	Placement  *PlacementGrid `json:"placement,omitempty"`
}

type Player struct {
	Name       string `json:"name"`
	SupplyUsed int    `json:"supplyUsed"`
	SupplyCap  int    `json:"supplyCap"`
	Minerals   int    `json:"minerals"`
	Vespene    int    `json:"vespene"`
}

// Structure is a building on the map. BuildProgress runs from 0 to 1; hosts
// may leave it out for finished structures, so nil means complete.
type Structure struct {
	ID            int      `json:"id"`
	Type          string   `json:"type"`
	X             float64  `json:"x"`
	Y             float64  `json:"y"`
	Alliance      string   `json:"alliance"`
	BuildProgress *float64 `json:"buildProgress,omitempty"`
}

func (s Structure) Pos() geom.Point { return geom.Pt(s.X, s.Y) }

// InProgress reports whether construction has started but not finished.
func (s Structure) InProgress() bool {
	return s.BuildProgress != nil && *s.BuildProgress < 1
}

type Unit struct {
	ID       int      `json:"id"`
	Type     string   `json:"type"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Alliance string   `json:"alliance"`
	Orders   []string `json:"orders"`
}

// HasOrder reports whether the unit is currently carrying the named order.
func (u Unit) HasOrder(order string) bool {
	for _, o := range u.Orders {
		if strings.EqualFold(o, order) {
			return true
		}
	}
	return false
}

// Own filters structures to those owned by the agent.
func (gs GameState) Own() []Structure {
	var out []Structure
	for _, s := range gs.Structures {
		if strings.EqualFold(s.Alliance, AllianceSelf) {
			out = append(out, s)
		}
	}
	return out
}

// OwnOfType returns own structures matching any of types (case-insensitive).
func (gs GameState) OwnOfType(types ...string) []Structure {
	var out []Structure
	for _, s := range gs.Own() {
		if matchesAny(s.Type, types) {
			out = append(out, s)
		}
	}
	return out
}

// WithOrder counts own units currently carrying the named order.
func (gs GameState) WithOrder(order string) int {
	n := 0
	for _, u := range gs.Units {
		if strings.EqualFold(u.Alliance, AllianceSelf) && u.HasOrder(order) {
			n++
		}
	}
	return n
}

// CanAfford reports whether the host marked the structure type affordable this tick.
func (gs GameState) CanAfford(structureType string) bool {
	return matchesAny(structureType, gs.Affordable)
}

func matchesAny(t string, types []string) bool {
	for _, c := range types {
		if strings.EqualFold(t, c) {
			return true
		}
	}
	return false
}
