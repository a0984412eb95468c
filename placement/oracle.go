// Package placement answers placement queries against the host's
// buildability grid without a round trip to the game.
package placement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/nstehr/vimy/supply-core/geom"
	"github.com/nstehr/vimy/supply-core/model"
)

// ErrNoFootprint is returned for structure types with no registered size.
var ErrNoFootprint = errors.New("no footprint")

// Size is a structure footprint in cells.
type Size struct {
	W, H int
}

var footprints = map[string]Size{
	model.Pylon:       {2, 2},
	model.SupplyDepot: {2, 2},
}

// Oracle checks probes against the most recent grid. The grid is replaced
// wholesale every tick by the connection goroutine.
type Oracle struct {
	mu   sync.RWMutex
	grid *model.PlacementGrid
}

func NewOracle() *Oracle {
	return &Oracle{}
}

// SetGrid stores the grid to check against. A nil grid makes every probe miss.
func (o *Oracle) SetGrid(g *model.PlacementGrid) {
	o.mu.Lock()
	o.grid = g
	o.mu.Unlock()
}

// CanPlace returns the first probe whose footprint lies entirely on
// placeable cells. Probes are checked in the order given.
func (o *Oracle) CanPlace(ctx context.Context, structureType string, pts []geom.Point) (geom.Point, bool, error) {
	size, ok := footprints[strings.ToLower(structureType)]
	if !ok {
		return geom.Point{}, false, fmt.Errorf("%s: %w", structureType, ErrNoFootprint)
	}

	o.mu.RLock()
	grid := o.grid
	o.mu.RUnlock()

	for _, p := range pts {
		if err := ctx.Err(); err != nil {
			return geom.Point{}, false, err
		}
		if grid.Footprint(p.X, p.Y, size.W, size.H) {
			return p, true, nil
		}
	}
	return geom.Point{}, false, nil
}
