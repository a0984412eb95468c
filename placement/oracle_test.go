package placement

import (
	"context"
	"testing"

	"github.com/nstehr/vimy/supply-core/geom"
	"github.com/nstehr/vimy/supply-core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openGrid returns a w x h grid with every cell placeable except blocked.
func openGrid(w, h int, blocked ...[2]int) *model.PlacementGrid {
	cells := make([]byte, w*h)
	for i := range cells {
		cells[i] = 1
	}
	for _, b := range blocked {
		cells[b[1]*w+b[0]] = 0
	}
	return &model.PlacementGrid{Width: w, Height: h, Cells: cells}
}

func TestCanPlaceFirstFit(t *testing.T) {
	o := NewOracle()
	o.SetGrid(openGrid(10, 10, [2]int{4, 4}))

	probes := []geom.Point{
		geom.Pt(5, 5), // covers (4,4) which is blocked
		geom.Pt(0, 0), // hangs off the grid
		geom.Pt(8, 8), // fits
		geom.Pt(2, 2), // also fits, but later
	}
	p, ok, err := o.CanPlace(context.Background(), "Pylon", probes)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, geom.Pt(8, 8), p)
}

func TestCanPlaceMiss(t *testing.T) {
	o := NewOracle()
	o.SetGrid(openGrid(4, 4, [2]int{1, 1}, [2]int{2, 2}))

	_, ok, err := o.CanPlace(context.Background(), model.SupplyDepot, []geom.Point{geom.Pt(2, 2), geom.Pt(1, 1)})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanPlaceWithoutGrid(t *testing.T) {
	o := NewOracle()
	_, ok, err := o.CanPlace(context.Background(), model.Pylon, []geom.Point{geom.Pt(2, 2)})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanPlaceUnknownStructure(t *testing.T) {
	o := NewOracle()
	o.SetGrid(openGrid(4, 4))
	_, _, err := o.CanPlace(context.Background(), "gateway", []geom.Point{geom.Pt(2, 2)})
	assert.ErrorIs(t, err, ErrNoFootprint)
}

func TestCanPlaceCancelled(t *testing.T) {
	o := NewOracle()
	o.SetGrid(openGrid(4, 4))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok, err := o.CanPlace(ctx, model.Pylon, []geom.Point{geom.Pt(2, 2)})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
}
