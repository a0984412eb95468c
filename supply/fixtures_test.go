package supply

import (
	"context"
	"errors"

	"github.com/nstehr/vimy/supply-core/geom"
	"github.com/nstehr/vimy/supply-core/model"
)

// square returns every integer cell in [x0,x1] x [y0,y1], row by row.
func square(x0, y0, x1, y1 int) []geom.Point {
	var out []geom.Point
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			out = append(out, geom.Pt(float64(x), float64(y)))
		}
	}
	return out
}

func row(x0, x1, y int) []geom.Point { return square(x0, y, x1, y) }

func col(x, y0, y1 int) []geom.Point { return square(x, y0, x, y1) }

// testTopology is a three-base map: main at (20,20), natural at (50,20),
// third at (80,50).
func testTopology() *model.Topology {
	return &model.Topology{Expansions: []model.Expansion{
		{
			ID:                "main",
			Anchor:            geom.Pt(20, 20),
			AreaFill:          square(10, 10, 30, 30),
			PlacementGrid:     square(10, 10, 30, 30),
			MineralLine:       row(16, 24, 26),
			BehindMineralLine: square(17, 29, 23, 30),
			Geysers:           []geom.Point{geom.Pt(13, 20)},
		},
		{
			ID:            "natural",
			Anchor:        geom.Pt(50, 20),
			PlacementGrid: square(44, 14, 56, 26),
			Front:         square(53, 14, 60, 26),
			Hull:          col(60, 14, 26),
			Wall:          []geom.Point{geom.Pt(64, 20), geom.Pt(64, 21)},
		},
		{
			ID:                "third",
			Anchor:            geom.Pt(80, 50),
			PlacementGrid:     square(70, 40, 90, 60),
			BehindMineralLine: square(77, 58, 83, 59),
		},
	}}
}

func occupied(topo *model.Topology, ids ...string) []*model.Expansion {
	var out []*model.Expansion
	for _, id := range ids {
		for i := range topo.Expansions {
			if topo.Expansions[i].ID == id {
				out = append(out, &topo.Expansions[i])
			}
		}
	}
	return out
}

func subsetOf(pts, set []geom.Point) bool {
	for _, p := range pts {
		if !geom.Contains(set, p) {
			return false
		}
	}
	return true
}

// fakeOracle accepts the first probe unless told to miss or fail.
type fakeOracle struct {
	calls  int
	probes [][]geom.Point
	miss   bool
	err    error
}

func (o *fakeOracle) CanPlace(_ context.Context, _ string, pts []geom.Point) (geom.Point, bool, error) {
	o.calls++
	cp := make([]geom.Point, len(pts))
	copy(cp, pts)
	o.probes = append(o.probes, cp)
	if o.err != nil {
		return geom.Point{}, false, o.err
	}
	if o.miss || len(pts) == 0 {
		return geom.Point{}, false, nil
	}
	return pts[0], true, nil
}

type build struct {
	structure string
	at        geom.Point
}

type fakeBuilder struct {
	builds []build
	err    error
}

func (b *fakeBuilder) Build(_ context.Context, structureType string, p geom.Point) error {
	if b.err != nil {
		return b.err
	}
	b.builds = append(b.builds, build{structure: structureType, at: p})
	return nil
}

type sliceRecorder struct {
	decisions []Decision
}

func (r *sliceRecorder) Record(d Decision) { r.decisions = append(r.decisions, d) }

var errHost = errors.New("host unavailable")
