package supply

import (
	"math"
	"sort"

	"github.com/nstehr/vimy/supply-core/geom"
	"github.com/nstehr/vimy/supply-core/model"
)

// naturalFront picks cells in front of the natural that cover its wall.
// The hull rule is tried first; the wall band and then the coverage ranking
// take over when the previous rule leaves nothing. Whatever survives is
// narrowed to the cells nearest its own centre.
func (s *Selector) naturalFront(n *model.Expansion) []geom.Point {
	if n == nil || len(n.Front) == 0 {
		return nil
	}

	kept := s.hullCentroid(n)
	if len(kept) == 0 {
		kept = s.wallBand(n)
	}
	if len(kept) == 0 {
		kept = s.wallCoverage(n)
	}

	c, ok := geom.Centroid(kept)
	if !ok {
		return nil
	}
	return geom.NClosest(kept, c, s.tuning.NaturalK)
}

// hullCentroid finds the front cells that touch the hull, takes the ones
// farthest from the town hall, and keeps front cells in a ring around
// their centre that are not hugging the town hall.
func (s *Selector) hullCentroid(n *model.Expansion) []geom.Point {
	if len(n.Hull) == 0 {
		return nil
	}
	t := s.tuning

	var edge []geom.Scored
	for _, p := range n.Front {
		if withinOf(n.Hull, p, t.HullMatch) {
			edge = append(edge, geom.Scored{
				Point: p,
				Score: int(math.Round(geom.Distance(p, n.Anchor))),
			})
		}
	}
	if len(edge) == 0 {
		return nil
	}
	sort.SliceStable(edge, func(i, j int) bool { return edge[i].Score > edge[j].Score })
	if len(edge) > t.HullFarthest {
		edge = edge[:t.HullFarthest]
	}

	far := make([]geom.Point, len(edge))
	for i, e := range edge {
		far[i] = e.Point
	}
	c, _ := geom.Centroid(far)

	return geom.Filter(n.Front, func(p geom.Point) bool {
		return t.HullCentroidBand.Between(p, c) && geom.Distance(p, n.Anchor) > t.NaturalAnchorGap
	})
}

// wallBand keeps front cells whose distance to every wall cell is in band.
func (s *Selector) wallBand(n *model.Expansion) []geom.Point {
	return geom.Filter(n.Front, func(p geom.Point) bool {
		for _, w := range n.Wall {
			if !s.tuning.WallBand.Between(w, p) {
				return false
			}
		}
		return true
	})
}

// wallCoverage scores each front cell by how many wall cells fall in the
// looser coverage band and keeps every cell sharing the best score.
func (s *Selector) wallCoverage(n *model.Expansion) []geom.Point {
	scored := make([]geom.Scored, len(n.Front))
	best := 0
	for i, p := range n.Front {
		cov := 0
		for _, w := range n.Wall {
			if s.tuning.CoverageBand.Between(w, p) {
				cov++
			}
		}
		scored[i] = geom.Scored{Point: p, Score: cov}
		best = max(best, cov)
	}

	var out []geom.Point
	for _, sp := range scored {
		if sp.Score == best {
			out = append(out, sp.Point)
		}
	}
	return out
}

// withinOf reports whether any point of set is at most r from p.
func withinOf(set []geom.Point, p geom.Point, r float64) bool {
	for _, q := range set {
		if geom.Distance(q, p) <= r {
			return true
		}
	}
	return false
}
