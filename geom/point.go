package geom

import (
	"math"
	"sort"
)

// Epsilon is the tolerance used by AreEqual. Map cells sit on a half-unit
// grid, so anything closer than this is the same cell.
const Epsilon = 0.05

// Point is a 2D map coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Scored decorates a point with a transient score (coverage count, rounded
// distance) while it is being ranked. The score never leaves the ranking step.
type Scored struct {
	Point
	Score int
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// AreEqual reports whether a and b are the same point within Epsilon.
func AreEqual(a, b Point) bool {
	return math.Abs(a.X-b.X) < Epsilon && math.Abs(a.Y-b.Y) < Epsilon
}

// Centroid returns the mean of pts. ok is false for an empty set.
func Centroid(pts []Point) (c Point, ok bool) {
	if len(pts) == 0 {
		return Point{}, false
	}
	for _, p := range pts {
		c.X += p.X
		c.Y += p.Y
	}
	n := float64(len(pts))
	return Point{X: c.X / n, Y: c.Y / n}, true
}

// NClosest returns the n points of pts nearest to target, nearest first.
// Ties keep their input order. pts is not modified.
func NClosest(pts []Point, target Point, n int) []Point {
	if n <= 0 || len(pts) == 0 {
		return nil
	}
	sorted := make([]Point, len(pts))
	copy(sorted, pts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Distance(sorted[i], target) < Distance(sorted[j], target)
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// Contains reports whether set has a point equal to p.
func Contains(set []Point, p Point) bool {
	for _, q := range set {
		if AreEqual(q, p) {
			return true
		}
	}
	return false
}

// Near reports whether any point of set is strictly closer than r to p.
func Near(set []Point, p Point, r float64) bool {
	for _, q := range set {
		if Distance(q, p) < r {
			return true
		}
	}
	return false
}

// Filter returns the points of pts for which keep is true, in order.
func Filter(pts []Point, keep func(Point) bool) []Point {
	var out []Point
	for _, p := range pts {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
