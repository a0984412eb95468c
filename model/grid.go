package model

import "math"

// PlacementGrid is the host's buildability bitmap for the current tick.
// Each cell is one map unit; a nonzero byte means a structure may cover it.
type PlacementGrid struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Cells  []byte `json:"cells"` // row-major: Cells[y*Width + x]
}

// At reports whether the cell (x, y) is placeable.
// Out-of-bounds cells are never placeable.
func (g *PlacementGrid) At(x, y int) bool {
	if g == nil || x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return false
	}
	i := y*g.Width + x
	if i >= len(g.Cells) {
		return false
	}
	return g.Cells[i] != 0
}

// Footprint reports whether a w x h footprint centred on (cx, cy) lies
// entirely on placeable cells. Even sizes are centred on a cell corner,
// odd sizes on a cell centre.
func (g *PlacementGrid) Footprint(cx, cy float64, w, h int) bool {
	if w <= 0 || h <= 0 {
		return false
	}
	xMin, yMin := FootprintOrigin(cx, cy, w, h)
	for y := yMin; y < yMin+h; y++ {
		for x := xMin; x < xMin+w; x++ {
			if !g.At(x, y) {
				return false
			}
		}
	}
	return true
}

// FootprintOrigin returns the lower-left cell covered by a w x h footprint
// centred on (cx, cy).
func FootprintOrigin(cx, cy float64, w, h int) (int, int) {
	return int(math.Floor(cx - float64(w)/2 + 0.5)), int(math.Floor(cy - float64(h)/2 + 0.5))
}

// Placeable returns the number of placeable cells in the grid.
func (g *PlacementGrid) Placeable() int {
	if g == nil {
		return 0
	}
	n := 0
	for _, c := range g.Cells {
		if c != 0 {
			n++
		}
	}
	return n
}
