package geom

// Band is a distance range. Open bands exclude both ends.
type Band struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Open bool    `yaml:"open"`
}

// Contains reports whether d falls inside the band.
func (b Band) Contains(d float64) bool {
	if b.Open {
		return d > b.Min && d < b.Max
	}
	return d >= b.Min && d <= b.Max
}

// Between reports whether the distance from p to q falls inside the band.
func (b Band) Between(p, q Point) bool {
	return b.Contains(Distance(p, q))
}

// Valid reports whether the band is non-empty.
func (b Band) Valid() bool {
	return b.Min >= 0 && b.Max > b.Min
}
