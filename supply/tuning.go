package supply

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nstehr/vimy/supply-core/geom"
)

// ErrInvalidTuning is wrapped by every Validate failure.
var ErrInvalidTuning = errors.New("invalid tuning")

// Tuning holds the placement thresholds. The numbers come from play
// testing, not from a formula; change them only with games to back it up.
type Tuning struct {
	// Main cluster (first structure).
	MainRadius       float64 `yaml:"main_radius"`
	MineralClearance float64 `yaml:"mineral_clearance"`
	GeyserClearance  float64 `yaml:"geyser_clearance"`

	// Natural front (second structure).
	HullMatch         float64   `yaml:"hull_match"`
	HullFarthest      int       `yaml:"hull_farthest"`
	HullCentroidBand  geom.Band `yaml:"hull_centroid_band"`
	NaturalAnchorGap  float64   `yaml:"natural_anchor_gap"`
	WallBand          geom.Band `yaml:"wall_band"`
	CoverageBand      geom.Band `yaml:"coverage_band"`
	NaturalK          int       `yaml:"natural_k"`

	// Later structures.
	SuperPylonRadius float64   `yaml:"super_pylon_radius"`
	SuperPylonBand   geom.Band `yaml:"super_pylon_band"`
	BMLRadius        float64   `yaml:"bml_radius"`

	// Sampling and gating.
	ProbeCount          int      `yaml:"probe_count"`
	MaxSupply           int      `yaml:"max_supply"`
	SupplyPerStructure  int      `yaml:"supply_per_structure"`
	Seed                int64    `yaml:"seed"`
	ExtraHoldConditions []string `yaml:"extra_hold_conditions"`
}

// DefaultTuning returns the thresholds the engine ships with.
func DefaultTuning() Tuning {
	return Tuning{
		MainRadius:       6.5,
		MineralClearance: 2,
		GeyserClearance:  3,

		HullMatch:        0.5,
		HullFarthest:     4,
		HullCentroidBand: geom.Band{Min: 2, Max: 6, Open: true},
		NaturalAnchorGap: 4,
		WallBand:         geom.Band{Min: 3, Max: 6.5},
		CoverageBand:     geom.Band{Min: 1, Max: 6.5},
		NaturalK:         12,

		SuperPylonRadius: 6.5,
		SuperPylonBand:   geom.Band{Min: 3.5, Max: 6.5, Open: true},
		BMLRadius:        5,

		ProbeCount:         20,
		MaxSupply:          200,
		SupplyPerStructure: 8,
		Seed:               1,
	}
}

// LoadTuning reads a YAML tuning file on top of DefaultTuning. Keys that
// are absent keep their defaults.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tuning: %w", err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// Validate rejects tunings the engine cannot run with.
func (t Tuning) Validate() error {
	switch {
	case t.ProbeCount <= 0:
		return fmt.Errorf("probe_count must be > 0: %w", ErrInvalidTuning)
	case t.NaturalK <= 0:
		return fmt.Errorf("natural_k must be > 0: %w", ErrInvalidTuning)
	case t.HullFarthest <= 0:
		return fmt.Errorf("hull_farthest must be > 0: %w", ErrInvalidTuning)
	case t.MaxSupply <= 0 || t.SupplyPerStructure <= 0:
		return fmt.Errorf("max_supply and supply_per_structure must be > 0: %w", ErrInvalidTuning)
	case t.MainRadius <= 0 || t.SuperPylonRadius <= 0 || t.BMLRadius <= 0:
		return fmt.Errorf("radii must be > 0: %w", ErrInvalidTuning)
	}
	bands := map[string]geom.Band{
		"hull_centroid_band": t.HullCentroidBand,
		"wall_band":          t.WallBand,
		"coverage_band":      t.CoverageBand,
		"super_pylon_band":   t.SuperPylonBand,
	}
	for name, b := range bands {
		if !b.Valid() {
			return fmt.Errorf("%s [%v, %v] is empty: %w", name, b.Min, b.Max, ErrInvalidTuning)
		}
	}
	return nil
}
