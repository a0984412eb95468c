package supply

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/nstehr/vimy/supply-core/geom"
)

// Oracle answers "can this structure go at any of these points right now".
// It returns at most one placeable point; which one is up to the oracle.
type Oracle interface {
	CanPlace(ctx context.Context, structureType string, pts []geom.Point) (geom.Point, bool, error)
}

// Sampler bounds how many candidates are sent to the oracle each tick.
// The shuffle makes every part of a large candidate set reachable over
// repeated ticks.
type Sampler struct {
	rng        *rand.Rand
	probeCount int
}

// NewSampler returns a sampler drawing from a source seeded with seed.
func NewSampler(seed int64, probeCount int) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed)), probeCount: probeCount}
}

// Probe returns a uniformly shuffled copy of candidates truncated to the
// probe count. candidates is left untouched.
func (s *Sampler) Probe(candidates []geom.Point) []geom.Point {
	probe := make([]geom.Point, len(candidates))
	copy(probe, candidates)
	s.rng.Shuffle(len(probe), func(i, j int) { probe[i], probe[j] = probe[j], probe[i] })
	if len(probe) > s.probeCount {
		probe = probe[:s.probeCount]
	}
	return probe
}

// SampleAndValidate probes a random subset of candidates with a single
// oracle call. ok is false when there was nothing to probe or the oracle
// found nothing; neither is an error.
func (s *Sampler) SampleAndValidate(ctx context.Context, oracle Oracle, structureType string, candidates []geom.Point) (p geom.Point, probed int, ok bool, err error) {
	if len(candidates) == 0 {
		return geom.Point{}, 0, false, nil
	}
	probe := s.Probe(candidates)
	p, ok, err = oracle.CanPlace(ctx, structureType, probe)
	if err != nil {
		return geom.Point{}, len(probe), false, fmt.Errorf("can place %s: %w", structureType, err)
	}
	return p, len(probe), ok, nil
}
