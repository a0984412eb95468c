package supply

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGapExamples(t *testing.T) {
	tests := []struct {
		supply, bases, want int
	}{
		{0, 1, 4},
		{13, 1, 4},
		{80, 1, 8},
		{0, 4, 16},
		{0, 10, 16},
		{100, 2, 20},
		{0, 0, 0},
		{-5, -1, 0},
	}
	for _, tc := range tests {
		if got := Gap(tc.supply, tc.bases); got != tc.want {
			t.Errorf("Gap(%d, %d) = %d, want %d", tc.supply, tc.bases, got, tc.want)
		}
	}
}

func TestGapMonotonicInSupply(t *testing.T) {
	for bases := 0; bases <= 6; bases++ {
		prev := Gap(0, bases)
		for supply := 1; supply <= 200; supply++ {
			g := Gap(supply, bases)
			assert.GreaterOrEqual(t, g, prev, "bases=%d supply=%d", bases, supply)
			prev = g
		}
	}
}

func TestGapSaturatesInBases(t *testing.T) {
	for _, supply := range []int{0, 39, 40, 77, 150, 200} {
		prev := Gap(supply, 0)
		for bases := 1; bases <= 10; bases++ {
			g := Gap(supply, bases)
			assert.GreaterOrEqual(t, g, prev)
			if bases > 4 {
				assert.Equal(t, Gap(supply, 4), g, "supply=%d bases=%d", supply, bases)
			}
			prev = g
		}
	}
}
