package supply

import "math"

const (
	gapPerBase        = 4
	gapSupplyDivisor  = 40.0
	gapBaseSaturation = 4
)

// Gap returns the unspent supply buffer the agent wants to keep. The
// buffer widens with supply used (once past 40) and with base count (up to
// four bases).
func Gap(supplyUsed, baseCount int) int {
	supplyUsed = max(supplyUsed, 0)
	baseCount = max(baseCount, 0)

	supplyMultiplier := math.Max(1, float64(supplyUsed)/gapSupplyDivisor)
	baseMultiplier := min(baseCount, gapBaseSaturation)
	return int(math.Floor(gapPerBase * float64(baseMultiplier) * supplyMultiplier))
}
