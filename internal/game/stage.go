package game

import "math"

// Stage maps the growth metric to a discrete stage. Stages 1..len(table) come
// from the threshold table; past the last threshold the progression continues
// geometrically with stageGrowthFactor per stage. The epsilon guards exact
// threshold multiples against floating-point truncation.
func Stage(thighCm float64) int {
	if thighCm < stageThresholds[0] {
		return 1
	}

	maxIdx := len(stageThresholds) - 1
	maxThreshold := stageThresholds[maxIdx]

	if thighCm < maxThreshold {
		stage := 1
		for i, threshold := range stageThresholds {
			if thighCm >= threshold {
				stage = i + 1
			} else {
				break
			}
		}
		return stage
	}

	extra := int(math.Floor(math.Log(thighCm/maxThreshold)/math.Log(stageGrowthFactor) + stageEpsilon))
	if extra < 0 {
		extra = 0
	}
	return len(stageThresholds) + extra
}
