package viral

import "viralcut/internal/types"

// Rubric weights. Hook strength dominates because the first seconds
// decide whether a viewer keeps watching; the four weights sum to 1.0.
const (
	weightHook         = 0.30
	weightEmotional    = 0.25
	weightShareability = 0.25
	weightCompleteness = 0.20
)

// TotalScore collapses the four sub-scores into a single ranking value
// in [0,10].
func TotalScore(s types.ViralScore) float64 {
	return float64(s.HookStrength)*weightHook +
		float64(s.EmotionalImpact)*weightEmotional +
		float64(s.Shareability)*weightShareability +
		float64(s.Completeness)*weightCompleteness
}

func clampInt(x, a, b int) int {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}
