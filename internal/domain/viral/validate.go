package viral

import "viralcut/internal/types"

// ValidateBounds forces every candidate's duration into
// [minDuration, maxDuration], treating 0 and transcriptDuration as hard
// timeline walls. The LLM is not trusted to respect the window.
//
// Short clips are extended symmetrically (half the deficit to each side)
// so the original center stays roughly in place; long clips are truncated
// at the tail to preserve the hook. A clip whose extension clamps against
// a timeline wall can still come out under-length; the final window check
// drops it rather than admitting a clip that violates the validator's own
// contract.
func ValidateBounds(clips []types.PotentialClip, transcriptDuration, minDuration, maxDuration float64) []types.PotentialClip {
	validated := make([]types.PotentialClip, 0, len(clips))
	for _, clip := range clips {
		if d := clip.Duration(); d < minDuration {
			deficit := minDuration - d
			clip.Start = max(0, clip.Start-deficit/2)
			clip.End = min(transcriptDuration, clip.End+deficit/2)
		}
		if clip.Duration() > maxDuration {
			clip.End = clip.Start + maxDuration
		}
		if d := clip.Duration(); d >= minDuration && d <= maxDuration {
			validated = append(validated, clip)
		}
	}
	return validated
}
