package viral

import (
	"context"
	"fmt"
	"sort"

	"viralcut/internal/ports"
	"viralcut/internal/types"
)

const (
	detectTemperature = 0.7
	detectMaxTokens   = 4096
)

// Detector turns a transcript into a ranked, size-limited list of
// candidate clips using a single LLM round trip.
type Detector struct {
	llm ports.LLM
}

func NewDetector(llm ports.LLM) Detector { return Detector{llm: llm} }

// Detect runs one detection pass and blocks until the provider call
// resolves or ctx is cancelled. Exactly one LLM attempt is made; a
// provider error propagates because no analysis is possible without a
// response. An empty result is valid and means "no viral moments found".
//
// Post-processing order matters: validation can drop candidates, and
// those drops must happen before the list is truncated to numClips,
// otherwise fewer clips than requested could be returned while valid
// candidates existed.
func (d Detector) Detect(ctx context.Context, tr types.TranscriptResult, numClips int, minDuration, maxDuration float64) ([]types.PotentialClip, error) {
	prompt := buildAnalysisPrompt(FormatTranscript(tr), numClips, minDuration, maxDuration, tr.Language)

	response, err := d.llm.Generate(ctx, prompt, systemPrompt, detectTemperature, detectMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("llm generate: %w", err)
	}

	clips := ParseResponse(response, tr.Duration)
	clips = ValidateBounds(clips, tr.Duration, minDuration, maxDuration)

	sort.SliceStable(clips, func(i, j int) bool {
		return TotalScore(clips[i].Score) > TotalScore(clips[j].Score)
	})

	if len(clips) > numClips {
		clips = clips[:numClips]
	}
	return clips, nil
}
