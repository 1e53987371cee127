package viral

import (
	"encoding/json"
	"strings"

	"viralcut/internal/types"
)

const defaultSubScore = 5

// rawClip mirrors the response schema the prompt asks for. Pointer fields
// distinguish "absent" from zero values so defaults can be applied.
type rawClip struct {
	Start            float64   `json:"start"`
	End              float64   `json:"end"`
	Transcript       string    `json:"transcript"`
	Scores           rawScores `json:"scores"`
	ViralFactor      *string   `json:"viral_factor"`
	Reason           string    `json:"reason"`
	SuggestedCaption string    `json:"suggested_caption"`
}

type rawScores struct {
	HookStrength    *int `json:"hook_strength"`
	EmotionalImpact *int `json:"emotional_impact"`
	Shareability    *int `json:"shareability"`
	Completeness    *int `json:"completeness"`
}

// ParseResponse converts a free-text LLM reply into candidate clips.
// Models wrap the JSON in prose, markdown fences or a {"clips": [...]}
// object; all of that is tolerated. A reply with no usable JSON yields an
// empty slice, never an error: the caller decides what "no clips" means.
// maxDuration is the transcript duration and caps every end time.
func ParseResponse(text string, maxDuration float64) []types.PotentialClip {
	arr := extractClipArray(text)
	if arr == nil {
		return nil
	}

	clips := make([]types.PotentialClip, 0, len(arr))
	for _, raw := range arr {
		var item rawClip
		if err := json.Unmarshal(raw, &item); err != nil {
			// One malformed item must not poison the rest.
			continue
		}
		clip, ok := buildClip(item, maxDuration)
		if !ok {
			continue
		}
		clips = append(clips, clip)
	}
	return clips
}

func buildClip(item rawClip, maxDuration float64) (types.PotentialClip, bool) {
	start := item.Start
	end := item.End
	if start < 0 {
		start = 0
	}
	if end > maxDuration {
		end = maxDuration
	}
	if end <= start {
		return types.PotentialClip{}, false
	}

	factor := "Unknown"
	if item.ViralFactor != nil {
		factor = *item.ViralFactor
	}

	return types.PotentialClip{
		Start:      start,
		End:        end,
		Transcript: item.Transcript,
		Score: types.ViralScore{
			HookStrength:    subScore(item.Scores.HookStrength),
			EmotionalImpact: subScore(item.Scores.EmotionalImpact),
			Shareability:    subScore(item.Scores.Shareability),
			Completeness:    subScore(item.Scores.Completeness),
		},
		Reason:           item.Reason,
		ViralFactor:      factor,
		SuggestedCaption: item.SuggestedCaption,
	}, true
}

func subScore(v *int) int {
	if v == nil {
		return defaultSubScore
	}
	return clampInt(*v, 0, 10)
}

// extractClipArray locates the clip array inside arbitrary surrounding
// text. Preference order: first balanced top-level JSON array, then a
// JSON object carrying a "clips" array.
func extractClipArray(text string) []json.RawMessage {
	t := stripFences(text)

	if s := balancedSlice(t, '[', ']'); s != "" {
		var arr []json.RawMessage
		if err := json.Unmarshal([]byte(s), &arr); err == nil {
			return arr
		}
	}

	if s := balancedSlice(t, '{', '}'); s != "" {
		var wrapper struct {
			Clips []json.RawMessage `json:"clips"`
		}
		if err := json.Unmarshal([]byte(s), &wrapper); err == nil {
			return wrapper.Clips
		}
	}
	return nil
}

func stripFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	if i := strings.Index(t, "\n"); i >= 0 {
		t = t[i+1:]
	}
	if j := strings.LastIndex(t, "```"); j >= 0 {
		t = t[:j]
	}
	return strings.TrimSpace(t)
}

// balancedSlice returns the substring from the first `open` to its
// matching `close`, skipping brackets inside JSON strings. Models often
// prepend and append commentary, so a non-greedy regex is not enough; a
// depth scan from the first opener is.
func balancedSlice(s string, open, close byte) string {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	// Unterminated scan: fall back to the last closer in the text.
	if end := strings.LastIndexByte(s, close); end > start {
		return s[start : end+1]
	}
	return ""
}
