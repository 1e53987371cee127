package viral

import (
	"fmt"
	"strings"

	"viralcut/internal/types"
)

const systemPrompt = `You are an expert social media content strategist specializing in viral video content analysis.
Your task is to analyze video transcripts and identify segments that have high viral potential for platforms like TikTok, Instagram Reels, and YouTube Shorts.

When analyzing content, consider these viral factors:
1. **Hook Strength** - Does it grab attention in the first 3 seconds? Strong hooks include surprising statements, controversial opinions, or intriguing questions.
2. **Emotional Impact** - Does it evoke strong emotions (surprise, joy, anger, inspiration, curiosity)?
3. **Shareability** - Would people want to share this with friends? Does it provide social currency?
4. **Controversy/Debate** - Does it spark discussion or have a hot take?
5. **Educational Value** - Does it teach something valuable in a quick, digestible way?
6. **Entertainment** - Is it genuinely funny, entertaining, or satisfying to watch?
7. **Relatability** - Can the audience see themselves in this? Does it tap into shared experiences?
8. **Story Completeness** - Can the segment stand alone as a complete clip with beginning, middle, and end?

You must respond with valid JSON only. No markdown, no explanations outside the JSON.`

func buildAnalysisPrompt(transcript string, numClips int, minDuration, maxDuration float64, language string) string {
	return fmt.Sprintf(`Analyze the following video transcript and identify the top %d segments that could go viral on social media.

REQUIREMENTS:
- Each clip must be between %.0f and %.0f seconds long
- Clips should not overlap significantly
- Prioritize segments with the strongest viral potential
- Consider the language context: %s

TRANSCRIPT:
%s

Respond with a JSON array containing exactly %d clips. Each clip must have this exact structure:
{
    "start": <start time in seconds as float>,
    "end": <end time in seconds as float>,
    "transcript": "<exact text from the segment>",
    "scores": {
        "hook_strength": <0-10>,
        "emotional_impact": <0-10>,
        "shareability": <0-10>,
        "completeness": <0-10>
    },
    "viral_factor": "<primary viral factor from the list>",
    "reason": "<brief explanation of why this could go viral>",
    "suggested_caption": "<catchy caption for social media>"
}

Return ONLY the JSON array, no other text.`,
		numClips, minDuration, maxDuration, language, transcript, numClips)
}

// FormatTranscript renders segments one per line as
// "[MM:SS] [speaker] text" for the analysis prompt. The speaker tag is
// omitted when the transcriber produced none.
func FormatTranscript(tr types.TranscriptResult) string {
	var b strings.Builder
	for i, seg := range tr.Segments {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("[" + formatTimestamp(seg.Start) + "] ")
		if seg.Speaker != "" {
			b.WriteString("[" + seg.Speaker + "] ")
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

func formatTimestamp(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
