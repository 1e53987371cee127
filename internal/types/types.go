package types

// TranscriberType selects a transcription backend.
type TranscriberType string

const (
	TranscriberWhisper    TranscriberType = "whisper"
	TranscriberAssemblyAI TranscriberType = "assemblyai"
)

// LLMProviderType selects an LLM backend.
type LLMProviderType string

const (
	ProviderOllama     LLMProviderType = "ollama"
	ProviderOpenAI     LLMProviderType = "openai"
	ProviderOpenRouter LLMProviderType = "openrouter"
)

// TranscriptSegment is a single timed span of transcribed speech.
// Times are seconds from the start of the source media.
type TranscriptSegment struct {
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Text      string  `json:"text"`
	Speaker   string  `json:"speaker,omitempty"`
	Sentiment string  `json:"sentiment,omitempty"`
}

// TranscriptResult is the complete output of one transcription call.
// Read-only after creation; Duration is at least the end of the last
// segment.
type TranscriptResult struct {
	Segments []TranscriptSegment `json:"segments"`
	Language string              `json:"language"`
	Duration float64             `json:"duration"`
	FullText string              `json:"full_text"`
}

// ViralScore holds the four rubric sub-scores, each in [0,10].
type ViralScore struct {
	HookStrength    int `json:"hook_strength"`
	EmotionalImpact int `json:"emotional_impact"`
	Shareability    int `json:"shareability"`
	Completeness    int `json:"completeness"`
}

// PotentialClip is a candidate clip proposed by the LLM. Start/End may be
// adjusted once by boundary validation; everything else is immutable.
type PotentialClip struct {
	Start            float64    `json:"start"`
	End              float64    `json:"end"`
	Transcript       string     `json:"transcript"`
	Score            ViralScore `json:"scores"`
	Reason           string     `json:"reason"`
	ViralFactor      string     `json:"viral_factor"`
	SuggestedCaption string     `json:"suggested_caption,omitempty"`
}

// Duration returns the clip length in seconds.
func (c PotentialClip) Duration() float64 { return c.End - c.Start }

// ClipResult records one clip-cut attempt.
type ClipResult struct {
	SourceFile string        `json:"source_file"`
	OutputFile string        `json:"output_file"`
	Clip       PotentialClip `json:"clip"`
	Success    bool          `json:"success"`
	Error      string        `json:"error,omitempty"`
}

// VideoResult is the outcome of one video's full pipeline run.
type VideoResult struct {
	SourceFile      string            `json:"source_file"`
	Clips           []ClipResult      `json:"clips"`
	CompilationFile string            `json:"compilation_file,omitempty"`
	Transcript      *TranscriptResult `json:"transcript,omitempty"`
	TranscriberUsed TranscriberType   `json:"transcriber_used"`
	LLMProviderUsed LLMProviderType   `json:"llm_provider_used"`
	LLMModelUsed    string            `json:"llm_model_used"`
	ProcessingTime  float64           `json:"processing_time"`
	Success         bool              `json:"success"`
	Error           string            `json:"error,omitempty"`
}

// BatchResult aggregates every video processed in one batch run.
type BatchResult struct {
	TotalVideos    int               `json:"total_videos"`
	Successful     int               `json:"successful"`
	Failed         int               `json:"failed"`
	TotalClips     int               `json:"total_clips"`
	Results        []VideoResult     `json:"results"`
	Errors         map[string]string `json:"errors"`
	ProcessingTime float64           `json:"processing_time"`
}
