package ports

import (
	"context"
	"time"

	"viralcut/internal/types"
)

// VideoTool wraps external media tooling. Implementations shell out to
// ffmpeg/ffprobe; callers treat every operation as opaque duration-in,
// file-out work.
type VideoTool interface {
	ExtractAudioMono16k(ctx context.Context, inVideo, outWav string) error
	CutClip(ctx context.Context, inVideo string, start, end time.Duration, fade time.Duration, outVideo string) error
	ProbeDuration(ctx context.Context, inVideo string) (time.Duration, error)
	Concat(ctx context.Context, inputs []string, crossfade time.Duration, outVideo string) error
}

// Transcriber produces a timed transcript from an extracted audio file.
// language may be "auto" to request detection.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) (types.TranscriptResult, error)
	IsAvailable(ctx context.Context) bool
	Name() string
}

// LLM is a single-round-trip text generator. The core performs exactly
// one call per detection pass; retries and streaming live outside it.
type LLM interface {
	Generate(ctx context.Context, prompt, systemPrompt string, temperature float64, maxTokens int) (string, error)
	IsAvailable(ctx context.Context) bool
	Model() string
	Name() string
}
