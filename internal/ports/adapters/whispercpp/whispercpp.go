package whispercpp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/abadojack/whatlanggo"

	"viralcut/internal/types"
)

// Adapter transcribes audio by shelling out to a whisper.cpp binary with
// JSON output enabled.
type Adapter struct {
	bin   string
	model string
}

func New(binPath, modelPath string) *Adapter {
	return &Adapter{bin: binPath, model: modelPath}
}

func (a *Adapter) Name() string {
	return fmt.Sprintf("whisper.cpp (%s)", filepath.Base(a.model))
}

func (a *Adapter) IsAvailable(_ context.Context) bool {
	if _, err := os.Stat(a.bin); err != nil {
		return false
	}
	_, err := os.Stat(a.model)
	return err == nil
}

type whisperOutput struct {
	Language string `json:"language"`
	Segments []struct {
		Start   float64 `json:"start"`
		End     float64 `json:"end"`
		Text    string  `json:"text"`
		Speaker string  `json:"speaker"`
	} `json:"segments"`
}

func (a *Adapter) Transcribe(ctx context.Context, audioPath, language string) (types.TranscriptResult, error) {
	// Output lands next to the audio file so concurrent transcriptions
	// of different videos never share a path.
	outPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	args := []string{
		"-m", a.model,
		"-f", audioPath,
		"-oj",
		"-of", outPrefix,
	}
	if language != "" && language != "auto" {
		args = append(args, "-l", language)
	}
	cmd := exec.CommandContext(ctx, a.bin, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.TranscriptResult{}, fmt.Errorf("whisper.cpp failed: %w\n%s", err, string(b))
	}

	jb, err := os.ReadFile(outPrefix + ".json")
	if err != nil {
		return types.TranscriptResult{}, err
	}

	var out whisperOutput
	if err := json.Unmarshal(jb, &out); err != nil {
		return types.TranscriptResult{}, fmt.Errorf("parse whisper output: %w", err)
	}

	segments := make([]types.TranscriptSegment, 0, len(out.Segments))
	var texts []string
	var duration float64
	for _, s := range out.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		segments = append(segments, types.TranscriptSegment{
			Start:   s.Start,
			End:     s.End,
			Text:    text,
			Speaker: s.Speaker,
		})
		texts = append(texts, text)
		if s.End > duration {
			duration = s.End
		}
	}
	fullText := strings.Join(texts, " ")

	return types.TranscriptResult{
		Segments: segments,
		Language: resolveLanguage(out.Language, language, fullText),
		Duration: duration,
		FullText: fullText,
	}, nil
}

// resolveLanguage prefers what whisper reported, then the caller's
// explicit choice. With "auto" and no report, fall back to detecting from
// the transcript text itself.
func resolveLanguage(reported, requested, fullText string) string {
	if reported != "" && reported != "auto" {
		return reported
	}
	if requested != "" && requested != "auto" {
		return requested
	}
	if fullText != "" {
		info := whatlanggo.Detect(fullText)
		if info.IsReliable() {
			return info.Lang.Iso6391()
		}
	}
	return "auto"
}
