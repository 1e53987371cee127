package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"viralcut/internal/clips"
	"viralcut/internal/config"
	"viralcut/internal/domain/viral"
	"viralcut/internal/ports"
	"viralcut/internal/ports/adapters/assemblyai"
	"viralcut/internal/ports/adapters/ffmpeg"
	"viralcut/internal/ports/adapters/ollama"
	"viralcut/internal/ports/adapters/openaillm"
	"viralcut/internal/ports/adapters/openrouter"
	"viralcut/internal/ports/adapters/whispercpp"
	"viralcut/internal/types"
)

// Options are the per-run knobs for a single video's pipeline.
type Options struct {
	Transcriber types.TranscriberType
	LLMProvider types.LLMProviderType
	LLMModel    string
	NumClips    int
	MinDuration float64
	MaxDuration float64
	Language    string
	Fade        time.Duration
	Compilation bool
	Crossfade   time.Duration
	CacheDir    string
	Logf        func(format string, args ...any)
}

func (o Options) Validate() error {
	if o.NumClips <= 0 {
		return errors.New("num clips must be > 0")
	}
	if o.MinDuration <= 0 {
		return errors.New("min duration must be > 0")
	}
	if o.MaxDuration <= 0 {
		return errors.New("max duration must be > 0")
	}
	if o.MinDuration > o.MaxDuration {
		return errors.New("min duration must be <= max duration")
	}
	return nil
}

type Deps struct {
	Video ports.VideoTool
	ASR   ports.Transcriber
	LLM   ports.LLM
}

// BuildDeps wires concrete adapters from configuration, keyed by the
// provider tags in Options.
func BuildDeps(cfg *config.Config, opts Options) (Deps, error) {
	video := ffmpeg.New(cfg.Paths.FFmpeg, cfg.Paths.FFprobe)

	asr, err := newTranscriber(cfg, opts)
	if err != nil {
		return Deps{}, err
	}
	llm, err := newLLM(opts)
	if err != nil {
		return Deps{}, err
	}
	return Deps{Video: video, ASR: asr, LLM: llm}, nil
}

func newTranscriber(cfg *config.Config, opts Options) (ports.Transcriber, error) {
	switch opts.Transcriber {
	case types.TranscriberWhisper:
		return whispercpp.New(cfg.Paths.WhisperBin, cfg.Paths.WhisperModel), nil
	case types.TranscriberAssemblyAI:
		return assemblyai.New(config.AssemblyAIKey(), ""), nil
	default:
		return nil, fmt.Errorf("unknown transcriber %q", opts.Transcriber)
	}
}

func newLLM(opts Options) (ports.LLM, error) {
	switch opts.LLMProvider {
	case types.ProviderOllama:
		return ollama.New(opts.LLMModel, config.OllamaHost()), nil
	case types.ProviderOpenAI:
		return openaillm.New(opts.LLMModel, config.OpenAIKey()), nil
	case types.ProviderOpenRouter:
		baseURL := config.OpenRouterBaseURL()
		if err := openrouter.ValidateBaseURL(baseURL, nil); err != nil {
			return nil, err
		}
		return openrouter.New(config.OpenRouterKey(), opts.LLMModel, baseURL), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", opts.LLMProvider)
	}
}

// Pipeline runs the sequential per-video chain:
// extract audio → transcribe → detect → cut.
type Pipeline struct {
	d    Deps
	opts Options
}

func New(d Deps, opts Options) Pipeline { return Pipeline{d: d, opts: opts} }

// ProcessVideo runs the whole chain for one video and never returns an
// error: any stage failure is captured in the VideoResult so one video
// cannot abort a batch.
func (p Pipeline) ProcessVideo(ctx context.Context, videoPath, outputDir string) types.VideoResult {
	started := time.Now()
	logf := p.opts.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	result := types.VideoResult{
		SourceFile:      videoPath,
		TranscriberUsed: p.opts.Transcriber,
		LLMProviderUsed: p.opts.LLMProvider,
		LLMModelUsed:    p.d.LLM.Model(),
	}
	fail := func(err error) types.VideoResult {
		result.ProcessingTime = time.Since(started).Seconds()
		result.Error = err.Error()
		return result
	}

	cacheDir := filepath.Join(p.opts.CacheDir, "runs", hash(videoPath))
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return fail(fmt.Errorf("prepare cache dir: %w", err))
	}

	wav := filepath.Join(cacheDir, "audio.wav")
	logf("extracting audio: %s", filepath.Base(videoPath))
	if err := p.d.Video.ExtractAudioMono16k(ctx, videoPath, wav); err != nil {
		return fail(err)
	}

	logf("transcribing with %s", p.d.ASR.Name())
	transcript, err := p.d.ASR.Transcribe(ctx, wav, p.opts.Language)
	if err != nil {
		return fail(err)
	}
	result.Transcript = &transcript
	logf("transcript: %d segments, %.0fs, lang=%s", len(transcript.Segments), transcript.Duration, transcript.Language)

	detector := viral.NewDetector(p.d.LLM)
	potentials, err := detector.Detect(ctx, transcript, p.opts.NumClips, p.opts.MinDuration, p.opts.MaxDuration)
	if err != nil {
		return fail(err)
	}
	logf("viral moments: %d", len(potentials))

	stem := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	gen, err := clips.NewGenerator(p.d.Video, videoPath, filepath.Join(outputDir, stem), p.opts.Fade)
	if err != nil {
		return fail(err)
	}
	result.Clips = gen.GenerateClips(ctx, potentials, 1)

	if p.opts.Compilation {
		// Best effort: a failed stitch leaves the individual clips intact.
		compPath, err := gen.CreateCompilation(ctx, result.Clips, stem+"_compilation.mp4", p.opts.Crossfade)
		if err != nil {
			logf("compilation failed: %v", err)
		} else if compPath != "" {
			result.CompilationFile = compPath
		}
	}

	result.ProcessingTime = time.Since(started).Seconds()
	result.Success = true
	return result
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}
