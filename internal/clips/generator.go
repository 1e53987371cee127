package clips

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"viralcut/internal/ports"
	"viralcut/internal/types"
)

// Generator cuts validated clips out of one source video. Each clip is
// cut independently; one failure never aborts the rest.
type Generator struct {
	video      ports.VideoTool
	sourcePath string
	outputDir  string
	fade       time.Duration
}

func NewGenerator(video ports.VideoTool, sourcePath, outputDir string, fade time.Duration) (*Generator, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Generator{
		video:      video,
		sourcePath: sourcePath,
		outputDir:  outputDir,
		fade:       fade,
	}, nil
}

// GenerateClips materializes every clip as a cut file. With workers > 1
// cuts run concurrently and may complete out of order; results are
// re-sorted by output file name, which embeds the 1-based sequence
// index, so callers can correlate results with their clip list.
func (g *Generator) GenerateClips(ctx context.Context, potentials []types.PotentialClip, workers int) []types.ClipResult {
	if len(potentials) == 0 {
		return nil
	}

	// Upstream validation clamped against the transcript duration, which
	// normally equals the source duration. Re-probe instead of trusting
	// that equality: a probe failure only disables the re-clamp.
	sourceDur := time.Duration(0)
	if d, err := g.video.ProbeDuration(ctx, g.sourcePath); err == nil {
		sourceDur = d
	}

	results := make([]types.ClipResult, len(potentials))

	if workers > 1 && len(potentials) > 1 {
		var eg errgroup.Group
		eg.SetLimit(workers)
		for i, clip := range potentials {
			i, clip := i, clip
			eg.Go(func() error {
				results[i] = g.generateOne(ctx, clip, i+1, sourceDur)
				return nil
			})
		}
		_ = eg.Wait() // workers never return errors; failures live in results
	} else {
		for i, clip := range potentials {
			results[i] = g.generateOne(ctx, clip, i+1, sourceDur)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].OutputFile < results[j].OutputFile
	})
	return results
}

func (g *Generator) generateOne(ctx context.Context, clip types.PotentialClip, index int, sourceDur time.Duration) types.ClipResult {
	stem := strings.TrimSuffix(filepath.Base(g.sourcePath), filepath.Ext(g.sourcePath))
	outputPath := filepath.Join(g.outputDir, fmt.Sprintf("%s_clip_%03d.mp4", stem, index))

	result := types.ClipResult{
		SourceFile: g.sourcePath,
		OutputFile: outputPath,
		Clip:       clip,
	}

	start := dur(max(0, clip.Start))
	end := dur(clip.End)
	if sourceDur > 0 && end > sourceDur {
		end = sourceDur
	}
	if end <= start {
		result.Error = fmt.Sprintf("clip range %.2f..%.2f is empty after clamping to source", clip.Start, clip.End)
		return result
	}

	if err := g.video.CutClip(ctx, g.sourcePath, start, end, g.fade, outputPath); err != nil {
		result.Error = err.Error()
		return result
	}
	result.Success = true
	return result
}

// CreateCompilation stitches the successful clips into one file with a
// crossfade between neighbors. Best effort: fewer than two successful
// clips yields "" with no error.
func (g *Generator) CreateCompilation(ctx context.Context, results []types.ClipResult, outputName string, crossfade time.Duration) (string, error) {
	var inputs []string
	for _, r := range results {
		if r.Success {
			inputs = append(inputs, r.OutputFile)
		}
	}
	if len(inputs) < 2 {
		return "", nil
	}

	if outputName == "" {
		outputName = "compilation.mp4"
	}
	outputPath := filepath.Join(g.outputDir, outputName)
	if err := g.video.Concat(ctx, inputs, crossfade, outputPath); err != nil {
		return "", fmt.Errorf("create compilation: %w", err)
	}
	return outputPath, nil
}

func dur(sec float64) time.Duration { return time.Duration(sec * float64(time.Second)) }
