package clips

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viralcut/internal/types"
)

type fakeVideoTool struct {
	mu       sync.Mutex
	cuts     []string
	concats  [][]string
	duration time.Duration
	failFor  map[string]error
}

func (f *fakeVideoTool) ExtractAudioMono16k(_ context.Context, _, _ string) error { return nil }

func (f *fakeVideoTool) CutClip(_ context.Context, _ string, _, _ time.Duration, _ time.Duration, outVideo string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failFor[filepath.Base(outVideo)]; err != nil {
		return err
	}
	f.cuts = append(f.cuts, outVideo)
	return nil
}

func (f *fakeVideoTool) ProbeDuration(_ context.Context, _ string) (time.Duration, error) {
	if f.duration == 0 {
		return 0, errors.New("probe failed")
	}
	return f.duration, nil
}

func (f *fakeVideoTool) Concat(_ context.Context, inputs []string, _ time.Duration, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.concats = append(f.concats, inputs)
	return nil
}

func potentials(ranges ...[2]float64) []types.PotentialClip {
	out := make([]types.PotentialClip, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, types.PotentialClip{Start: r[0], End: r[1]})
	}
	return out
}

func newTestGenerator(t *testing.T, video *fakeVideoTool) *Generator {
	t.Helper()
	g, err := NewGenerator(video, "/videos/episode.mp4", t.TempDir(), 300*time.Millisecond)
	require.NoError(t, err)
	return g
}

func TestGenerateClips_NamesBySequence(t *testing.T) {
	video := &fakeVideoTool{duration: 10 * time.Minute}
	g := newTestGenerator(t, video)

	results := g.GenerateClips(context.Background(), potentials([2]float64{10, 40}, [2]float64{100, 130}), 1)
	require.Len(t, results, 2)
	assert.True(t, strings.HasSuffix(results[0].OutputFile, "episode_clip_001.mp4"))
	assert.True(t, strings.HasSuffix(results[1].OutputFile, "episode_clip_002.mp4"))
	assert.True(t, results[0].Success)
	assert.True(t, results[1].Success)
}

func TestGenerateClips_FailureIsolation(t *testing.T) {
	video := &fakeVideoTool{
		duration: 10 * time.Minute,
		failFor:  map[string]error{"episode_clip_002.mp4": errors.New("codec error")},
	}
	g := newTestGenerator(t, video)

	results := g.GenerateClips(context.Background(), potentials(
		[2]float64{10, 40}, [2]float64{100, 130}, [2]float64{200, 230}), 1)
	require.Len(t, results, 3)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Contains(t, results[1].Error, "codec error")
	assert.True(t, results[2].Success)
}

func TestGenerateClips_ConcurrentResultsStayOrdered(t *testing.T) {
	video := &fakeVideoTool{duration: 10 * time.Minute}
	g := newTestGenerator(t, video)

	in := potentials(
		[2]float64{10, 40}, [2]float64{50, 80}, [2]float64{90, 120},
		[2]float64{130, 160}, [2]float64{170, 200})
	results := g.GenerateClips(context.Background(), in, 4)
	require.Len(t, results, 5)
	for i, r := range results {
		assert.Contains(t, r.OutputFile, "episode_clip_00"+string(rune('1'+i)))
		assert.Equal(t, in[i].Start, r.Clip.Start)
	}
}

func TestGenerateClips_ProbeFailureStillCuts(t *testing.T) {
	video := &fakeVideoTool{} // ProbeDuration errors
	g := newTestGenerator(t, video)

	results := g.GenerateClips(context.Background(), potentials([2]float64{10, 40}), 1)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
}

func TestGenerateClips_ReclampsToSourceDuration(t *testing.T) {
	// Source shorter than the transcript suggested: the tail clip
	// shrinks to the probed duration instead of failing in the cutter.
	video := &fakeVideoTool{duration: 110 * time.Second}
	g := newTestGenerator(t, video)

	results := g.GenerateClips(context.Background(), potentials([2]float64{90, 130}), 1)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)

	// Fully out of range collapses to an empty cut and is recorded as a
	// failure without calling the tool.
	results = g.GenerateClips(context.Background(), potentials([2]float64{120, 130}), 1)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "empty after clamping")
}

func TestGenerateClips_EmptyInput(t *testing.T) {
	g := newTestGenerator(t, &fakeVideoTool{duration: time.Minute})
	assert.Nil(t, g.GenerateClips(context.Background(), nil, 1))
}

func TestCreateCompilation(t *testing.T) {
	video := &fakeVideoTool{duration: 10 * time.Minute}
	g := newTestGenerator(t, video)

	results := g.GenerateClips(context.Background(), potentials(
		[2]float64{10, 40}, [2]float64{100, 130}), 1)

	path, err := g.CreateCompilation(context.Background(), results, "best_of.mp4", 500*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "best_of.mp4"))
	require.Len(t, video.concats, 1)
	assert.Len(t, video.concats[0], 2)
}

func TestCreateCompilation_NeedsTwoClips(t *testing.T) {
	video := &fakeVideoTool{duration: 10 * time.Minute}
	g := newTestGenerator(t, video)

	results := g.GenerateClips(context.Background(), potentials([2]float64{10, 40}), 1)
	path, err := g.CreateCompilation(context.Background(), results, "", time.Second)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Empty(t, video.concats)
}
