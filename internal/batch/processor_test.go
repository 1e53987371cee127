package batch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viralcut/internal/types"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

// okRun simulates a pipeline that always succeeds with one clip.
func okRun(_ context.Context, videoPath, _ string) types.VideoResult {
	return types.VideoResult{
		SourceFile: videoPath,
		Success:    true,
		Clips:      []types.ClipResult{{SourceFile: videoPath, Success: true}},
	}
}

// failRun fails every video whose base name is in failures.
func failRun(failures map[string]string) RunVideoFunc {
	return func(_ context.Context, videoPath, _ string) types.VideoResult {
		if msg, ok := failures[filepath.Base(videoPath)]; ok {
			return types.VideoResult{SourceFile: videoPath, Error: msg}
		}
		return okRun(context.Background(), videoPath, "")
	}
}

func newTestProcessor(t *testing.T, run RunVideoFunc) (*Processor, string) {
	t.Helper()
	outDir := t.TempDir()
	p, err := NewProcessor(run, outDir, nil)
	require.NoError(t, err)
	return p, outDir
}

func TestFindVideos_SingleFile(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "one.mp4")
	touch(t, video)

	p, _ := newTestProcessor(t, okRun)
	got, err := p.FindVideos(video, nil, false)
	require.NoError(t, err)
	assert.Equal(t, []string{video}, got)
}

func TestFindVideos_DirectoryDefaultsAndSorting(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "c.mp4"))
	touch(t, filepath.Join(dir, "a.mov"))
	touch(t, filepath.Join(dir, "b.mkv"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "nested", "d.mp4")) // not recursive

	p, _ := newTestProcessor(t, okRun)
	got, err := p.FindVideos(dir, nil, false)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, sort.StringsAreSorted(got))
	for _, v := range got {
		assert.NotContains(t, v, "notes.txt")
		assert.NotContains(t, v, "nested")
	}
}

func TestFindVideos_Recursive(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.mp4"))
	touch(t, filepath.Join(dir, "nested", "deep", "b.mp4"))
	touch(t, filepath.Join(dir, "nested", "skip.txt"))

	p, _ := newTestProcessor(t, okRun)
	got, err := p.FindVideos(dir, nil, true)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestFindVideos_Patterns(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "ep01.mp4"))
	touch(t, filepath.Join(dir, "ep02.mp4"))
	touch(t, filepath.Join(dir, "trailer.mp4"))

	p, _ := newTestProcessor(t, okRun)
	got, err := p.FindVideos(dir, []string{"ep*.mp4"}, false)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "ep01")
	assert.Contains(t, got[1], "ep02")
}

func TestRun_AllSucceedCleansState(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"a.mp4", "b.mp4", "c.mp4"} {
		touch(t, filepath.Join(dir, n))
	}

	p, outDir := newTestProcessor(t, okRun)
	res, err := p.Run(context.Background(), dir, Options{Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalVideos)
	assert.Equal(t, 3, res.Successful)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, 3, res.TotalClips)
	assert.Empty(t, res.Errors)

	_, statErr := os.Stat(filepath.Join(outDir, stateFileName))
	assert.True(t, os.IsNotExist(statErr), "state file should be removed after a clean run")
}

func TestRun_FailureIsRecordedNotFatal(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"a.mp4", "b.mp4", "c.mp4"} {
		touch(t, filepath.Join(dir, n))
	}

	p, outDir := newTestProcessor(t, failRun(map[string]string{"b.mp4": "llm unreachable"}))
	res, err := p.Run(context.Background(), dir, Options{Workers: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Successful)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	for path, msg := range res.Errors {
		assert.Contains(t, path, "b.mp4")
		assert.Equal(t, "llm unreachable", msg)
	}

	// State survives so the failed video can be retried with --resume.
	st, err := loadState(filepath.Join(outDir, stateFileName))
	require.NoError(t, err)
	assert.Len(t, st.Completed, 2)
	assert.Len(t, st.Failed, 1)
}

func TestRun_ResumeSkipsCompleted(t *testing.T) {
	dir := t.TempDir()
	var videos []string
	for _, n := range []string{"a.mp4", "b.mp4", "c.mp4", "d.mp4", "e.mp4"} {
		v := filepath.Join(dir, n)
		touch(t, v)
		videos = append(videos, v)
	}

	var mu sync.Mutex
	var processed []string
	run := func(ctx context.Context, videoPath, outputDir string) types.VideoResult {
		mu.Lock()
		processed = append(processed, filepath.Base(videoPath))
		mu.Unlock()
		return okRun(ctx, videoPath, outputDir)
	}
	p, outDir := newTestProcessor(t, run)

	prior := newState()
	prior.markCompleted(videos[0])
	prior.markCompleted(videos[2])
	require.NoError(t, prior.save(filepath.Join(outDir, stateFileName)))

	res, err := p.Run(context.Background(), dir, Options{Workers: 2, Resume: true})
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalVideos)
	assert.Equal(t, 3, res.Successful)

	sort.Strings(processed)
	assert.Equal(t, []string{"b.mp4", "d.mp4", "e.mp4"}, processed)
}

func TestRun_ResumeRetriesFailed(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "a.mp4")
	touch(t, video)

	p, outDir := newTestProcessor(t, okRun)
	prior := newState()
	prior.markFailed(video, "earlier crash")
	require.NoError(t, prior.save(filepath.Join(outDir, stateFileName)))

	res, err := p.Run(context.Background(), dir, Options{Resume: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Successful)
	assert.Empty(t, res.Errors, "retried success must clear the earlier failure")
}

func TestRun_EmptyDirectory(t *testing.T) {
	p, _ := newTestProcessor(t, okRun)
	res, err := p.Run(context.Background(), t.TempDir(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.TotalVideos)
	assert.NotNil(t, res.Errors)
}
