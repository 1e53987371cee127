package batch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"viralcut/internal/types"
)

// defaultExtensions are matched when no explicit glob patterns are given.
var defaultExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".webm", ".m4v"}

// RunVideoFunc runs one video's full pipeline. It must capture every
// failure inside the returned VideoResult; the batch layer treats a
// result with Success=false as a recorded, non-propagating error.
type RunVideoFunc func(ctx context.Context, videoPath, outputDir string) types.VideoResult

// Options control one batch run.
type Options struct {
	Patterns  []string
	Recursive bool
	Workers   int
	Resume    bool
}

// Processor applies the single-video pipeline across many files with a
// bounded worker pool and durable resume state.
type Processor struct {
	run       RunVideoFunc
	outputDir string
	logf      func(format string, args ...any)
}

// NewProcessor creates the batch output directory up front. Not being
// able to write there is fatal: there is no way to run a batch without
// durable output.
func NewProcessor(run RunVideoFunc, outputDir string, logf func(format string, args ...any)) (*Processor, error) {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create batch output dir: %w", err)
	}
	return &Processor{run: run, outputDir: outputDir, logf: logf}, nil
}

// FindVideos enumerates the work list. A file path is the sole input; a
// directory is scanned with the given glob patterns, or the default
// video extensions when none are given. The result is sorted so repeated
// runs over an unchanged directory see the same order.
func (p *Processor) FindVideos(inputPath string, patterns []string, recursive bool) ([]string, error) {
	abs, err := filepath.Abs(inputPath)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if !info.IsDir() {
		return []string{abs}, nil
	}

	matched := make(map[string]struct{})
	add := func(path string) {
		if isVideoFile(path) {
			matched[path] = struct{}{}
		}
	}

	if recursive {
		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			if matchesAny(filepath.Base(path), patterns) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan input dir: %w", err)
		}
	} else {
		globs := patterns
		if len(globs) == 0 {
			globs = make([]string, 0, len(defaultExtensions))
			for _, ext := range defaultExtensions {
				globs = append(globs, "*"+ext)
			}
		}
		for _, g := range globs {
			paths, err := filepath.Glob(filepath.Join(abs, g))
			if err != nil {
				return nil, fmt.Errorf("glob %q: %w", g, err)
			}
			for _, path := range paths {
				add(path)
			}
		}
	}

	videos := make([]string, 0, len(matched))
	for path := range matched {
		videos = append(videos, path)
	}
	sort.Strings(videos)
	return videos, nil
}

func matchesAny(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return true // extension filter in add() is the only gate
	}
	for _, pat := range patterns {
		if ok, err := filepath.Match(pat, name); err == nil && ok {
			return true
		}
	}
	return false
}

func isVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range defaultExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

type stateUpdate struct {
	path    string
	success bool
	errMsg  string
}

// Run executes the batch: discover, filter completed work on resume,
// dispatch onto a bounded pool, persist state after every video, and
// aggregate. The state file is owned by a single writer goroutine;
// workers message it instead of locking the file themselves.
func (p *Processor) Run(ctx context.Context, inputPath string, opts Options) (types.BatchResult, error) {
	started := time.Now()

	videos, err := p.FindVideos(inputPath, opts.Patterns, opts.Recursive)
	if err != nil {
		return types.BatchResult{}, err
	}
	if len(videos) == 0 {
		p.logf("no video files found under %s", inputPath)
		return types.BatchResult{Errors: map[string]string{}}, nil
	}
	p.logf("found %d videos to process", len(videos))

	statePath := filepath.Join(p.outputDir, stateFileName)
	state := newState()
	if opts.Resume {
		state, err = loadState(statePath)
		if err != nil {
			return types.BatchResult{}, err
		}
		remaining := videos[:0:0]
		for _, v := range videos {
			if !state.isCompleted(v) {
				remaining = append(remaining, v)
			}
		}
		if skipped := len(videos) - len(remaining); skipped > 0 {
			p.logf("resuming: %d already completed", skipped)
		}
		videos = remaining
	}

	errorsMap := make(map[string]string, len(state.Failed))
	for path, msg := range state.Failed {
		errorsMap[path] = msg
	}

	// Single-writer state persistence: every completion is recorded on
	// disk before the writer takes the next message, so a crash loses at
	// most the in-flight videos.
	updates := make(chan stateUpdate)
	writerDone := make(chan error, 1)
	go func() {
		for u := range updates {
			if u.success {
				state.markCompleted(u.path)
			} else {
				state.markFailed(u.path, u.errMsg)
			}
			if err := state.save(statePath); err != nil {
				// Drain remaining updates so workers never block, then
				// surface the first failure: a batch without durable
				// state cannot meaningfully continue.
				for range updates {
				}
				writerDone <- err
				return
			}
		}
		writerDone <- nil
	}()

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	p.logf("processing with %d workers", workers)

	var (
		mu      sync.Mutex
		results []types.VideoResult
	)

	var eg errgroup.Group
	eg.SetLimit(workers)
	total := len(videos)
	for i, video := range videos {
		if ctx.Err() != nil {
			break // stop dispatching; in-flight videos finish and persist
		}
		i, video := i, video
		eg.Go(func() error {
			p.logf("[%d/%d] %s", i+1, total, filepath.Base(video))
			res := p.run(ctx, video, p.outputDir)

			mu.Lock()
			results = append(results, res)
			if !res.Success {
				msg := res.Error
				if msg == "" {
					msg = "unknown error"
				}
				errorsMap[video] = msg
			} else {
				delete(errorsMap, video)
			}
			mu.Unlock()

			updates <- stateUpdate{path: video, success: res.Success, errMsg: res.Error}
			return nil
		})
	}
	_ = eg.Wait()
	close(updates)
	if err := <-writerDone; err != nil {
		return types.BatchResult{}, err
	}

	successful := 0
	totalClips := 0
	for _, r := range results {
		if r.Success {
			successful++
		}
		for _, c := range r.Clips {
			if c.Success {
				totalClips++
			}
		}
	}

	if len(errorsMap) == 0 && ctx.Err() == nil {
		if err := clearState(statePath); err != nil {
			return types.BatchResult{}, err
		}
	}

	return types.BatchResult{
		TotalVideos:    len(videos),
		Successful:     successful,
		Failed:         len(errorsMap),
		TotalClips:     totalClips,
		Results:        results,
		Errors:         errorsMap,
		ProcessingTime: time.Since(started).Seconds(),
	}, nil
}
