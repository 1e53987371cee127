package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

func (a *Adapter) ExtractAudioMono16k(ctx context.Context, inVideo, outWav string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", inVideo,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outWav,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w\n%s", err, string(b))
	}
	return nil
}

// CutClip re-encodes the [start,end] range of inVideo into outVideo.
// A fade > 0 applies a fade-in at the head and a fade-out at the tail of
// both video and audio streams.
func (a *Adapter) CutClip(ctx context.Context, inVideo string, start, end time.Duration, fade time.Duration, outVideo string) error {
	if end <= start {
		return fmt.Errorf("ffmpeg cut clip: invalid range %s..%s", start, end)
	}
	args := []string{
		"-y",
		"-ss", fmtSeconds(start),
		"-to", fmtSeconds(end),
		"-i", inVideo,
	}
	if fade > 0 {
		clipLen := end - start
		outStart := clipLen - fade
		if outStart < 0 {
			outStart = 0
		}
		args = append(args,
			"-vf", fmt.Sprintf("fade=t=in:st=0:d=%s,fade=t=out:st=%s:d=%s",
				fmtSeconds(fade), fmtSeconds(outStart), fmtSeconds(fade)),
			"-af", fmt.Sprintf("afade=t=in:st=0:d=%s,afade=t=out:st=%s:d=%s",
				fmtSeconds(fade), fmtSeconds(outStart), fmtSeconds(fade)),
		)
	}
	args = append(args,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-c:a", "aac",
		"-b:a", "192k",
		outVideo,
	)
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg cut clip: %w\n%s", err, string(b))
	}
	return nil
}

func (a *Adapter) ProbeDuration(ctx context.Context, inVideo string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inVideo,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return time.Duration(sec * float64(time.Second)), nil
}

// Concat stitches inputs into one file in order. With crossfade > 0 the
// clips overlap by that duration via xfade/acrossfade, which needs every
// input's duration to compute filter offsets; otherwise a plain concat
// filter joins them back to back.
func (a *Adapter) Concat(ctx context.Context, inputs []string, crossfade time.Duration, outVideo string) error {
	if len(inputs) < 2 {
		return fmt.Errorf("ffmpeg concat: need at least 2 inputs, got %d", len(inputs))
	}

	args := []string{"-y"}
	for _, in := range inputs {
		args = append(args, "-i", in)
	}

	var filter string
	if crossfade > 0 {
		durations := make([]time.Duration, len(inputs))
		for i, in := range inputs {
			d, err := a.ProbeDuration(ctx, in)
			if err != nil {
				return err
			}
			durations[i] = d
		}
		filter = xfadeFilter(durations, crossfade)
	} else {
		filter = concatFilter(len(inputs))
	}

	args = append(args,
		"-filter_complex", filter,
		"-map", "[vout]",
		"-map", "[aout]",
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-c:a", "aac",
		"-b:a", "192k",
		outVideo,
	)
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg concat: %w\n%s", err, string(b))
	}
	return nil
}

func concatFilter(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "[%d:v][%d:a]", i, i)
	}
	fmt.Fprintf(&b, "concat=n=%d:v=1:a=1[vout][aout]", n)
	return b.String()
}

func xfadeFilter(durations []time.Duration, crossfade time.Duration) string {
	var b strings.Builder
	fadeSec := fmtSeconds(crossfade)

	// Each xfade offset is where the next clip starts on the combined
	// timeline: the running length so far minus one overlap.
	offset := durations[0] - crossfade
	prevV, prevA := "[0:v]", "[0:a]"
	for i := 1; i < len(durations); i++ {
		outV := fmt.Sprintf("[v%d]", i)
		outA := fmt.Sprintf("[a%d]", i)
		if i == len(durations)-1 {
			outV, outA = "[vout]", "[aout]"
		}
		fmt.Fprintf(&b, "%s[%d:v]xfade=transition=fade:duration=%s:offset=%s%s;",
			prevV, i, fadeSec, fmtSeconds(offset), outV)
		fmt.Fprintf(&b, "%s[%d:a]acrossfade=d=%s%s", prevA, i, fadeSec, outA)
		if i != len(durations)-1 {
			b.WriteByte(';')
		}
		offset += durations[i] - crossfade
		prevV, prevA = outV, outA
	}
	return b.String()
}

func fmtSeconds(d time.Duration) string {
	sec := float64(d) / float64(time.Second)
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
