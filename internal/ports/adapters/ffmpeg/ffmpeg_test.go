package ffmpeg

import (
	"strings"
	"testing"
	"time"
)

func TestFmtSeconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0.000"},
		{300 * time.Millisecond, "0.300"},
		{90*time.Second + 500*time.Millisecond, "90.500"},
	}
	for _, tt := range tests {
		if got := fmtSeconds(tt.in); got != tt.want {
			t.Fatalf("fmtSeconds(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConcatFilter(t *testing.T) {
	got := concatFilter(3)
	want := "[0:v][0:a][1:v][1:a][2:v][2:a]concat=n=3:v=1:a=1[vout][aout]"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestXfadeFilter_OffsetsAccumulate(t *testing.T) {
	durations := []time.Duration{30 * time.Second, 20 * time.Second, 25 * time.Second}
	got := xfadeFilter(durations, 500*time.Millisecond)

	// First boundary at 29.5s, second at 29.5+20-0.5 = 49s.
	if !strings.Contains(got, "offset=29.500") {
		t.Fatalf("expected first offset 29.500 in %q", got)
	}
	if !strings.Contains(got, "offset=49.000") {
		t.Fatalf("expected second offset 49.000 in %q", got)
	}
	if !strings.Contains(got, "[vout]") || !strings.Contains(got, "[aout]") {
		t.Fatalf("expected final output labels in %q", got)
	}
	if strings.Count(got, "xfade=") != 2 {
		t.Fatalf("expected 2 xfade stages in %q", got)
	}
	if strings.Count(got, "acrossfade=") != 2 {
		t.Fatalf("expected 2 acrossfade stages in %q", got)
	}
}

func TestNew_DefaultBinaries(t *testing.T) {
	a := New("", "")
	if a.ffmpeg != "ffmpeg" || a.ffprobe != "ffprobe" {
		t.Fatalf("expected PATH lookups by default, got %q %q", a.ffmpeg, a.ffprobe)
	}
}
