package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"

	"viralcut/internal/domain/viral"
	"viralcut/internal/types"
)

// Reporter projects a BatchResult into durable report files and a
// console summary. It never mutates the result.
type Reporter struct {
	outputDir string
}

func NewReporter(outputDir string) (*Reporter, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	return &Reporter{outputDir: outputDir}, nil
}

// Generate writes a report in the given format ("json" or "csv") and
// returns its path.
func (r *Reporter) Generate(result types.BatchResult, format string) (string, error) {
	timestamp := time.Now().Format("20060102_150405")
	switch format {
	case "json":
		return r.generateJSON(result, timestamp)
	case "csv":
		return r.generateCSV(result, timestamp)
	default:
		return "", fmt.Errorf("unknown report format %q", format)
	}
}

type reportClip struct {
	OutputFile  string  `json:"output_file"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Duration    float64 `json:"duration"`
	Score       float64 `json:"score"`
	ViralFactor string  `json:"viral_factor"`
	Reason      string  `json:"reason"`
	Caption     string  `json:"caption,omitempty"`
}

type reportVideo struct {
	SourceFile     string       `json:"source_file"`
	Success        bool         `json:"success"`
	ProcessingTime float64      `json:"processing_time"`
	Transcriber    string       `json:"transcriber"`
	LLMProvider    string       `json:"llm_provider"`
	LLMModel       string       `json:"llm_model"`
	Language       string       `json:"language,omitempty"`
	Duration       float64      `json:"duration,omitempty"`
	Clips          []reportClip `json:"clips"`
	Compilation    string       `json:"compilation,omitempty"`
	Error          string       `json:"error,omitempty"`
}

type topClip struct {
	File        string  `json:"file"`
	Source      string  `json:"source"`
	Score       float64 `json:"score"`
	ViralFactor string  `json:"viral_factor"`
}

func (r *Reporter) generateJSON(result types.BatchResult, timestamp string) (string, error) {
	reportPath := filepath.Join(r.outputDir, fmt.Sprintf("batch_report_%s.json", timestamp))

	videos := make([]reportVideo, 0, len(result.Results))
	for _, vr := range result.Results {
		v := reportVideo{
			SourceFile:     vr.SourceFile,
			Success:        vr.Success,
			ProcessingTime: vr.ProcessingTime,
			Transcriber:    string(vr.TranscriberUsed),
			LLMProvider:    string(vr.LLMProviderUsed),
			LLMModel:       vr.LLMModelUsed,
			Compilation:    vr.CompilationFile,
			Error:          vr.Error,
			Clips:          []reportClip{},
		}
		if vr.Transcript != nil {
			v.Language = vr.Transcript.Language
			v.Duration = vr.Transcript.Duration
		}
		for _, cr := range vr.Clips {
			if !cr.Success {
				continue
			}
			v.Clips = append(v.Clips, reportClip{
				OutputFile:  cr.OutputFile,
				Start:       cr.Clip.Start,
				End:         cr.Clip.End,
				Duration:    cr.Clip.Duration(),
				Score:       viral.TotalScore(cr.Clip.Score),
				ViralFactor: cr.Clip.ViralFactor,
				Reason:      cr.Clip.Reason,
				Caption:     cr.Clip.SuggestedCaption,
			})
		}
		videos = append(videos, v)
	}

	report := struct {
		GeneratedAt string            `json:"generated_at"`
		Summary     map[string]any    `json:"summary"`
		Videos      []reportVideo     `json:"videos"`
		Errors      map[string]string `json:"errors"`
		TopClips    []topClip         `json:"top_clips"`
	}{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Summary: map[string]any{
			"total_videos":              result.TotalVideos,
			"successful":                result.Successful,
			"failed":                    result.Failed,
			"total_clips":               result.TotalClips,
			"processing_time_seconds":   result.ProcessingTime,
			"processing_time_formatted": formatDuration(result.ProcessingTime),
		},
		Videos:   videos,
		Errors:   result.Errors,
		TopClips: topClipsFor(result, 10),
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(reportPath, data, 0o644); err != nil {
		return "", err
	}
	return reportPath, nil
}

func (r *Reporter) generateCSV(result types.BatchResult, timestamp string) (string, error) {
	reportPath := filepath.Join(r.outputDir, fmt.Sprintf("batch_report_%s.csv", timestamp))

	f, err := os.Create(reportPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"Source Video", "Clip File", "Start Time", "End Time", "Duration", "Score", "Viral Factor", "Caption"}
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, vr := range result.Results {
		for _, cr := range vr.Clips {
			if !cr.Success {
				continue
			}
			row := []string{
				vr.SourceFile,
				cr.OutputFile,
				formatTime(cr.Clip.Start),
				formatTime(cr.Clip.End),
				fmt.Sprintf("%.1fs", cr.Clip.Duration()),
				fmt.Sprintf("%.1f", viral.TotalScore(cr.Clip.Score)),
				cr.Clip.ViralFactor,
				cr.Clip.SuggestedCaption,
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return reportPath, nil
}

// topClipsFor ranks every successful clip across every video by total
// score, independent of per-video rank.
func topClipsFor(result types.BatchResult, n int) []topClip {
	all := make([]topClip, 0, result.TotalClips)
	for _, vr := range result.Results {
		for _, cr := range vr.Clips {
			if !cr.Success {
				continue
			}
			all = append(all, topClip{
				File:        cr.OutputFile,
				Source:      vr.SourceFile,
				Score:       viral.TotalScore(cr.Clip.Score),
				ViralFactor: cr.Clip.ViralFactor,
			})
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Score > all[j].Score })
	if len(all) > n {
		all = all[:n]
	}
	return all
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	statStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)
)

// PrintSummary renders the batch outcome and the top clips across all
// videos.
func (r *Reporter) PrintSummary(w io.Writer, result types.BatchResult) {
	body := fmt.Sprintf("%s\n\nVideos: %s   Successful: %s   Failed: %s\nClips: %s   Time: %s",
		titleStyle.Render("Batch Complete"),
		statStyle.Render(fmt.Sprintf("%d", result.TotalVideos)),
		statStyle.Render(fmt.Sprintf("%d", result.Successful)),
		errStyle.Render(fmt.Sprintf("%d", result.Failed)),
		statStyle.Render(fmt.Sprintf("%d", result.TotalClips)),
		statStyle.Render(formatDuration(result.ProcessingTime)),
	)
	fmt.Fprintln(w, summaryStyle.Render(body))

	if top := topClipsFor(result, 5); len(top) > 0 {
		fmt.Fprintln(w, titleStyle.Render("Top Clips Across All Videos:"))
		for i, c := range top {
			fmt.Fprintf(w, "  %d. %s %s\n", i+1, filepath.Base(c.File),
				dimStyle.Render(fmt.Sprintf("(score %.1f, %s)", c.Score, c.ViralFactor)))
		}
	}

	if len(result.Errors) > 0 {
		fmt.Fprintln(w, errStyle.Render("Errors:"))
		paths := make([]string, 0, len(result.Errors))
		for p := range result.Errors {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for _, p := range paths {
			fmt.Fprintf(w, "  %s: %s\n", filepath.Base(p), result.Errors[p])
		}
	}
}

func formatTime(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func formatDuration(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	if d >= time.Minute {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%.1fs", seconds)
}
