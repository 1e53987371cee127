package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"viralcut/internal/types"
)

const (
	defaultBaseURL = "https://api.assemblyai.com"
	pollInterval   = 3 * time.Second
)

// Adapter transcribes through the AssemblyAI HTTP API: upload the audio,
// create a transcript job, then poll until it settles.
type Adapter struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func New(apiKey, baseURL string) *Adapter {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Adapter{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Minute},
	}
}

func (a *Adapter) Name() string { return "AssemblyAI" }

func (a *Adapter) IsAvailable(_ context.Context) bool { return a.apiKey != "" }

type transcriptStatus struct {
	ID            string  `json:"id"`
	Status        string  `json:"status"`
	Error         string  `json:"error"`
	LanguageCode  string  `json:"language_code"`
	AudioDuration float64 `json:"audio_duration"`
	Text          string  `json:"text"`
	Utterances    []struct {
		Start   int64  `json:"start"` // milliseconds
		End     int64  `json:"end"`
		Text    string `json:"text"`
		Speaker string `json:"speaker"`
	} `json:"utterances"`
}

func (a *Adapter) Transcribe(ctx context.Context, audioPath, language string) (types.TranscriptResult, error) {
	uploadURL, err := a.upload(ctx, audioPath)
	if err != nil {
		return types.TranscriptResult{}, err
	}

	id, err := a.createTranscript(ctx, uploadURL, language)
	if err != nil {
		return types.TranscriptResult{}, err
	}

	st, err := a.poll(ctx, id)
	if err != nil {
		return types.TranscriptResult{}, err
	}

	segments := make([]types.TranscriptSegment, 0, len(st.Utterances))
	var duration float64
	for _, u := range st.Utterances {
		seg := types.TranscriptSegment{
			Start:   float64(u.Start) / 1000,
			End:     float64(u.End) / 1000,
			Text:    strings.TrimSpace(u.Text),
			Speaker: u.Speaker,
		}
		if seg.Text == "" {
			continue
		}
		segments = append(segments, seg)
		if seg.End > duration {
			duration = seg.End
		}
	}
	if st.AudioDuration > duration {
		duration = st.AudioDuration
	}

	lang := st.LanguageCode
	if lang == "" {
		lang = language
	}
	return types.TranscriptResult{
		Segments: segments,
		Language: lang,
		Duration: duration,
		FullText: st.Text,
	}, nil
}

func (a *Adapter) upload(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v2/upload", f)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", a.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	var out struct {
		UploadURL string `json:"upload_url"`
	}
	if err := a.do(req, &out); err != nil {
		return "", fmt.Errorf("assemblyai upload: %w", err)
	}
	return out.UploadURL, nil
}

func (a *Adapter) createTranscript(ctx context.Context, audioURL, language string) (string, error) {
	payload := map[string]any{
		"audio_url":      audioURL,
		"speaker_labels": true,
	}
	if language == "" || language == "auto" {
		payload["language_detection"] = true
	} else {
		payload["language_code"] = language
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v2/transcript", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var st transcriptStatus
	if err := a.do(req, &st); err != nil {
		return "", fmt.Errorf("assemblyai create transcript: %w", err)
	}
	return st.ID, nil
}

func (a *Adapter) poll(ctx context.Context, id string) (transcriptStatus, error) {
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/v2/transcript/"+id, nil)
		if err != nil {
			return transcriptStatus{}, err
		}
		req.Header.Set("Authorization", a.apiKey)

		var st transcriptStatus
		if err := a.do(req, &st); err != nil {
			return transcriptStatus{}, fmt.Errorf("assemblyai poll: %w", err)
		}

		switch st.Status {
		case "completed":
			return st, nil
		case "error":
			return transcriptStatus{}, fmt.Errorf("assemblyai transcription failed: %s", st.Error)
		}

		select {
		case <-ctx.Done():
			return transcriptStatus{}, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

func (a *Adapter) do(req *http.Request, out any) error {
	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(rb), 400))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
