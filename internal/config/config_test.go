package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "whisper", cfg.Defaults.Transcriber)
	assert.Equal(t, "ollama", cfg.Defaults.LLMProvider)
	assert.Equal(t, 5, cfg.Defaults.NumClips)
	assert.Equal(t, 15.0, cfg.Defaults.MinDuration)
	assert.Equal(t, 60.0, cfg.Defaults.MaxDuration)
	assert.Equal(t, "ffmpeg", cfg.Paths.FFmpeg)
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Defaults.NumClips = 8
	cfg.Defaults.LLMProvider = "openrouter"
	cfg.Paths.CacheDir = "/tmp/vc-cache"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, loaded.Defaults.NumClips)
	assert.Equal(t, "openrouter", loaded.Defaults.LLMProvider)
	assert.Equal(t, "/tmp/vc-cache", loaded.Paths.CacheDir)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("defaults:\n  num_clips: 3\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Defaults.NumClips)
	assert.Equal(t, "whisper", cfg.Defaults.Transcriber, "unset keys keep defaults")
}

func TestLoad_InvalidYAMLErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("defaults: [not a map"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	assert.Equal(t, "http://localhost:11434", OllamaHost())

	t.Setenv("OLLAMA_HOST", "http://gpu-box:11434")
	assert.Equal(t, "http://gpu-box:11434", OllamaHost())

	t.Setenv("OPENROUTER_BASE_URL", "")
	assert.Equal(t, "https://openrouter.ai", OpenRouterBaseURL())
}
