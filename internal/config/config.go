package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the process-wide configuration, built once at startup and
// passed down explicitly. Secrets stay in the environment; the YAML file
// only carries paths and defaults.
type Config struct {
	Defaults DefaultsConfig `yaml:"defaults"`
	Paths    PathsConfig    `yaml:"paths"`
}

type DefaultsConfig struct {
	Transcriber  string  `yaml:"transcriber"`
	LLMProvider  string  `yaml:"llm_provider"`
	LLMModel     string  `yaml:"llm_model"`
	NumClips     int     `yaml:"num_clips"`
	MinDuration  float64 `yaml:"min_duration"`
	MaxDuration  float64 `yaml:"max_duration"`
	Language     string  `yaml:"language"`
	OutputDir    string  `yaml:"output_dir"`
	FadeSec      float64 `yaml:"fade_sec"`
	CrossfadeSec float64 `yaml:"crossfade_sec"`
}

type PathsConfig struct {
	FFmpeg       string `yaml:"ffmpeg"`
	FFprobe      string `yaml:"ffprobe"`
	WhisperBin   string `yaml:"whisper_bin"`
	WhisperModel string `yaml:"whisper_model"`
	CacheDir     string `yaml:"cache_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Transcriber:  "whisper",
			LLMProvider:  "ollama",
			NumClips:     5,
			MinDuration:  15,
			MaxDuration:  60,
			Language:     "auto",
			OutputDir:    "./output",
			FadeSec:      0.3,
			CrossfadeSec: 0.5,
		},
		Paths: PathsConfig{
			FFmpeg:       "ffmpeg",
			FFprobe:      "ffprobe",
			WhisperBin:   ".cache/bin/whisper.cpp",
			WhisperModel: ".cache/models/ggml-base.bin",
			CacheDir:     ".cache",
		},
	}
}

// ConfigPath returns the config file location (~/.viralcut/config.yaml).
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".viralcut", "config.yaml")
	}
	return filepath.Join(home, ".viralcut", "config.yaml")
}

// Load reads config from path, returning defaults when the file does not
// exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func LoadDefault() (*Config, error) {
	return Load(ConfigPath())
}

func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Env-only settings. API keys never live in the YAML file.

func OpenAIKey() string     { return os.Getenv("OPENAI_API_KEY") }
func OpenRouterKey() string { return os.Getenv("OPENROUTER_API_KEY") }
func AssemblyAIKey() string { return os.Getenv("ASSEMBLYAI_API_KEY") }

func OpenRouterBaseURL() string {
	return getenvDefault("OPENROUTER_BASE_URL", "https://openrouter.ai")
}

func OllamaHost() string {
	return getenvDefault("OLLAMA_HOST", "http://localhost:11434")
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
