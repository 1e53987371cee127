package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"viralcut/internal/config"
	"viralcut/internal/pipeline"
	"viralcut/internal/types"
)

// resolveOptions merges config-file defaults with flag overrides. An
// unset flag keeps the configured value.
func resolveOptions(cmd *cobra.Command, cfg *config.Config) (pipeline.Options, string, error) {
	d := cfg.Defaults

	if v, _ := cmd.Flags().GetString("transcriber"); v != "" {
		d.Transcriber = v
	}
	if v, _ := cmd.Flags().GetString("provider"); v != "" {
		d.LLMProvider = v
	}
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		d.LLMModel = v
	}
	if v, _ := cmd.Flags().GetInt("clips"); v > 0 {
		d.NumClips = v
	}
	if v, _ := cmd.Flags().GetFloat64("min-duration"); v > 0 {
		d.MinDuration = v
	}
	if v, _ := cmd.Flags().GetFloat64("max-duration"); v > 0 {
		d.MaxDuration = v
	}
	if v, _ := cmd.Flags().GetString("language"); v != "" {
		d.Language = v
	}
	if v, _ := cmd.Flags().GetString("out"); v != "" {
		d.OutputDir = v
	}

	compilation, _ := cmd.Flags().GetBool("compilation")

	opts := pipeline.Options{
		Transcriber: types.TranscriberType(d.Transcriber),
		LLMProvider: types.LLMProviderType(d.LLMProvider),
		LLMModel:    d.LLMModel,
		NumClips:    d.NumClips,
		MinDuration: d.MinDuration,
		MaxDuration: d.MaxDuration,
		Language:    d.Language,
		Fade:        time.Duration(d.FadeSec * float64(time.Second)),
		Compilation: compilation,
		Crossfade:   time.Duration(d.CrossfadeSec * float64(time.Second)),
		CacheDir:    cfg.Paths.CacheDir,
		Logf: func(format string, args ...any) {
			fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
		},
	}
	if err := opts.Validate(); err != nil {
		return pipeline.Options{}, "", err
	}
	return opts, d.OutputDir, nil
}

// checkAvailability probes the selected backends before any work starts
// so a missing binary or unreachable host fails fast with a clear error.
func checkAvailability(ctx context.Context, deps pipeline.Deps) error {
	if !deps.ASR.IsAvailable(ctx) {
		return fmt.Errorf("transcriber %s is not available", deps.ASR.Name())
	}
	if !deps.LLM.IsAvailable(ctx) {
		return fmt.Errorf("llm provider %s is not available", deps.LLM.Name())
	}
	return nil
}
