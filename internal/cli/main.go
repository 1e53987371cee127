package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "viralcut",
		Short:        "Find and cut viral moments from video",
		SilenceUsage: true,
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.AddCommand(newProcessCmd())
	root.AddCommand(newBatchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// addPipelineFlags registers the knobs shared by process and batch.
func addPipelineFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("transcriber", "", "Transcription backend: whisper or assemblyai")
	f.String("provider", "", "LLM backend: ollama, openai or openrouter")
	f.String("model", "", "LLM model name (provider default when empty)")
	f.Int("clips", 0, "Number of clips to produce")
	f.Float64("min-duration", 0, "Minimum clip length in seconds")
	f.Float64("max-duration", 0, "Maximum clip length in seconds")
	f.String("language", "", "Transcript language code, or auto")
	f.String("out", "", "Output directory")
	f.Bool("compilation", false, "Also stitch the clips into one compilation video")
}
