package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"viralcut/internal/config"
	"viralcut/internal/pipeline"
)

func newProcessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <video>",
		Short: "Process a single video into viral clips",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, args[0])
		},
	}
	addPipelineFlags(cmd)
	return cmd
}

func runProcess(cmd *cobra.Command, input string) error {
	cfg, err := config.LoadDefault()
	if err != nil {
		return err
	}
	opts, outputDir, err := resolveOptions(cmd, cfg)
	if err != nil {
		return err
	}

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	deps, err := pipeline.BuildDeps(cfg, opts)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := checkAvailability(ctx, deps); err != nil {
		return err
	}

	result := pipeline.New(deps, opts).ProcessVideo(ctx, absIn, outputDir)
	if !result.Success {
		return errors.New(result.Error)
	}

	out := cmd.OutOrStdout()
	succeeded := 0
	for _, c := range result.Clips {
		if c.Success {
			succeeded++
			fmt.Fprintf(out, "  %s\n", c.OutputFile)
		} else {
			fmt.Fprintf(out, "  failed %.1f-%.1fs: %s\n", c.Clip.Start, c.Clip.End, c.Error)
		}
	}
	if result.CompilationFile != "" {
		fmt.Fprintf(out, "  %s\n", result.CompilationFile)
	}
	fmt.Fprintf(out, "done: %d/%d clips in %.1fs\n", succeeded, len(result.Clips), result.ProcessingTime)
	return nil
}
