package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"viralcut/internal/batch"
	"viralcut/internal/config"
	"viralcut/internal/pipeline"
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Process every video in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args[0])
		},
	}
	addPipelineFlags(cmd)
	f := cmd.Flags()
	f.StringSlice("pattern", nil, "Glob patterns to match (default: common video extensions)")
	f.Bool("recursive", false, "Scan subdirectories")
	f.Int("workers", 2, "Number of videos processed concurrently")
	f.Bool("resume", false, "Skip videos completed by a previous run")
	f.String("report", "json", "Report format: json or csv")
	return cmd
}

func runBatch(cmd *cobra.Command, input string) error {
	cfg, err := config.LoadDefault()
	if err != nil {
		return err
	}
	opts, outputDir, err := resolveOptions(cmd, cfg)
	if err != nil {
		return err
	}

	patterns, _ := cmd.Flags().GetStringSlice("pattern")
	recursive, _ := cmd.Flags().GetBool("recursive")
	workers, _ := cmd.Flags().GetInt("workers")
	resume, _ := cmd.Flags().GetBool("resume")
	reportFormat, _ := cmd.Flags().GetString("report")

	deps, err := pipeline.BuildDeps(cfg, opts)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := checkAvailability(ctx, deps); err != nil {
		return err
	}

	pipe := pipeline.New(deps, opts)
	proc, err := batch.NewProcessor(pipe.ProcessVideo, outputDir, opts.Logf)
	if err != nil {
		return err
	}

	result, err := proc.Run(ctx, input, batch.Options{
		Patterns:  patterns,
		Recursive: recursive,
		Workers:   workers,
		Resume:    resume,
	})
	if err != nil {
		return err
	}

	reporter, err := batch.NewReporter(outputDir)
	if err != nil {
		return err
	}
	reportPath, err := reporter.Generate(result, reportFormat)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	reporter.PrintSummary(out, result)
	fmt.Fprintf(out, "report: %s\n", reportPath)

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d videos failed", result.Failed, result.TotalVideos)
	}
	return nil
}
