package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"subclean/internal/batch"
	"subclean/internal/fileutil"
	"subclean/internal/preflight"
	"subclean/internal/services"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var yes bool
	var noReview bool
	var workers int

	cmd := &cobra.Command{
		Use:   "extract <input-dir> [output-dir]",
		Short: "Extract the least polluted English subtitle from every container in a directory",
		Long: `Extract walks input-dir for video containers, scores every English text
subtitle stream, and writes the cleanest one as <name>.srt into output-dir
(default: input-dir). Each selected track is reviewed cue by cue unless
--yes or --no-review is given.`,
		Args: invocationArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if yes && noReview {
				return invocationError(cmd, "--yes and --no-review are mutually exclusive")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			inputDir := filepath.Clean(args[0])
			outputDir := inputDir
			if len(args) > 1 {
				outputDir = filepath.Clean(args[1])
			}
			if err := preflight.Err(preflight.RunAll(cfg, preflight.Target{
				InputDir:   inputDir,
				OutputDir:  outputDir,
				NeedsTools: true,
			})); err != nil {
				return err
			}

			lock, err := fileutil.AcquireLock(outputDir)
			if err != nil {
				if errors.Is(err, fileutil.ErrLocked) {
					return services.Wrap(services.ErrInvocation, "cli", "extract", "another review is running for "+outputDir, err)
				}
				return services.Wrap(services.ErrIO, "cli", "extract", outputDir, err)
			}
			defer lock.Release()

			if !cmd.Flags().Changed("workers") {
				workers = cfg.WorkerCount()
			}
			if workers < 1 {
				return invocationError(cmd, "--workers must be at least 1")
			}

			var reviewer batch.Reviewer = batch.PassThrough{}
			if !noReview {
				reviewer = batch.SessionReviewer{
					Engine:  newEngine(cfg),
					Decider: newDecider(cmd, yes),
					Logger:  logger,
				}
			}

			report, err := ctx.orchestrator(cfg, logger, reviewer, workers).Run(cmd.Context(), batch.Request{
				InputDir:   inputDir,
				OutputDir:  outputDir,
				Extensions: cfg.Batch.Extensions,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(report.Files) == 0 {
				fmt.Fprintf(out, "No video files found in %s\n", inputDir)
				return nil
			}
			summary := fmt.Sprintf("%d written, %d failed in %s",
				report.Count(batch.StatusWritten)+report.Count(batch.StatusAborted),
				report.Count(batch.StatusFailed),
				report.Elapsed.Round(time.Millisecond),
			)
			cols := alignRight(leftColumns(batch.ReportHeaders...), "Score", "Reviewed", "Removed")
			fmt.Fprintln(out, renderTable(cols, report.Rows(), summary))
			return report.Err()
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Accept every proposed edit without prompting")
	cmd.Flags().BoolVar(&noReview, "no-review", false, "Write the selected track unchanged")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent files to prepare (default from config)")
	return cmd
}
