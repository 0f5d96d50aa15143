package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"subclean/internal/fileutil"
	"subclean/internal/logging"
	"subclean/internal/preflight"
	"subclean/internal/review"
	"subclean/internal/services"
	"subclean/internal/srt"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var yes bool
	var noBackup bool

	cmd := &cobra.Command{
		Use:   "clean <file.srt>",
		Short: "Review and clean an existing SRT file",
		Long: `Clean proposes removals of sound descriptions, speaker labels, and
formatting markup for every cue and asks for a decision on each change.
Without --output the file is rewritten in place and the original is kept
as <file>.srt.backup.`,
		Args: invocationArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			input := filepath.Clean(args[0])
			target := input
			if outputPath != "" {
				target = filepath.Clean(outputPath)
			}
			if err := preflight.Err(preflight.RunAll(cfg, preflight.Target{OutputDir: filepath.Dir(target)})); err != nil {
				return err
			}
			lock, err := fileutil.AcquireLock(filepath.Dir(target))
			if err != nil {
				if errors.Is(err, fileutil.ErrLocked) {
					return services.Wrap(services.ErrInvocation, "cli", "clean", "another review is running for "+filepath.Dir(target), err)
				}
				return services.Wrap(services.ErrIO, "cli", "clean", target, err)
			}
			defer lock.Release()

			cues, err := srt.ParseFile(input)
			if err != nil {
				return err
			}
			session, err := review.NewSession(filepath.Base(input), cues, newEngine(cfg), logger)
			if err != nil {
				return err
			}
			runErr := session.Run(cmd.Context(), newDecider(cmd, yes))
			if runErr != nil && !errors.Is(runErr, services.ErrUserAbort) {
				return runErr
			}

			if target == input && cfg.Cleaning.Backup && !noBackup {
				backup, err := fileutil.Backup(input)
				if err != nil {
					return services.Wrap(services.ErrIO, "cli", "backup", input, err)
				}
				logger.Info("backup written", logging.String("backup", backup))
			}
			output := session.Output()
			if err := srt.WriteFile(target, output); err != nil {
				return err
			}

			stats := session.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %s: %d cues, %d reviewed (%d accepted, %d edited, %d skipped), %d removed\n",
				target, len(output), stats.Reviewed, stats.Accepted, stats.Edited, stats.Skipped, stats.Removed)
			if stats.Unresolved > 0 {
				fmt.Fprintf(out, "%d cues left unreviewed kept their original text\n", stats.Unresolved)
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the cleaned file here instead of in place")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Accept every proposed edit without prompting")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Do not keep a .backup copy when rewriting in place")
	return cmd
}
