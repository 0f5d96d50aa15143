package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"subclean/internal/language"
	"subclean/internal/preflight"
	"subclean/internal/tracks"
)

func newTracksCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tracks <container>",
		Short: "Show every subtitle stream in a container and its pollution score",
		Args:  invocationArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if err := preflight.Err(preflight.RunAll(cfg, preflight.Target{NeedsTools: true})); err != nil {
				return err
			}

			eval, err := ctx.orchestrator(cfg, logger, nil, 1).Evaluate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(eval.Descriptors) == 0 {
				fmt.Fprintf(out, "No subtitle streams in %s\n", args[0])
				return nil
			}

			descriptors := make(map[int]tracks.Descriptor, len(eval.Descriptors))
			for _, d := range eval.Descriptors {
				descriptors[d.Index] = d
			}
			selected, selectErr := tracks.Select(eval.Scores)

			cols := alignRight(leftColumns("Stream", "Codec", "Language", "Title", "Flags", "Cues", "Score", "Note"), "Stream", "Cues", "Score")
			rows := make([][]string, 0, len(eval.Scores))
			for _, score := range tracks.Rank(eval.Scores) {
				d := descriptors[score.TrackIndex]
				note := score.Reason
				if selectErr == nil && score.TrackIndex == selected.TrackIndex {
					note = "selected"
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", d.Index),
					d.Codec,
					displayLanguage(d.Language),
					d.Title,
					flags(d),
					fmt.Sprintf("%d", score.Counts.Cues),
					score.String(),
					note,
				})
			}
			fmt.Fprintln(out, renderTable(cols, rows, args[0]))
			if selectErr != nil {
				fmt.Fprintln(out, "No eligible English text track")
				return selectErr
			}
			return nil
		},
	}
}

func displayLanguage(tag string) string {
	if strings.TrimSpace(tag) == "" {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", language.DisplayName(tag), tag)
}

func flags(d tracks.Descriptor) string {
	var parts []string
	if d.HearingImpaired {
		parts = append(parts, "SDH")
	}
	if d.Forced {
		parts = append(parts, "forced")
	}
	if d.IsBitmap() {
		parts = append(parts, "bitmap")
	}
	return strings.Join(parts, ",")
}
