package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"subclean/internal/batch"
	"subclean/internal/cleaning"
	"subclean/internal/config"
	"subclean/internal/logging"
	"subclean/internal/media/ffmpeg"
	"subclean/internal/review"
	"subclean/internal/services"
	"subclean/internal/tracks"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", path, err)
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		var level string
		if c.logLevelFlag != nil {
			level = strings.TrimSpace(*c.logLevelFlag)
		}
		logger, err := logging.NewFromConfig(cfg, level)
		if err != nil {
			c.loggerErr = services.Wrap(services.ErrConfiguration, "logging", "init", "", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// orchestrator wires the ffprobe and ffmpeg collaborators from config.
func (c *commandContext) orchestrator(cfg *config.Config, logger *slog.Logger, reviewer batch.Reviewer, workers int) *batch.Orchestrator {
	return &batch.Orchestrator{
		Inspector: batch.FFprobeInspector{Binary: cfg.FFprobeBinary()},
		Demuxer:   ffmpeg.NewDemuxer(cfg.FFmpegBinary()),
		Scorer:    tracks.NewScorer(cfg.Scoring),
		Review:    reviewer,
		Writer:    batch.FileWriter{},
		Workers:   workers,
		Logger:    logger,
	}
}

func newEngine(cfg *config.Config) *cleaning.Engine {
	return cleaning.NewEngine(cleaning.NewRuleSet(cfg.Cleaning))
}

// newDecider returns the console reviewer bound to the command's streams, or
// an accept-all decider when yes is set.
func newDecider(cmd *cobra.Command, yes bool) review.Decider {
	if yes {
		return review.AcceptAll{}
	}
	out := cmd.OutOrStdout()
	return review.NewConsole(cmd.InOrStdin(), out, review.ShouldColorize(out))
}

func invocationError(cmd *cobra.Command, format string, args ...any) error {
	return services.Wrap(services.ErrInvocation, "cli", cmd.Name(), fmt.Sprintf(format, args...), nil)
}

// invocationArgs tags positional argument errors as invalid invocations.
func invocationArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return services.Wrap(services.ErrInvocation, "cli", cmd.Name(), "arguments", err)
		}
		return nil
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
