package preflight

import (
	"fmt"
	"strings"

	"subclean/internal/config"
	"subclean/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Target names the paths a run reads from and writes to.
type Target struct {
	InputDir  string
	OutputDir string
	// NeedsTools requires ffprobe and ffmpeg. Cleaning a standalone SRT file
	// does not.
	NeedsTools bool
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config, target Target) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	if target.InputDir != "" {
		results = append(results, CheckDirectoryReadable("Input directory", target.InputDir))
	}
	if target.OutputDir != "" {
		results = append(results, EnsureOutputDir("Output directory", target.OutputDir))
	}
	if logFile := cfg.LogFilePath(); logFile != "" {
		results = append(results, EnsureOutputDir("Log directory", cfg.Paths.LogDir))
	}
	if target.NeedsTools {
		for _, status := range CheckSystemDeps(cfg) {
			result := Result{Name: status.Name, Passed: status.Available || status.Optional, Detail: status.Detail}
			if status.Available {
				result.Detail = status.Command
			}
			results = append(results, result)
		}
	}
	return results
}

// Err folds failed results into one invocation error.
func Err(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return services.Wrap(services.ErrInvocation, "preflight", "check", strings.Join(failed, "; "), nil)
}
