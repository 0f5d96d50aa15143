package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LogDir string `toml:"log_dir"`
}

// Tools names the external binaries used for probing and demuxing.
type Tools struct {
	FFprobe string `toml:"ffprobe"`
	FFmpeg  string `toml:"ffmpeg"`
}

// Batch contains configuration for directory extraction runs.
type Batch struct {
	// Workers caps the prepare-stage pool. Zero selects min(NumCPU, MaxWorkers).
	Workers    int      `toml:"workers"`
	MaxWorkers int      `toml:"max_workers"`
	Extensions []string `toml:"extensions"`
}

// Scoring contains the pollution score weights. Counts are normalized by the
// number of cues before the hearing-impaired penalty is added.
type Scoring struct {
	SoundDescriptionWeight      float64 `toml:"sound_description_weight"`
	SpeakerLabelWeight          float64 `toml:"speaker_label_weight"`
	UppercaseLineWeight         float64 `toml:"uppercase_line_weight"`
	HearingImpairedMarkupWeight float64 `toml:"hearing_impaired_markup_weight"`
	HearingImpairedPenalty      float64 `toml:"hearing_impaired_penalty"`
}

// Cleaning toggles rule categories and output behaviour for review runs.
type Cleaning struct {
	FormattingMarkup bool `toml:"formatting_markup"`
	Advertisement    bool `toml:"advertisement"`
	SoundDescription bool `toml:"sound_description"`
	SpeakerLabel     bool `toml:"speaker_label"`
	Whitespace       bool `toml:"whitespace"`
	Backup           bool `toml:"backup"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for subclean.
//
// Configuration sections by subsystem:
//   - Paths: optional log directory
//   - Tools: ffprobe/ffmpeg binaries
//   - Batch: worker pool sizing and container extensions
//   - Scoring: pollution scorer weights
//   - Cleaning: enabled rule categories and backup policy
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Tools    Tools    `toml:"tools"`
	Batch    Batch    `toml:"batch"`
	Scoring  Scoring  `toml:"scoring"`
	Cleaning Cleaning `toml:"cleaning"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. A missing file yields repository defaults.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// WorkerCount resolves the prepare-stage pool size: min(NumCPU, max_workers)
// unless workers is set explicitly, in which case it is still capped.
func (c *Config) WorkerCount() int {
	limit := c.Batch.MaxWorkers
	if limit <= 0 {
		limit = defaultMaxWorkers
	}
	workers := c.Batch.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > limit {
		workers = limit
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// FFprobeBinary returns the ffprobe executable used for stream enumeration.
func (c *Config) FFprobeBinary() string {
	if bin := strings.TrimSpace(c.Tools.FFprobe); bin != "" {
		return bin
	}
	return defaultFFprobe
}

// FFmpegBinary returns the ffmpeg executable used for subtitle demuxing.
func (c *Config) FFmpegBinary() string {
	if bin := strings.TrimSpace(c.Tools.FFmpeg); bin != "" {
		return bin
	}
	return defaultFFmpeg
}

// LogFilePath returns the optional log file, or "" when file logging is off.
func (c *Config) LogFilePath() string {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.LogDir, "subclean.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
