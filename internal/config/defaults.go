package config

const (
	defaultConfigPath = "~/.config/subclean/config.toml"
	defaultFFprobe    = "ffprobe"
	defaultFFmpeg     = "ffmpeg"
	defaultMaxWorkers = 8
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
)

var defaultExtensions = []string{".mkv", ".mp4", ".m4v", ".webm", ".ts", ".m2ts"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tools: Tools{
			FFprobe: defaultFFprobe,
			FFmpeg:  defaultFFmpeg,
		},
		Batch: Batch{
			MaxWorkers: defaultMaxWorkers,
			Extensions: append([]string(nil), defaultExtensions...),
		},
		Scoring: Scoring{
			SoundDescriptionWeight:      1.0,
			SpeakerLabelWeight:          1.0,
			UppercaseLineWeight:         0.5,
			HearingImpairedMarkupWeight: 0.75,
			HearingImpairedPenalty:      2.0,
		},
		Cleaning: Cleaning{
			FormattingMarkup: true,
			Advertisement:    true,
			SoundDescription: true,
			SpeakerLabel:     true,
			Whitespace:       true,
			Backup:           true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
