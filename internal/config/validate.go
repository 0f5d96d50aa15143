package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScoring(); err != nil {
		return err
	}
	if err := c.validateCleaning(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScoring() error {
	// Sound descriptions and speaker labels must strictly raise the score,
	// otherwise a noisier track could tie a clean one.
	if err := ensurePositiveMap(map[string]float64{
		"scoring.sound_description_weight": c.Scoring.SoundDescriptionWeight,
		"scoring.speaker_label_weight":     c.Scoring.SpeakerLabelWeight,
	}); err != nil {
		return err
	}
	if err := ensureNonNegativeMap(map[string]float64{
		"scoring.uppercase_line_weight":          c.Scoring.UppercaseLineWeight,
		"scoring.hearing_impaired_markup_weight": c.Scoring.HearingImpairedMarkupWeight,
		"scoring.hearing_impaired_penalty":       c.Scoring.HearingImpairedPenalty,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCleaning() error {
	if !c.Cleaning.FormattingMarkup && !c.Cleaning.Advertisement && !c.Cleaning.SoundDescription && !c.Cleaning.SpeakerLabel && !c.Cleaning.Whitespace {
		return errors.New("cleaning: at least one rule category must be enabled")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]float64) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}

func ensureNonNegativeMap(values map[string]float64) error {
	for key, value := range values {
		if value < 0 {
			return fmt.Errorf("%s must be >= 0", key)
		}
	}
	return nil
}
