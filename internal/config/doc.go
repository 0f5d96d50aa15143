// Package config loads, normalizes, and validates subclean configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SUBCLEAN_FFPROBE. The Config type centralizes every knob the extractor and
// the cleaner need: tool binaries, worker pool sizing, pollution score weights,
// and the cleaning rule categories that are enabled for a run.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
