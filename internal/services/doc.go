// Package services defines shared utilities consumed by the extraction and
// cleaning stages and their external tool adapters.
//
// Key responsibilities:
//   - Context helpers that stamp file names, stages, and review session
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     into per-file skips, fatal invocation errors, and user aborts.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
