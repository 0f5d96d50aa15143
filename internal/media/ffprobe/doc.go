// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual stream properties including tags and disposition
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns parsed Result
//
// Helper methods on Stream interpret the language tag, title, and the
// hearing-impaired and forced flags, falling back to title keywords when
// the container lacks a disposition.
package ffprobe
