// Package review runs the per-cue decision loop over a file's cleaning
// results.
//
// Every cue starts Pending. Cues without candidate edits are resolved
// Accepted immediately with their original text; the rest are presented in
// ascending order to a Decider, which returns one action per cue. A quit,
// end of input or context cancellation ends the session with
// services.ErrUserAbort; decisions already recorded are kept and Output
// merges them with the original text of everything left unreviewed.
//
// The Decider boundary is synchronous request/response so tests can feed a
// Script instead of a terminal.
package review
