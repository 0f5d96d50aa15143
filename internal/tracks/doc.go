// Package tracks scores embedded subtitle tracks for CC/SDH pollution and
// selects the cleanest English text track of a container.
//
// A Scorer counts sound descriptions, speaker labels, upper-case lines and
// hearing-impaired markup per cue and adds a fixed penalty when the stream
// carries the hearing-impaired flag. Tracks that cannot produce a usable
// English text track are disqualified with an infinite score. Select picks
// the minimum finite score, preferring the lowest stream index on ties.
package tracks
