// Package srt models SubRip cues and reads and writes the SRT text format.
//
// Parse accepts the variations real demuxers produce: a UTF-8 byte order
// mark, CRLF line endings, '.' instead of ',' before the milliseconds,
// hour fields wider than two digits, and trailing position settings after
// the end time. Input that is not valid UTF-8 is decoded as ISO-8859-1.
// Parse stable-sorts cues by start time; Format renumbers them from 1.
package srt
