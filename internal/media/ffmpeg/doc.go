// Package ffmpeg extracts a single subtitle stream from a media container as
// SRT text using ffmpeg. Containers are never modified.
package ffmpeg
