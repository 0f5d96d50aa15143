package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Demuxer extracts subtitle streams to SRT.
type Demuxer struct {
	binary string
	run    commandRunner
}

// NewDemuxer constructs a demuxer that invokes the given ffmpeg binary.
func NewDemuxer(binary string) *Demuxer {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Demuxer{binary: binary, run: defaultCommandRunner}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (d *Demuxer) WithCommandRunner(r commandRunner) {
	if d != nil && r != nil {
		d.run = r
	}
}

// Binary returns the ffmpeg executable the demuxer invokes.
func (d *Demuxer) Binary() string {
	if d == nil {
		return ""
	}
	return d.binary
}

// Args builds the ffmpeg argument list that writes stream streamIndex of path
// to stdout as SRT.
func Args(path string, streamIndex int) []string {
	return []string{
		"-nostdin",
		"-v", "error",
		"-i", path,
		"-map", "0:" + strconv.Itoa(streamIndex),
		"-c:s", "srt",
		"-f", "srt",
		"-",
	}
}

// Extract returns the SRT bytes of one subtitle stream.
func (d *Demuxer) Extract(ctx context.Context, path string, streamIndex int) ([]byte, error) {
	if d == nil {
		return nil, errors.New("demuxer not initialized")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("ffmpeg extract: empty path")
	}
	if streamIndex < 0 {
		return nil, fmt.Errorf("ffmpeg extract: invalid stream index %d", streamIndex)
	}
	output, err := d.run(ctx, d.binary, Args(path, streamIndex)...)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg extract stream %d: %w", streamIndex, err)
	}
	return output, nil
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		// Include stderr in error for debugging
		return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return output, nil
}
