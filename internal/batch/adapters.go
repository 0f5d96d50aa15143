package batch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"subclean/internal/cleaning"
	"subclean/internal/language"
	"subclean/internal/media/ffprobe"
	"subclean/internal/review"
	"subclean/internal/services"
	"subclean/internal/srt"
	"subclean/internal/tracks"
)

// Inspector lists the subtitle streams of a container.
type Inspector interface {
	Inspect(ctx context.Context, path string) ([]tracks.Descriptor, error)
}

// Demuxer extracts one subtitle stream as SRT bytes.
type Demuxer interface {
	Extract(ctx context.Context, path string, streamIndex int) ([]byte, error)
}

// Reviewer turns the selected track's cues into the cues to write. A
// returned error wrapping services.ErrUserAbort still carries the cues that
// should be flushed.
type Reviewer interface {
	Review(ctx context.Context, name string, cues []srt.Cue) ([]srt.Cue, review.Stats, error)
}

// Writer persists cues.
type Writer interface {
	WriteCues(path string, cues []srt.Cue) error
}

// FFprobeInspector inspects containers with the ffprobe binary.
type FFprobeInspector struct {
	Binary string
}

func (p FFprobeInspector) Inspect(ctx context.Context, path string) ([]tracks.Descriptor, error) {
	result, err := ffprobe.Inspect(ctx, p.Binary, path)
	if err != nil {
		return nil, err
	}
	streams := result.SubtitleStreams()
	descriptors := make([]tracks.Descriptor, 0, len(streams))
	for _, stream := range streams {
		descriptors = append(descriptors, tracks.Descriptor{
			Index:           stream.Index,
			Codec:           stream.CodecName,
			Language:        language.ExtractFromTags(stream.Tags),
			Title:           stream.Title(),
			HearingImpaired: stream.HearingImpaired(),
			Forced:          stream.Forced(),
		})
	}
	return descriptors, nil
}

// SessionReviewer runs an interactive review session per file.
type SessionReviewer struct {
	Engine  *cleaning.Engine
	Decider review.Decider
	Logger  *slog.Logger
}

func (r SessionReviewer) Review(ctx context.Context, name string, cues []srt.Cue) ([]srt.Cue, review.Stats, error) {
	session, err := review.NewSession(name, cues, r.Engine, r.Logger)
	if err != nil {
		return nil, review.Stats{}, err
	}
	runErr := session.Run(ctx, r.Decider)
	return session.Output(), session.Stats(), runErr
}

// PassThrough writes the selected track unchanged.
type PassThrough struct{}

func (PassThrough) Review(_ context.Context, _ string, cues []srt.Cue) ([]srt.Cue, review.Stats, error) {
	out := make([]srt.Cue, len(cues))
	for i, cue := range cues {
		out[i] = cue.Clone()
	}
	return srt.Renumber(out), review.Stats{Total: len(cues), Automatic: len(cues)}, nil
}

// FileWriter writes SRT files atomically, creating parent directories.
type FileWriter struct{}

func (FileWriter) WriteCues(path string, cues []srt.Cue) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return services.Wrap(services.ErrIO, "batch", "create output dir", path, err)
	}
	return srt.WriteFile(path, cues)
}
