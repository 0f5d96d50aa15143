package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"subclean/internal/logging"
	"subclean/internal/review"
	"subclean/internal/services"
	"subclean/internal/srt"
	"subclean/internal/tracks"
)

// Status describes what happened to one input file.
type Status string

const (
	StatusWritten    Status = "written"
	StatusFailed     Status = "failed"
	StatusAborted    Status = "aborted"
	StatusNotReached Status = "not reached"
)

// FileReport is the outcome for one input file.
type FileReport struct {
	Input      string
	Output     string
	Status     Status
	Track      tracks.Descriptor
	Score      tracks.Score
	Candidates int
	Stats      review.Stats
	Err        error
}

// Report lists per-file outcomes in input order.
type Report struct {
	Files   []FileReport
	Aborted bool
	Elapsed time.Duration
}

// Count returns how many files ended with status.
func (r Report) Count(status Status) int {
	n := 0
	for _, f := range r.Files {
		if f.Status == status {
			n++
		}
	}
	return n
}

// Err summarizes the batch as a single error. It wraps services.ErrUserAbort
// when the reviewer stopped the batch.
func (r Report) Err() error {
	if r.Aborted {
		return services.Wrap(services.ErrUserAbort, "batch", "run", fmt.Sprintf("stopped after %d of %d files", r.Count(StatusWritten), len(r.Files)), nil)
	}
	if failed := r.Count(StatusFailed); failed > 0 {
		return fmt.Errorf("batch: %d of %d files failed", failed, len(r.Files))
	}
	return nil
}

// Request describes one batch run.
type Request struct {
	InputDir   string
	OutputDir  string
	Extensions []string
	// Files overrides discovery when non-empty. Order is preserved.
	Files []string
}

// Orchestrator prepares files concurrently and reviews them one at a time.
type Orchestrator struct {
	Inspector Inspector
	Demuxer   Demuxer
	Scorer    *tracks.Scorer
	Review    Reviewer
	Writer    Writer
	Workers   int
	Logger    *slog.Logger
}

type prepared struct {
	track      tracks.Track
	score      tracks.Score
	candidates int
	held       bool
	err        error
}

func (o *Orchestrator) validate() error {
	switch {
	case o.Inspector == nil:
		return errors.New("inspector is required")
	case o.Demuxer == nil:
		return errors.New("demuxer is required")
	case o.Scorer == nil:
		return errors.New("scorer is required")
	case o.Review == nil:
		return errors.New("reviewer is required")
	case o.Writer == nil:
		return errors.New("writer is required")
	}
	return nil
}

// Run processes every input file. Per-file failures are recorded in the
// report and the batch continues; the returned error is reserved for
// failures that prevent the batch from starting.
func (o *Orchestrator) Run(ctx context.Context, req Request) (Report, error) {
	if err := o.validate(); err != nil {
		return Report{}, services.Wrap(services.ErrInvocation, "batch", "validate", "", err)
	}
	logger := logging.NewComponentLogger(o.Logger, "batch")
	started := time.Now()

	files := req.Files
	if len(files) == 0 {
		found, err := Discover(req.InputDir, req.Extensions)
		if err != nil {
			return Report{}, services.Wrap(services.ErrIO, "batch", "discover", req.InputDir, err)
		}
		files = found
	}
	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = req.InputDir
	}
	report := Report{Files: make([]FileReport, 0, len(files))}
	if len(files) == 0 {
		logger.Info("no input files found", logging.String("input_dir", req.InputDir))
		return report, nil
	}

	outputs, collisions := planOutputs(outputDir, req.InputDir, files)
	for path, n := range collisions {
		logging.WarnWithContext(logger, "output path claimed by several inputs", "output_collision",
			logging.String("output", path),
			logging.Int("inputs", n),
			logging.String(logging.FieldErrorHint, "rename the inputs so their names differ"),
			logging.String(logging.FieldImpact, "colliding files skipped"),
		)
	}

	workers := max(o.Workers, 1)
	logger.Info("batch started",
		logging.Int("files", len(files)),
		logging.Int("workers", workers),
		logging.String("output_dir", outputDir),
	)

	prepCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	slots := make([]chan prepared, len(files))
	for i := range slots {
		slots[i] = make(chan prepared, 1)
	}
	window := make(chan struct{}, 2*workers)
	produced := make(chan struct{})
	go func() {
		defer close(produced)
		o.produce(prepCtx, files, slots, window, workers)
	}()

	next := 0
	for ; next < len(files); next++ {
		p := <-slots[next]
		var entry FileReport
		var stop bool
		if n, ok := collisions[outputs[next]]; ok {
			entry = collisionReport(files[next], outputs[next], n)
		} else {
			entry, stop = o.consume(ctx, logger, files[next], outputs[next], p)
		}
		if p.held {
			<-window
		}
		report.Files = append(report.Files, entry)
		if stop {
			report.Aborted = true
			next++
			break
		}
	}
	cancel()
	<-produced
	for ; next < len(files); next++ {
		report.Files = append(report.Files, FileReport{Input: files[next], Status: StatusNotReached})
	}

	report.Elapsed = time.Since(started)
	logger.Info("batch finished",
		logging.Int("written", report.Count(StatusWritten)),
		logging.Int("failed", report.Count(StatusFailed)),
		logging.Bool("aborted", report.Aborted),
		logging.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

// produce prepares files in order on a bounded pool. Each file first takes a
// window slot, released by the consumer once the file is reviewed.
func (o *Orchestrator) produce(ctx context.Context, files []string, slots []chan prepared, window chan struct{}, workers int) {
	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range files {
		select {
		case window <- struct{}{}:
		case <-ctx.Done():
			for j := i; j < len(files); j++ {
				slots[j] <- prepared{err: ctx.Err()}
			}
			_ = g.Wait()
			return
		}
		g.Go(func() error {
			p := o.prepare(ctx, path)
			p.held = true
			slots[i] <- p
			return nil
		})
	}
	_ = g.Wait()
}

// Evaluation is the scored view of every subtitle stream in a container.
type Evaluation struct {
	Descriptors []tracks.Descriptor
	Scores      []tracks.Score
	byIndex     map[int]tracks.Track
}

// Track returns the demuxed track for a stream index that was scored.
func (e Evaluation) Track(index int) (tracks.Track, bool) {
	track, ok := e.byIndex[index]
	return track, ok
}

// Evaluate inspects path and scores every stream. Screened-out streams are
// scored without being demuxed.
func (o *Orchestrator) Evaluate(ctx context.Context, path string) (Evaluation, error) {
	logger := logging.WithContext(ctx, logging.NewComponentLogger(o.Logger, "batch"))

	descriptors, err := o.Inspector.Inspect(ctx, path)
	if err != nil {
		return Evaluation{}, services.Wrap(services.ErrInspect, "batch", "inspect", path, err)
	}

	eval := Evaluation{
		Descriptors: descriptors,
		Scores:      make([]tracks.Score, 0, len(descriptors)),
		byIndex:     make(map[int]tracks.Track, len(descriptors)),
	}
	for _, d := range descriptors {
		if reason := o.Scorer.Screen(d); reason != "" {
			logger.Debug("stream screened out",
				logging.Int(logging.FieldTrackIndex, d.Index),
				logging.String("reason", reason),
			)
			eval.Scores = append(eval.Scores, o.Scorer.Score(tracks.Track{Descriptor: d}))
			continue
		}
		data, err := o.Demuxer.Extract(ctx, path, d.Index)
		if err != nil {
			return eval, services.Wrap(services.ErrInspect, "batch", "demux", fmt.Sprintf("%s stream %d", path, d.Index), err)
		}
		cues, err := srt.Parse(data)
		if err != nil {
			var parseErr *srt.ParseError
			if errors.As(err, &parseErr) {
				parseErr.Path = fmt.Sprintf("%s stream %d", path, d.Index)
			}
			return eval, err
		}
		track := tracks.Track{Descriptor: d, Cues: cues}
		score := o.Scorer.Score(track)
		logger.Debug("stream scored",
			logging.Int(logging.FieldTrackIndex, d.Index),
			logging.String("score", score.String()),
			logging.Int("cues", score.Counts.Cues),
		)
		eval.byIndex[d.Index] = track
		eval.Scores = append(eval.Scores, score)
	}
	return eval, nil
}

func (o *Orchestrator) prepare(ctx context.Context, path string) prepared {
	ctx = services.WithStage(services.WithFile(ctx, path), "prepare")
	eval, err := o.Evaluate(ctx, path)
	if err != nil {
		return prepared{err: err}
	}
	best, err := tracks.Select(eval.Scores)
	if err != nil {
		return prepared{candidates: len(eval.Scores), err: services.Wrap(services.ErrNoEligibleTrack, "batch", "select", path, err)}
	}
	track, _ := eval.Track(best.TrackIndex)
	return prepared{track: track, score: best, candidates: len(eval.Scores)}
}

// consume reviews and writes one prepared file. The returned flag stops the
// batch.
func (o *Orchestrator) consume(ctx context.Context, logger *slog.Logger, path, output string, p prepared) (FileReport, bool) {
	entry := FileReport{Input: path, Candidates: p.candidates}
	fileLogger := logger.With(logging.String(logging.FieldFile, path))
	if p.err != nil {
		if ctx.Err() != nil {
			entry.Status = StatusNotReached
			entry.Err = ctx.Err()
			return entry, true
		}
		entry.Status = StatusFailed
		entry.Err = p.err
		logging.WarnWithContext(fileLogger, "file skipped", "file_failed",
			logging.Error(p.err),
			logging.String(logging.FieldErrorHint, hintFor(p.err)),
		)
		return entry, false
	}

	entry.Track = p.track.Descriptor
	entry.Score = p.score
	attrs := append(logging.DecisionAttrs("track_selection", p.track.Label(), p.score.String()),
		logging.Int(logging.FieldTrackIndex, p.track.Index),
		logging.Int("candidates", p.candidates),
	)
	fileLogger.Info("track selected", logging.Args(attrs...)...)
	if err := ctx.Err(); err != nil {
		entry.Status = StatusNotReached
		entry.Err = err
		return entry, true
	}

	name := filepath.Base(path)
	cues, stats, reviewErr := o.Review.Review(ctx, name, p.track.Cues)
	entry.Stats = stats
	aborted := errors.Is(reviewErr, services.ErrUserAbort)
	if reviewErr != nil && !aborted {
		entry.Status = StatusFailed
		entry.Err = reviewErr
		logging.WarnWithContext(fileLogger, "file skipped", "review_failed",
			logging.Error(reviewErr),
			logging.String(logging.FieldErrorHint, hintFor(reviewErr)),
		)
		return entry, !services.SkipsFile(reviewErr)
	}

	entry.Output = output
	if err := o.Writer.WriteCues(entry.Output, cues); err != nil {
		entry.Status = StatusFailed
		entry.Err = err
		logging.WarnWithContext(fileLogger, "subtitle write failed", "write_failed",
			logging.Error(err),
			logging.String("output", entry.Output),
			logging.String(logging.FieldErrorHint, "check output directory permissions"),
		)
		return entry, aborted
	}
	if aborted {
		entry.Status = StatusAborted
		entry.Err = reviewErr
		fileLogger.Info("review stopped, partial decisions written", logging.String("output", entry.Output))
		return entry, true
	}
	entry.Status = StatusWritten
	fileLogger.Info("subtitle written",
		logging.String("output", entry.Output),
		logging.Int("cues", len(cues)),
	)
	return entry, false
}

func collisionReport(input, output string, claims int) FileReport {
	err := services.Wrap(services.ErrIO, "batch", "plan output", fmt.Sprintf("%s is the output of %d inputs", output, claims), nil)
	return FileReport{Input: input, Output: output, Status: StatusFailed, Err: err}
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, services.ErrInspect):
		return "check that the file is a readable container and ffprobe/ffmpeg work"
	case errors.Is(err, services.ErrNoEligibleTrack):
		return "the file has no English text subtitle track"
	case errors.Is(err, services.ErrParse):
		return "the subtitle stream is not valid SRT"
	case errors.Is(err, services.ErrRuleApply):
		return "disable the failing cleaning category in config"
	default:
		return "check logs for details"
	}
}
