package review

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"subclean/internal/cleaning"
	"subclean/internal/logging"
	"subclean/internal/services"
	"subclean/internal/srt"
)

// Decider answers one prompt at a time.
type Decider interface {
	Decide(ctx context.Context, prompt Prompt) (Action, error)
}

// Stats summarizes a session.
type Stats struct {
	Total      int
	Reviewed   int
	Automatic  int
	Accepted   int
	Edited     int
	Skipped    int
	Reviewing  int
	Unresolved int
	Removed    int
}

// Session owns the decisions for one file.
type Session struct {
	id        string
	name      string
	cues      []srt.Cue
	results   []cleaning.Result
	decisions []Decision
	pending   []int
	engine    *cleaning.Engine
	logger    *slog.Logger
	ran       bool
}

// NewSession cleans every cue and resolves cues without edits.
func NewSession(name string, cues []srt.Cue, engine *cleaning.Engine, logger *slog.Logger) (*Session, error) {
	if engine == nil {
		return nil, errors.New("review session: nil cleaning engine")
	}
	s := &Session{
		id:        uuid.NewString(),
		name:      name,
		cues:      make([]srt.Cue, len(cues)),
		results:   make([]cleaning.Result, len(cues)),
		decisions: make([]Decision, len(cues)),
		engine:    engine,
	}
	s.logger = logging.NewComponentLogger(logger, "review").With(
		logging.String(logging.FieldFile, name),
		logging.String(logging.FieldSessionID, s.id),
	)
	for i, cue := range cues {
		s.cues[i] = cue.Clone()
		result, err := engine.Clean(s.cues[i])
		if err != nil {
			return nil, services.Wrap(services.ErrRuleApply, "review", "clean cue", fmt.Sprintf("%s cue %d", name, cue.Index), err)
		}
		s.results[i] = result
		if result.Changed() {
			s.decisions[i] = Decision{CueIndex: cue.Index, Outcome: Pending}
			s.pending = append(s.pending, i)
			continue
		}
		s.decisions[i] = Decision{CueIndex: cue.Index, Outcome: Accepted, Lines: s.cues[i].Lines}
	}
	return s, nil
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// Name returns the file name under review.
func (s *Session) Name() string { return s.name }

// Pending returns how many cues need a decision.
func (s *Session) Pending() int { return len(s.pending) }

// Decisions returns a copy of the per-cue decisions in cue order.
func (s *Session) Decisions() []Decision {
	return slices.Clone(s.decisions)
}

// AcceptAll resolves every pending cue with its proposed text.
func (s *Session) AcceptAll() {
	for _, i := range s.pending {
		if d := s.decisions[i]; d.Outcome == Pending || d.Outcome == Reviewing {
			s.decisions[i] = Decision{CueIndex: s.cues[i].Index, Outcome: Accepted, Lines: s.results[i].Proposed}
		}
	}
	s.ran = true
}

// Run presents pending cues to d in ascending order. It returns an error
// wrapping services.ErrUserAbort when the reviewer quits, input ends, or ctx
// is cancelled.
func (s *Session) Run(ctx context.Context, d Decider) error {
	if s.ran {
		return errors.New("review session already ran")
	}
	s.ran = true
	if d == nil {
		return errors.New("review session: nil decider")
	}
	ctx = services.WithSessionID(services.WithFile(ctx, s.name), s.id)
	s.logger.Debug("review started", logging.Int("cues", len(s.cues)), logging.Int("pending", len(s.pending)))

	for pos, i := range s.pending {
		if err := ctx.Err(); err != nil {
			return s.abort(pos, i, err)
		}
		prompt := Prompt{
			File:     s.name,
			Position: pos + 1,
			Pending:  len(s.pending),
			Cue:      s.cues[i].Clone(),
			Result:   s.results[i],
		}
		s.decisions[i].Outcome = Reviewing
		s.logger.Debug("cue under review",
			logging.Int("cue", s.cues[i].Index),
			logging.String("outcome", Reviewing.String()),
			logging.Int("position", prompt.Position),
		)
		action, err := d.Decide(ctx, prompt)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, services.ErrUserAbort) {
				return s.abort(pos, i, err)
			}
			s.release(i)
			return services.Wrap(services.ErrIO, "review", "decide", s.name, err)
		}
		if action.Kind == ActionQuit {
			return s.abort(pos, i, nil)
		}
		decision, err := s.resolve(i, action)
		if err != nil {
			s.release(i)
			return err
		}
		s.decisions[i] = decision
		s.logger.Debug("cue decided",
			logging.Int("cue", s.cues[i].Index),
			logging.String(logging.FieldDecisionType, "review"),
			logging.String("decision_result", decision.Outcome.String()),
		)
	}
	stats := s.Stats()
	s.logger.Info("review complete",
		logging.Int("accepted", stats.Accepted),
		logging.Int("edited", stats.Edited),
		logging.Int("skipped", stats.Skipped),
		logging.Int("removed", stats.Removed),
	)
	return nil
}

func (s *Session) resolve(i int, action Action) (Decision, error) {
	cue := s.cues[i]
	switch action.Kind {
	case ActionAccept:
		return Decision{CueIndex: cue.Index, Outcome: Accepted, Lines: s.results[i].Proposed}, nil
	case ActionSkip:
		return Decision{CueIndex: cue.Index, Outcome: Skipped, Lines: cue.Lines}, nil
	case ActionEdit:
		return Decision{CueIndex: cue.Index, Outcome: Edited, Lines: slices.Clone(action.Lines)}, nil
	case ActionPartial:
		result, err := s.engine.CleanWith(cue, action.Categories)
		if err != nil {
			return Decision{}, services.Wrap(services.ErrRuleApply, "review", "partial accept", s.name, err)
		}
		return Decision{CueIndex: cue.Index, Outcome: Edited, Lines: result.Proposed}, nil
	case ActionQuit:
		return Decision{}, nil
	default:
		return Decision{}, fmt.Errorf("review: unsupported action %d", action.Kind)
	}
}

// abort ends the session at pending position pos. Cue i, if it was under
// review, returns to Pending.
func (s *Session) abort(pos, i int, cause error) error {
	interrupted := s.decisions[i].Outcome == Reviewing
	s.release(i)
	s.logger.Info("review aborted",
		logging.Int("reviewed", pos),
		logging.Int("remaining", len(s.pending)-pos),
		logging.Bool("interrupted_prompt", interrupted),
	)
	return services.Wrap(services.ErrUserAbort, "review", "quit", s.name, cause)
}

func (s *Session) release(i int) {
	if s.decisions[i].Outcome == Reviewing {
		s.decisions[i].Outcome = Pending
	}
}

// Output merges decisions with the original cues. Accepted and Edited cues
// use their decided text, removed when empty; Skipped and unresolved cues
// keep the original text. Indices are renumbered from 1.
func (s *Session) Output() []srt.Cue {
	out := make([]srt.Cue, 0, len(s.cues))
	for i, cue := range s.cues {
		d := s.decisions[i]
		switch d.Outcome {
		case Accepted, Edited:
			merged := cue.Clone()
			merged.Lines = slices.Clone(d.Lines)
			if merged.Empty() {
				continue
			}
			out = append(out, merged)
		default:
			out = append(out, cue.Clone())
		}
	}
	return srt.Renumber(out)
}

// Stats counts outcomes. Automatic counts cues that needed no review; a cue
// under review counts as both Reviewing and Unresolved.
func (s *Session) Stats() Stats {
	stats := Stats{Total: len(s.cues)}
	pending := make(map[int]bool, len(s.pending))
	for _, i := range s.pending {
		pending[i] = true
	}
	for i, d := range s.decisions {
		if !pending[i] {
			stats.Automatic++
			continue
		}
		switch d.Outcome {
		case Accepted:
			stats.Accepted++
		case Edited:
			stats.Edited++
		case Skipped:
			stats.Skipped++
		case Reviewing:
			stats.Reviewing++
			stats.Unresolved++
			continue
		default:
			stats.Unresolved++
			continue
		}
		stats.Reviewed++
		if (d.Outcome == Accepted || d.Outcome == Edited) && blankLines(d.Lines) {
			stats.Removed++
		}
	}
	return stats
}

func blankLines(lines []string) bool {
	return srt.Cue{Lines: lines}.Empty()
}
