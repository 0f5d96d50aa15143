package review

import (
	"subclean/internal/cleaning"
	"subclean/internal/srt"
)

// Outcome is the state of one cue in a session.
type Outcome int

const (
	Pending Outcome = iota
	// Reviewing marks the cue whose prompt is waiting on a Decider.
	Reviewing
	Accepted
	Edited
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Reviewing:
		return "reviewing"
	case Accepted:
		return "accepted"
	case Edited:
		return "edited"
	case Skipped:
		return "skipped"
	default:
		return "pending"
	}
}

// Decision is the recorded outcome for one cue. Lines holds the text that
// will be written; empty Lines remove the cue.
type Decision struct {
	CueIndex int
	Outcome  Outcome
	Lines    []string
}

// ActionKind enumerates reviewer responses.
type ActionKind int

const (
	ActionAccept ActionKind = iota
	ActionSkip
	ActionEdit
	ActionPartial
	ActionQuit
)

func (k ActionKind) String() string {
	switch k {
	case ActionAccept:
		return "accept"
	case ActionSkip:
		return "skip"
	case ActionEdit:
		return "edit"
	case ActionPartial:
		return "partial"
	case ActionQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Action is a reviewer's response to one prompt.
type Action struct {
	Kind       ActionKind
	Lines      []string
	Categories []cleaning.Category
}

// Accept takes every proposed edit.
func Accept() Action { return Action{Kind: ActionAccept} }

// Skip keeps the original text.
func Skip() Action { return Action{Kind: ActionSkip} }

// Edit replaces the cue text. No lines removes the cue.
func Edit(lines ...string) Action { return Action{Kind: ActionEdit, Lines: lines} }

// Remove deletes the cue from the output.
func Remove() Action { return Action{Kind: ActionEdit} }

// Partial accepts only the edits of the given categories.
func Partial(categories ...cleaning.Category) Action {
	return Action{Kind: ActionPartial, Categories: categories}
}

// Quit ends the session, keeping decisions made so far.
func Quit() Action { return Action{Kind: ActionQuit} }

// Prompt is what a Decider sees for one pending cue.
type Prompt struct {
	File     string
	Position int // 1-based among pending cues
	Pending  int
	Cue      srt.Cue
	Result   cleaning.Result
}
