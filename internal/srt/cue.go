package srt

import (
	"strings"
	"time"
)

// Cue is one timed subtitle entry.
type Cue struct {
	Index int
	Start time.Duration
	End   time.Duration
	Lines []string
}

// Text joins the cue lines with newlines.
func (c Cue) Text() string {
	return strings.Join(c.Lines, "\n")
}

// Duration returns how long the cue is displayed.
func (c Cue) Duration() time.Duration {
	return c.End - c.Start
}

// Clone returns a copy that shares no line storage with c.
func (c Cue) Clone() Cue {
	c.Lines = append([]string(nil), c.Lines...)
	return c
}

// Empty reports whether the cue has no visible text.
func (c Cue) Empty() bool {
	for _, line := range c.Lines {
		if strings.TrimSpace(line) != "" {
			return false
		}
	}
	return true
}

// Renumber assigns sequential indices starting at 1.
func Renumber(cues []Cue) []Cue {
	for i := range cues {
		cues[i].Index = i + 1
	}
	return cues
}
