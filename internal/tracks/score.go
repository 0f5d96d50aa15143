package tracks

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"subclean/internal/config"
	"subclean/internal/language"
)

// Counts tallies pollution markers across a track.
type Counts struct {
	Cues                  int
	SoundDescriptions     int
	SpeakerLabels         int
	UppercaseLines        int
	HearingImpairedMarkup int
}

// Score is the pollution score of one track. Disqualified scores are +Inf.
type Score struct {
	TrackIndex   int
	Value        float64
	Disqualified bool
	Reason       string
	Counts       Counts
}

// Finite reports whether the score can be selected.
func (s Score) Finite() bool {
	return !s.Disqualified && !math.IsInf(s.Value, 0) && !math.IsNaN(s.Value)
}

// String renders the value for tables and logs.
func (s Score) String() string {
	if !s.Finite() {
		return "disqualified"
	}
	return fmt.Sprintf("%.3f", s.Value)
}

func disqualified(index int, reason string, counts Counts) Score {
	return Score{TrackIndex: index, Value: math.Inf(1), Disqualified: true, Reason: reason, Counts: counts}
}

var (
	soundDescriptionRe = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)
	speakerColonRe     = regexp.MustCompile(`^\s*[-–—]?\s*(?:[A-Z][A-Za-z0-9'.]*|#\d+)(?:[ \-][A-Z0-9#][A-Za-z0-9'.]*){0,3}\s*:(?:\s|$)`)
	speakerCapsRe      = regexp.MustCompile(`^\s*[-–—]?\s*([A-Z][A-Z'.]+)(\s[A-Z][A-Z'.]+)?\s+[A-Z]?[a-z]`)
	hashSpanRe         = regexp.MustCompile(`#[^#\n]+#`)
)

// Scorer computes pollution scores using configured weights.
type Scorer struct {
	weights config.Scoring
}

// NewScorer constructs a scorer. The weights are copied.
func NewScorer(weights config.Scoring) *Scorer {
	return &Scorer{weights: weights}
}

// Screen checks descriptor metadata alone and returns a non-empty reason when
// the stream can never be selected. Callers use it to avoid demuxing streams
// that would be disqualified anyway.
func (s *Scorer) Screen(d Descriptor) string {
	switch {
	case !language.IsEnglish(d.Language):
		if strings.TrimSpace(d.Language) == "" {
			return "no language tag"
		}
		return fmt.Sprintf("language %q is not English", d.Language)
	case d.Forced:
		return "forced track"
	case d.IsBitmap():
		return fmt.Sprintf("bitmap codec %s", d.Codec)
	}
	return ""
}

// Score returns the pollution score for a track.
func (s *Scorer) Score(track Track) Score {
	counts := Count(track)
	if reason := s.Screen(track.Descriptor); reason != "" {
		return disqualified(track.Index, reason, counts)
	}
	if counts.Cues == 0 {
		return disqualified(track.Index, "no cues", counts)
	}

	w := s.weights
	sum := w.SoundDescriptionWeight*float64(counts.SoundDescriptions) +
		w.SpeakerLabelWeight*float64(counts.SpeakerLabels) +
		w.UppercaseLineWeight*float64(counts.UppercaseLines) +
		w.HearingImpairedMarkupWeight*float64(counts.HearingImpairedMarkup)
	value := sum / float64(counts.Cues)
	if track.HearingImpaired {
		value += w.HearingImpairedPenalty
	}
	return Score{TrackIndex: track.Index, Value: value, Counts: counts}
}

// Count tallies pollution markers for every line of every cue.
func Count(track Track) Counts {
	counts := Counts{Cues: len(track.Cues)}
	for _, cue := range track.Cues {
		for _, line := range cue.Lines {
			counts.SoundDescriptions += len(soundDescriptionRe.FindAllStringIndex(line, -1))
			if speakerColonRe.MatchString(line) || hasCapsSpeaker(line) {
				counts.SpeakerLabels++
			}
			if isUppercaseLine(soundDescriptionRe.ReplaceAllString(line, "")) {
				counts.UppercaseLines++
			}
			counts.HearingImpairedMarkup += len(hashSpanRe.FindAllStringIndex(line, -1))
			if strings.ContainsAny(line, "♪♫") {
				counts.HearingImpairedMarkup++
			}
		}
	}
	return counts
}

// shoutedWords open ordinary dialogue often enough that an upper-case first
// word alone is not a speaker name.
var shoutedWords = map[string]bool{
	"AND": true, "BUT": true, "COME": true, "DON'T": true, "GET": true,
	"HELLO": true, "HELP": true, "HEY": true, "HOW": true, "I'LL": true,
	"I'M": true, "LOOK": true, "NO": true, "NOW": true, "OH": true, "OK": true, "OKAY": true, "RUN": true, "STOP": true,
	"THE": true, "WAIT": true, "WELL": true, "WHAT": true, "WHERE": true,
	"WHO": true, "WHY": true, "YEAH": true, "YES": true, "YOU": true,
}

// hasCapsSpeaker reports a line opening with an upper-case name and no colon,
// as in "JOHN Where were you?". The name needs three letters and must not be
// a common exclamation, so "OK then." and "I'M fine." are dialogue.
func hasCapsSpeaker(line string) bool {
	m := speakerCapsRe.FindStringSubmatch(line)
	if m == nil || shoutedWords[m[1]] {
		return false
	}
	letters := 0
	for _, r := range m[1] + m[2] {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters >= 3
}

// isUppercaseLine reports a line with at least two letters and no lower-case letter.
func isUppercaseLine(line string) bool {
	letters := 0
	for _, r := range line {
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.IsLower(r) {
			return false
		}
		letters++
	}
	return letters >= 2
}
