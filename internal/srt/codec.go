package srt

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"subclean/internal/fileutil"
	"subclean/internal/services"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type parseState int

const (
	expectIndex parseState = iota
	expectTiming
	expectText
)

// Parse decodes SRT content into cues ordered by start time.
func Parse(data []byte) ([]Cue, error) {
	text, err := decode(data)
	if err != nil {
		return nil, err
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimRight(text, "\n\t ")

	var cues []Cue
	var current Cue
	var cueLine int
	state := expectIndex
	finishCue := func() {
		cues = append(cues, current)
		current = Cue{}
		state = expectIndex
	}

	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		trimmed := strings.TrimSpace(raw)
		switch state {
		case expectIndex:
			if trimmed == "" {
				continue
			}
			index, err := strconv.Atoi(trimmed)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Reason: fmt.Sprintf("non-numeric index %q", trimmed)}
			}
			current = Cue{Index: index}
			cueLine = lineNo
			state = expectTiming
		case expectTiming:
			if trimmed == "" {
				return nil, &ParseError{Line: lineNo, Reason: fmt.Sprintf("cue %d: missing timecode", current.Index)}
			}
			start, end, err := parseTiming(trimmed)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Reason: err.Error()}
			}
			if end <= start {
				return nil, &ParseError{Line: lineNo, Reason: fmt.Sprintf("cue %d: end %s is not after start %s", current.Index, FormatTimestamp(end), FormatTimestamp(start))}
			}
			current.Start = start
			current.End = end
			state = expectText
		case expectText:
			if trimmed == "" {
				if len(current.Lines) == 0 {
					return nil, &ParseError{Line: lineNo, Reason: fmt.Sprintf("cue %d: no text", current.Index)}
				}
				finishCue()
				continue
			}
			current.Lines = append(current.Lines, strings.TrimRight(raw, " \t"))
		}
	}

	switch {
	case state == expectTiming:
		return nil, &ParseError{Line: cueLine, Reason: fmt.Sprintf("cue %d: unterminated, missing timecode", current.Index)}
	case state == expectText && len(current.Lines) == 0:
		return nil, &ParseError{Line: cueLine, Reason: fmt.Sprintf("cue %d: unterminated, missing text", current.Index)}
	case state == expectText:
		finishCue()
	}

	sort.SliceStable(cues, func(i, j int) bool { return cues[i].Start < cues[j].Start })
	return cues, nil
}

func decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", &ParseError{Line: 1, Reason: fmt.Sprintf("decode latin-1: %v", err)}
	}
	return string(decoded), nil
}

// ParseFile reads and parses an SRT file.
func ParseFile(path string) ([]Cue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "srt", "read", path, err)
	}
	cues, err := Parse(data)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		return nil, err
	}
	return cues, nil
}

// Format serializes cues, renumbering them from 1. Lines that are blank after
// trimming are dropped, and so are cues left without text.
func Format(cues []Cue) []byte {
	var buf bytes.Buffer
	n := 0
	for _, cue := range cues {
		lines := visibleLines(cue.Lines)
		if len(lines) == 0 {
			continue
		}
		if n > 0 {
			buf.WriteByte('\n')
		}
		n++
		buf.WriteString(strconv.Itoa(n))
		buf.WriteByte('\n')
		buf.WriteString(FormatTimestamp(cue.Start))
		buf.WriteString(" --> ")
		buf.WriteString(FormatTimestamp(cue.End))
		buf.WriteByte('\n')
		for _, line := range lines {
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

// WriteFile formats cues and atomically replaces path.
func WriteFile(path string, cues []Cue) error {
	if err := fileutil.WriteFileAtomic(path, Format(cues), 0o644); err != nil {
		return services.Wrap(services.ErrIO, "srt", "write", path, err)
	}
	return nil
}

func visibleLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
