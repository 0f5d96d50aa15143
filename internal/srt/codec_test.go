package srt

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"subclean/internal/services"
)

const sample = "1\n00:00:01,000 --> 00:00:02,500\n[DOOR SLAMS]\nJOHN: Who's there?\n\n2\n00:00:03,000 --> 00:00:04,000\nNobody.\n"

func TestParseBasic(t *testing.T) {
	cues, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	first := cues[0]
	if first.Index != 1 || first.Start != time.Second || first.End != 2500*time.Millisecond {
		t.Fatalf("unexpected first cue: %+v", first)
	}
	if !reflect.DeepEqual(first.Lines, []string{"[DOOR SLAMS]", "JOHN: Who's there?"}) {
		t.Fatalf("unexpected lines: %q", first.Lines)
	}
}

func TestParseTolerantInput(t *testing.T) {
	input := "\ufeff\r\n1\r\n00:00:01.000 --> 00:00:02.000 X1:100 X2:200\r\nHello   \r\n\r\n\r\n2\r\n100:00:00,5 --> 100:00:01,000\r\nLate\r\n"
	cues, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[0].Lines[0] != "Hello" {
		t.Fatalf("expected trailing whitespace trimmed, got %q", cues[0].Lines[0])
	}
	if cues[1].Start != 100*time.Hour+500*time.Millisecond {
		t.Fatalf("unexpected wide-hour start: %v", cues[1].Start)
	}
}

func TestParseSortsByStart(t *testing.T) {
	input := "1\n00:00:05,000 --> 00:00:06,000\nSecond\n\n2\n00:00:01,000 --> 00:00:02,000\nFirst\n\n3\n00:00:05,000 --> 00:00:07,000\nThird\n"
	cues, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	got := []string{cues[0].Lines[0], cues[1].Lines[0], cues[2].Lines[0]}
	want := []string{"First", "Second", "Third"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestParseLatin1Fallback(t *testing.T) {
	input := []byte("1\n00:00:01,000 --> 00:00:02,000\nCaf\xe9 cr\xe8me\n")
	cues, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if cues[0].Lines[0] != "Café crème" {
		t.Fatalf("expected latin-1 decode, got %q", cues[0].Lines[0])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"end before start", "1\n00:00:02,000 --> 00:00:01,000\nText\n", 2},
		{"end equals start", "1\n00:00:02,000 --> 00:00:02,000\nText\n", 2},
		{"malformed timecode", "1\n00:00:02 -> 00:00:03,000\nText\n", 2},
		{"minutes out of range", "1\n00:61:00,000 --> 00:62:00,000\nText\n", 2},
		{"hours out of range", "1\n00:00:01,000 --> 99999999999999999999:00:00,000\nText\n", 2},
		{"hours past duration range", "1\n00:00:01,000 --> 3000000:00:00,000\nText\n", 2},
		{"non-numeric index", "one\n00:00:01,000 --> 00:00:02,000\nText\n", 1},
		{"cue without text", "1\n00:00:01,000 --> 00:00:02,000\n\n2\n00:00:03,000 --> 00:00:04,000\nText\n", 3},
		{"unterminated missing text", "1\n00:00:01,000 --> 00:00:02,000\nText\n\n2\n00:00:03,000 --> 00:00:04,000\n", 5},
		{"unterminated missing timecode", "1\n00:00:01,000 --> 00:00:02,000\nText\n\n2\n", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if perr.Line != tt.line {
				t.Fatalf("expected line %d, got %d (%s)", tt.line, perr.Line, perr.Reason)
			}
			if !errors.Is(err, services.ErrParse) {
				t.Fatalf("expected ErrParse marker, got %v", err)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	cues, err := Parse([]byte("\n\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(cues) != 0 {
		t.Fatalf("expected no cues, got %d", len(cues))
	}
}

func TestFormatRenumbersAndRoundTrips(t *testing.T) {
	cues := []Cue{
		{Index: 7, Start: 1500 * time.Millisecond, End: 2 * time.Second, Lines: []string{"- Hi.", "- Hello."}},
		{Index: 9, Start: 3 * time.Second, End: 4 * time.Second, Lines: []string{"   "}},
		{Index: 12, Start: 26*time.Hour + 61*time.Second + 7*time.Millisecond, End: 27 * time.Hour, Lines: []string{"Bye"}},
	}
	out := string(Format(cues))
	if !strings.HasPrefix(out, "1\n00:00:01,500 --> 00:00:02,000\n- Hi.\n- Hello.\n\n2\n26:01:01,007 --> 27:00:00,000\nBye\n") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	parsed, err := Parse([]byte(out))
	if err != nil {
		t.Fatalf("Parse(Format) returned error: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("expected blank cue dropped, got %d cues", len(parsed))
	}
	for i, want := range []Cue{cues[0], cues[2]} {
		got := parsed[i]
		if got.Start != want.Start || got.End != want.End || !reflect.DeepEqual(got.Lines, want.Lines) {
			t.Fatalf("cue %d mismatch: got %+v, want %+v", i, got, want)
		}
		if got.Index != i+1 {
			t.Fatalf("cue %d index = %d, want %d", i, got.Index, i+1)
		}
	}
}

func TestTimestamps(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"00:00:00,000", 0},
		{"01:02:03,004", time.Hour + 2*time.Minute + 3*time.Second + 4*time.Millisecond},
		{"00:00:01.5", 1500 * time.Millisecond},
		{"123:00:00,000", 123 * time.Hour},
	}
	for _, tt := range tests {
		got, err := ParseTimestamp(tt.input)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q): %v", tt.input, err)
		}
		if got != tt.want {
			t.Fatalf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
	if _, err := ParseTimestamp("1:2"); err == nil {
		t.Fatal("expected error for malformed timestamp")
	}
	if got, err := ParseTimestamp("9999:59:59,999"); err != nil || got <= 0 {
		t.Fatalf("largest accepted timestamp = %v, %v", got, err)
	}
	for _, input := range []string{"10000:00:00,000", "2562048:00:00,000", "99999999999999999999:00:00,000"} {
		if _, err := ParseTimestamp(input); err == nil {
			t.Fatalf("expected out-of-range error for %q", input)
		}
	}
	if got := FormatTimestamp(-time.Second); got != "00:00:00,000" {
		t.Fatalf("negative timestamp = %q", got)
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "movie.srt")
	cues, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(path, cues); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	back, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(back) != len(cues) {
		t.Fatalf("expected %d cues, got %d", len(cues), len(back))
	}

	bad := filepath.Join(dir, "bad.srt")
	if err := os.WriteFile(bad, []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = ParseFile(bad)
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Path != bad {
		t.Fatalf("expected ParseError with path, got %v", err)
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.srt")); !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected ErrIO for missing file, got %v", err)
	}
}
