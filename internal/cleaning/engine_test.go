package cleaning

import (
	"errors"
	"reflect"
	"regexp"
	"testing"
	"time"

	"subclean/internal/config"
	"subclean/internal/services"
	"subclean/internal/srt"
)

func newTestEngine() *Engine {
	return NewEngine(NewRuleSet(config.Default().Cleaning))
}

func cue(index int, lines ...string) srt.Cue {
	return srt.Cue{Index: index, Start: time.Second, End: 2 * time.Second, Lines: lines}
}

func TestCleanExamples(t *testing.T) {
	engine := newTestEngine()
	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{"bracket stripping", []string{"[MUSIC PLAYING] Hello there"}, []string{"Hello there"}},
		{"speaker label", []string{"JOHN: I'm fine."}, []string{"I'm fine."}},
		{"titled speaker", []string{"Dr. Smith: Sit down."}, []string{"Sit down."}},
		{"numbered speaker", []string{"MAN #2: Over here!"}, []string{"Over here!"}},
		{"markup", []string{"{\\an8}<i>Somewhere far away</i>"}, []string{"Somewhere far away"}},
		{"font tag", []string{`<font color="#ffff00">Yes</font>`}, []string{"Yes"}},
		{"parenthetical inside", []string{"I think (coughs) so ."}, []string{"I think so."}},
		{"music notes", []string{"♪ Happy birthday ♪"}, []string{"Happy birthday"}},
		{"hash lyrics", []string{"#Singing in the rain#"}, nil},
		{"time is not a speaker", []string{"Meet me at 10:30."}, []string{"Meet me at 10:30."}},
		{"two speakers get dashes", []string{"JOHN: Hi.", "MARY: Hello."}, []string{"-Hi.", "-Hello."}},
		{"existing dashes normalized", []string{"- Hi.", "- Hello."}, []string{"-Hi.", "-Hello."}},
		{"labelled dash lines", []string{"- JOHN: Hi.", "- MARY: Hello."}, []string{"-Hi.", "-Hello."}},
		{"orphaned line dropped", []string{"[SCREAMS]", "Run!"}, []string{"Run!"}},
		{"advertisement", []string{"Subtitles by SomeGroup", "www.example.org"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Clean(cue(1, tt.lines...))
			if err != nil {
				t.Fatalf("Clean returned error: %v", err)
			}
			if len(tt.want) == 0 {
				if !result.Remove {
					t.Fatalf("expected cue to be marked for removal, got %q", result.Proposed)
				}
				return
			}
			if !reflect.DeepEqual(result.Proposed, tt.want) {
				t.Fatalf("proposed = %q, want %q", result.Proposed, tt.want)
			}
			if result.Remove {
				t.Fatal("did not expect removal")
			}
		})
	}
}

func TestCleanRecordsEditPerCategory(t *testing.T) {
	engine := newTestEngine()
	result, err := engine.Clean(cue(7, "[MUSIC PLAYING] Hello there"))
	if err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}
	if len(result.Edits) != 1 {
		t.Fatalf("expected one edit, got %+v", result.Edits)
	}
	edit := result.Edits[0]
	if edit.Category != SoundDescription || edit.CueIndex != 7 {
		t.Fatalf("unexpected edit: %+v", edit)
	}
	if edit.Original != "[MUSIC PLAYING] Hello there" || edit.Proposed != "Hello there" {
		t.Fatalf("unexpected edit text: %+v", edit)
	}

	result, err = engine.Clean(cue(8, "JOHN (whispering): Quiet."))
	if err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}
	if got := result.Categories(); !reflect.DeepEqual(got, []Category{SoundDescription, SpeakerLabel}) {
		t.Fatalf("unexpected categories %v", got)
	}
	if !reflect.DeepEqual(result.Proposed, []string{"Quiet."}) {
		t.Fatalf("unexpected proposed %q", result.Proposed)
	}
}

func TestCleanUnchangedCue(t *testing.T) {
	result, err := newTestEngine().Clean(cue(1, "Just dialogue."))
	if err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}
	if result.Changed() || result.Remove {
		t.Fatalf("expected no edits, got %+v", result)
	}
}

func TestEmptyAfterCleaning(t *testing.T) {
	result, err := newTestEngine().Clean(cue(3, "[SIGH]"))
	if err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}
	if !result.Remove || len(result.Proposed) != 0 {
		t.Fatalf("expected removal, got %+v", result)
	}
}

func TestApplyCategoryIdempotent(t *testing.T) {
	engine := newTestEngine()
	inputs := [][]string{
		{"[MUSIC PLAYING] Hello there"},
		{"JOHN: MARY: Hi."},
		{"- JOHN: Hi.", "- MARY: Hello."},
		{"[a [b] c] words", "(one) (two)"},
		{"<i><b>Bold</b></i>  text ,really"},
		{"♪ La ♪ #hum#"},
		{"Visit www.example.org"},
	}
	for _, c := range Order {
		for _, lines := range inputs {
			once, err := engine.ApplyCategory(c, lines)
			if err != nil {
				t.Fatalf("ApplyCategory(%s) returned error: %v", c, err)
			}
			twice, err := engine.ApplyCategory(c, once)
			if err != nil {
				t.Fatalf("ApplyCategory(%s) second pass returned error: %v", c, err)
			}
			if !reflect.DeepEqual(once, twice) {
				t.Fatalf("category %s not idempotent on %q: %q then %q", c, lines, once, twice)
			}
		}
	}
}

func TestCleanWithSubset(t *testing.T) {
	engine := newTestEngine()
	result, err := engine.CleanWith(cue(1, "JOHN: [laughs] Funny."), []Category{SoundDescription, Whitespace})
	if err != nil {
		t.Fatalf("CleanWith returned error: %v", err)
	}
	if !reflect.DeepEqual(result.Proposed, []string{"JOHN: Funny."}) {
		t.Fatalf("expected speaker label kept, got %q", result.Proposed)
	}
}

func TestDisabledCategoriesAreSkipped(t *testing.T) {
	cfg := config.Default().Cleaning
	cfg.SpeakerLabel = false
	engine := NewEngine(NewRuleSet(cfg))
	result, err := engine.Clean(cue(1, "JOHN: I'm fine."))
	if err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}
	if result.Changed() {
		t.Fatalf("expected no edits with speaker labels disabled, got %+v", result.Edits)
	}
}

func TestRuleApplyErrorOnLineBreak(t *testing.T) {
	rules := []Rule{{SoundDescription, "bad", regexp.MustCompile(`x`), "a\nb"}}
	engine := NewEngine(newRuleSet(rules, map[Category]bool{SoundDescription: true}))
	_, err := engine.Clean(cue(4, "x marks"))
	var rerr *RuleApplyError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected RuleApplyError, got %v", err)
	}
	if rerr.CueIndex != 4 || rerr.Rule != "bad" {
		t.Fatalf("unexpected error detail: %+v", rerr)
	}
	if !errors.Is(err, services.ErrRuleApply) {
		t.Fatal("expected ErrRuleApply marker")
	}
}

func TestApplyCategoryUnknown(t *testing.T) {
	if _, err := newTestEngine().ApplyCategory("bogus", []string{"x"}); err == nil {
		t.Fatal("expected error for unknown category")
	}
}
