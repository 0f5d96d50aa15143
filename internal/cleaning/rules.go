package cleaning

import (
	"regexp"

	"subclean/internal/config"
)

// Category groups rules that are accepted or rejected together.
type Category string

const (
	FormattingMarkup Category = "formatting-markup"
	Advertisement    Category = "advertisement"
	SoundDescription Category = "sound-description"
	SpeakerLabel     Category = "speaker-label"
	Whitespace       Category = "whitespace"
)

// Order is the fixed application order of all categories.
var Order = []Category{FormattingMarkup, Advertisement, SoundDescription, SpeakerLabel, Whitespace}

// ParseCategory resolves a category name.
func ParseCategory(name string) (Category, bool) {
	for _, c := range Order {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}

// Rule is one pattern substitution applied to a single line.
type Rule struct {
	Category    Category
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// Apply runs the substitution on one line.
func (r Rule) Apply(line string) string {
	return r.Pattern.ReplaceAllString(line, r.Replacement)
}

const speakerLabelPattern = `^(\s*[-–—]?\s*)((?:[A-Z][A-Za-z0-9'.]*|#\d+)(?:[ \-][A-Z0-9#][A-Za-z0-9'.]*){0,3})\s*:(?:\s+|$)`

var speakerLabelRe = regexp.MustCompile(speakerLabelPattern)

// DefaultRules returns the per-line rule table in application order.
func DefaultRules() []Rule {
	return []Rule{
		{FormattingMarkup, "html-tag", regexp.MustCompile(`</?[A-Za-z][^<>]*>`), ""},
		{FormattingMarkup, "override-block", regexp.MustCompile(`\{[^}]*\}`), ""},
		{SoundDescription, "brackets", regexp.MustCompile(`\[[^\]]*\]`), ""},
		{SoundDescription, "parentheses", regexp.MustCompile(`\([^)]*\)`), ""},
		{SoundDescription, "hash", regexp.MustCompile(`#[^#]*#`), ""},
		{SoundDescription, "music-note", regexp.MustCompile(`[♪♫]+`), ""},
		{SpeakerLabel, "speaker", speakerLabelRe, "${1}"},
	}
}

// advertisementPatterns match whole cues crediting a release group or site.
var advertisementPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)opensubtitles`),
	regexp.MustCompile(`(?i)subtitles? by`),
	regexp.MustCompile(`(?i)synced? and corrected`),
	regexp.MustCompile(`(?i)advertise (your|yours?) product`),
	regexp.MustCompile(`(?i)http(s)?://`),
	regexp.MustCompile(`(?i)\bwww\.`),
	regexp.MustCompile(`(?i)\bsubscene\b`),
	regexp.MustCompile(`(?i)\byts\b`),
	regexp.MustCompile(`(?i)\byify\b`),
}

// RuleSet is the immutable rule table plus the enabled categories.
type RuleSet struct {
	rules   map[Category][]Rule
	enabled map[Category]bool
}

// NewRuleSet builds the default table with categories toggled by cfg.
func NewRuleSet(cfg config.Cleaning) RuleSet {
	return newRuleSet(DefaultRules(), map[Category]bool{
		FormattingMarkup: cfg.FormattingMarkup,
		Advertisement:    cfg.Advertisement,
		SoundDescription: cfg.SoundDescription,
		SpeakerLabel:     cfg.SpeakerLabel,
		Whitespace:       cfg.Whitespace,
	})
}

func newRuleSet(rules []Rule, enabled map[Category]bool) RuleSet {
	byCategory := make(map[Category][]Rule, len(Order))
	for _, rule := range rules {
		byCategory[rule.Category] = append(byCategory[rule.Category], rule)
	}
	flags := make(map[Category]bool, len(enabled))
	for c, on := range enabled {
		flags[c] = on
	}
	return RuleSet{rules: byCategory, enabled: flags}
}

// Enabled reports whether the category participates in Clean.
func (rs RuleSet) Enabled(c Category) bool {
	return rs.enabled[c]
}

// Categories returns the enabled categories in application order.
func (rs RuleSet) Categories() []Category {
	out := make([]Category, 0, len(Order))
	for _, c := range Order {
		if rs.enabled[c] {
			out = append(out, c)
		}
	}
	return out
}

// Rules returns the per-line rules of a category.
func (rs RuleSet) Rules(c Category) []Rule {
	return rs.rules[c]
}
