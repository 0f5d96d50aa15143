package cleaning

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"subclean/internal/services"
	"subclean/internal/srt"
)

// maxPasses bounds fixed-point iteration of a category on one line.
const maxPasses = 8

// CandidateEdit records the text before and after one category changed a cue.
type CandidateEdit struct {
	CueIndex int
	Original string
	Proposed string
	Category Category
}

// Result is the outcome of cleaning one cue.
type Result struct {
	CueIndex int
	Original []string
	Proposed []string
	Edits    []CandidateEdit
	// Remove is set when no visible text survives cleaning.
	Remove bool
}

// Changed reports whether any category proposed an edit.
func (r Result) Changed() bool {
	return len(r.Edits) > 0
}

// Categories lists the categories that proposed edits, in order.
func (r Result) Categories() []Category {
	out := make([]Category, 0, len(r.Edits))
	for _, edit := range r.Edits {
		out = append(out, edit.Category)
	}
	return out
}

// RuleApplyError reports a rule that produced an inconsistent cue.
type RuleApplyError struct {
	CueIndex int
	Rule     string
	Reason   string
}

func (e *RuleApplyError) Error() string {
	return fmt.Sprintf("rule %s on cue %d: %s", e.Rule, e.CueIndex, e.Reason)
}

// Unwrap exposes the rule marker for errors.Is classification.
func (e *RuleApplyError) Unwrap() error {
	return services.ErrRuleApply
}

// Engine applies a RuleSet to cues.
type Engine struct {
	rules RuleSet
}

// NewEngine constructs an engine over an immutable rule set.
func NewEngine(rules RuleSet) *Engine {
	return &Engine{rules: rules}
}

// Categories returns the enabled categories in application order.
func (e *Engine) Categories() []Category {
	return e.rules.Categories()
}

// Clean applies every enabled category to the cue.
func (e *Engine) Clean(cue srt.Cue) (Result, error) {
	return e.CleanWith(cue, e.rules.Categories())
}

// CleanWith applies only the given categories, still in the fixed order.
func (e *Engine) CleanWith(cue srt.Cue, categories []Category) (Result, error) {
	result := Result{
		CueIndex: cue.Index,
		Original: append([]string(nil), cue.Lines...),
	}
	speakers := countSpeakers(cue.Lines)
	lines := append([]string(nil), cue.Lines...)
	for _, c := range Order {
		if !slices.Contains(categories, c) {
			continue
		}
		next, err := e.apply(cue.Index, c, lines, speakers)
		if err != nil {
			return Result{}, err
		}
		if !slices.Equal(next, lines) {
			result.Edits = append(result.Edits, CandidateEdit{
				CueIndex: cue.Index,
				Original: strings.Join(lines, "\n"),
				Proposed: strings.Join(next, "\n"),
				Category: c,
			})
		}
		lines = next
	}
	result.Proposed = lines
	result.Remove = blank(lines)
	return result, nil
}

// ApplyCategory applies one category to lines outside of a cue context.
func (e *Engine) ApplyCategory(c Category, lines []string) ([]string, error) {
	if _, ok := ParseCategory(string(c)); !ok {
		return nil, fmt.Errorf("unknown cleaning category %q", c)
	}
	return e.apply(0, c, lines, countSpeakers(lines))
}

func (e *Engine) apply(cueIndex int, c Category, lines []string, speakers int) ([]string, error) {
	switch c {
	case Whitespace:
		return normalizeWhitespace(lines, speakers), nil
	case Advertisement:
		if isAdvertisement(lines) {
			return []string{}, nil
		}
		out := make([]string, len(lines))
		copy(out, lines)
		return out, nil
	}

	rules := e.rules.Rules(c)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned := line
		for pass := 0; pass < maxPasses; pass++ {
			next := cleaned
			for _, rule := range rules {
				next = rule.Apply(next)
				if strings.ContainsAny(next, "\r\n") {
					return nil, &RuleApplyError{CueIndex: cueIndex, Rule: rule.Name, Reason: "introduced a line break"}
				}
			}
			if next == cleaned {
				break
			}
			cleaned = next
		}
		if cleaned != line {
			cleaned = tidy(cleaned)
		}
		out = append(out, cleaned)
	}
	if len(out) != len(lines) {
		return nil, &RuleApplyError{CueIndex: cueIndex, Rule: string(c), Reason: fmt.Sprintf("line count changed from %d to %d", len(lines), len(out))}
	}
	return out, nil
}

var (
	spaceRunRe          = regexp.MustCompile(`\s+`)
	leadingDashSpaceRe  = regexp.MustCompile(`^([-–—])\s+`)
	spaceBeforePunctRe  = regexp.MustCompile(`\s+([.,!?;:])`)
	leadingDashesRe     = regexp.MustCompile(`^[-–—]+`)
	dashOnlyRe          = regexp.MustCompile(`^[-–—\s]*$`)
	speakerNameNoiseRes = []*regexp.Regexp{
		regexp.MustCompile(`\[[^\]]*\]`),
		regexp.MustCompile(`\([^)]*\)`),
		regexp.MustCompile(`\{[^}]*\}`),
		regexp.MustCompile(`#[^#]*#`),
	}
)

// tidy collapses spacing left behind by a removal.
func tidy(line string) string {
	return strings.TrimSpace(spaceRunRe.ReplaceAllString(line, " "))
}

func normalizeWhitespace(lines []string, speakers int) []string {
	out := make([]string, 0, len(lines))
	dashed := false
	for _, line := range lines {
		line = tidy(line)
		line = leadingDashSpaceRe.ReplaceAllString(line, "${1}")
		line = spaceBeforePunctRe.ReplaceAllString(line, "${1}")
		if dashOnlyRe.MatchString(line) {
			continue
		}
		if leadingDashesRe.MatchString(line) {
			dashed = true
		}
		out = append(out, line)
	}
	if speakers < 2 && !dashed {
		return out
	}
	for i, line := range out {
		out[i] = "-" + leadingDashesRe.ReplaceAllString(line, "")
	}
	return out
}

// countSpeakers returns the number of distinct labelled speakers in a cue.
func countSpeakers(lines []string) int {
	seen := make(map[string]struct{})
	for _, line := range lines {
		m := speakerLabelRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[2]
		for _, re := range speakerNameNoiseRes {
			name = re.ReplaceAllString(name, "")
		}
		name = strings.ToUpper(strings.TrimSpace(name))
		if name != "" {
			seen[name] = struct{}{}
		}
	}
	return len(seen)
}

func isAdvertisement(lines []string) bool {
	payload := strings.TrimSpace(strings.Join(lines, " "))
	if payload == "" {
		return false
	}
	for _, pattern := range advertisementPatterns {
		if pattern.MatchString(payload) {
			return true
		}
	}
	return false
}

func blank(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			return false
		}
	}
	return true
}
