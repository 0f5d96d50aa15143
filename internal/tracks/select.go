package tracks

import (
	"fmt"
	"sort"

	"subclean/internal/services"
)

// NoEligibleTrackError reports that no scored track had a finite score.
type NoEligibleTrackError struct {
	Considered int
	Reasons    []string
}

func (e *NoEligibleTrackError) Error() string {
	if e.Considered == 0 {
		return "no eligible subtitle track: container has no subtitle tracks"
	}
	return fmt.Sprintf("no eligible subtitle track among %d candidates", e.Considered)
}

// Unwrap exposes the selection marker for errors.Is classification.
func (e *NoEligibleTrackError) Unwrap() error {
	return services.ErrNoEligibleTrack
}

// Select returns the minimum finite score. Ties go to the lowest track index
// regardless of input order.
func Select(scores []Score) (Score, error) {
	best := -1
	for i, score := range scores {
		if !score.Finite() {
			continue
		}
		if best < 0 || less(score, scores[best]) {
			best = i
		}
	}
	if best < 0 {
		reasons := make([]string, 0, len(scores))
		for _, score := range scores {
			reasons = append(reasons, fmt.Sprintf("#%d: %s", score.TrackIndex, score.Reason))
		}
		return Score{}, &NoEligibleTrackError{Considered: len(scores), Reasons: reasons}
	}
	return scores[best], nil
}

// Rank orders scores best first with disqualified tracks last by index.
func Rank(scores []Score) []Score {
	ranked := append([]Score(nil), scores...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Finite() != b.Finite() {
			return a.Finite()
		}
		if !a.Finite() {
			return a.TrackIndex < b.TrackIndex
		}
		return less(a, b)
	})
	return ranked
}

func less(a, b Score) bool {
	if a.Value != b.Value {
		return a.Value < b.Value
	}
	return a.TrackIndex < b.TrackIndex
}
