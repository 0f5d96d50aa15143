package tracks

import (
	"errors"
	"math"
	"testing"

	"subclean/internal/services"
)

func TestSelectTieBreaksOnLowestIndex(t *testing.T) {
	scores := []Score{
		{TrackIndex: 0, Value: 1.2},
		{TrackIndex: 1, Value: 1.2},
		{TrackIndex: 2, Value: 5.0},
	}
	for i := 0; i < 3; i++ {
		got, err := Select(scores)
		if err != nil {
			t.Fatalf("Select returned error: %v", err)
		}
		if got.TrackIndex != 0 {
			t.Fatalf("expected index 0, got %d", got.TrackIndex)
		}
	}

	reversed := []Score{scores[2], scores[1], scores[0]}
	got, err := Select(reversed)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if got.TrackIndex != 0 {
		t.Fatalf("expected index 0 regardless of order, got %d", got.TrackIndex)
	}
}

func TestSelectSkipsDisqualified(t *testing.T) {
	scores := []Score{
		{TrackIndex: 0, Value: math.Inf(1), Disqualified: true, Reason: "no cues"},
		{TrackIndex: 1, Value: 0.9},
		{TrackIndex: 2, Value: 0.4},
	}
	got, err := Select(scores)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if got.TrackIndex != 2 {
		t.Fatalf("expected index 2, got %d", got.TrackIndex)
	}
}

func TestSelectNoEligibleTrack(t *testing.T) {
	scores := []Score{
		{TrackIndex: 0, Value: math.Inf(1), Disqualified: true, Reason: "no cues"},
		{TrackIndex: 1, Value: math.Inf(1), Disqualified: true, Reason: "language \"fre\" is not English"},
	}
	_, err := Select(scores)
	var nerr *NoEligibleTrackError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected NoEligibleTrackError, got %v", err)
	}
	if nerr.Considered != 2 || len(nerr.Reasons) != 2 {
		t.Fatalf("unexpected error detail: %+v", nerr)
	}
	if !errors.Is(err, services.ErrNoEligibleTrack) {
		t.Fatalf("expected ErrNoEligibleTrack marker")
	}

	if _, err := Select(nil); !errors.Is(err, services.ErrNoEligibleTrack) {
		t.Fatalf("expected error for empty input, got %v", err)
	}
}

func TestRank(t *testing.T) {
	scores := []Score{
		{TrackIndex: 3, Value: math.Inf(1), Disqualified: true},
		{TrackIndex: 2, Value: 0.5},
		{TrackIndex: 0, Value: math.Inf(1), Disqualified: true},
		{TrackIndex: 1, Value: 0.5},
		{TrackIndex: 4, Value: 0.1},
	}
	ranked := Rank(scores)
	want := []int{4, 1, 2, 0, 3}
	for i, idx := range want {
		if ranked[i].TrackIndex != idx {
			t.Fatalf("rank %d = %d, want %d", i, ranked[i].TrackIndex, idx)
		}
	}
}
