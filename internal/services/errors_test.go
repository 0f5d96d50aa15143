package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"subclean/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrInspect, "extract", "ffprobe", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrInspect) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"extract", "ffprobe", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected io marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestSkipsFile(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{services.Wrap(services.ErrParse, "srt", "parse", "bad", nil), true},
		{services.Wrap(services.ErrNoEligibleTrack, "select", "", "", nil), true},
		{fmt.Errorf("review: %w", services.ErrUserAbort), false},
		{services.Wrap(services.ErrInvocation, "cli", "", "bad args", nil), false},
	}
	for _, tc := range cases {
		if got := services.SkipsFile(tc.err); got != tc.want {
			t.Fatalf("SkipsFile(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestExitCode(t *testing.T) {
	if code := services.ExitCode(nil); code != 0 {
		t.Fatalf("expected 0, got %d", code)
	}
	if code := services.ExitCode(services.ErrUserAbort); code != 1 {
		t.Fatalf("expected 1 for abort, got %d", code)
	}
	if code := services.ExitCode(fmt.Errorf("x: %w", services.ErrInvocation)); code != 2 {
		t.Fatalf("expected 2 for invocation, got %d", code)
	}
	if code := services.ExitCode(services.ErrConfiguration); code != 2 {
		t.Fatalf("expected 2 for configuration, got %d", code)
	}
}
