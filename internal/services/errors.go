package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInspect         = errors.New("stream inspection error")
	ErrNoEligibleTrack = errors.New("no eligible track")
	ErrParse           = errors.New("parse error")
	ErrRuleApply       = errors.New("rule apply error")
	ErrUserAbort       = errors.New("user abort")
	ErrIO              = errors.New("io error")
	ErrInvocation      = errors.New("invalid invocation")
	ErrConfiguration   = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// SkipsFile reports whether a batch should log the failure and move on to the
// next file rather than stop.
func SkipsFile(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrUserAbort), errors.Is(err, ErrInvocation), errors.Is(err, ErrConfiguration):
		return false
	default:
		return true
	}
}

// ExitCode maps a run error onto the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInvocation), errors.Is(err, ErrConfiguration):
		return 2
	default:
		return 1
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
