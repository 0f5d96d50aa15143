package srt

import (
	"fmt"

	"subclean/internal/services"
)

// ParseError reports malformed SRT input at a 1-based line number.
type ParseError struct {
	Path   string
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("srt parse: %s:%d: %s", e.Path, e.Line, e.Reason)
	}
	return fmt.Sprintf("srt parse: line %d: %s", e.Line, e.Reason)
}

// Unwrap exposes the parse marker for errors.Is classification.
func (e *ParseError) Unwrap() error {
	return services.ErrParse
}
