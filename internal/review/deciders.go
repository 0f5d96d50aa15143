package review

import (
	"context"
	"fmt"
	"io"
)

// AcceptAll accepts every proposed edit without prompting.
type AcceptAll struct{}

func (AcceptAll) Decide(context.Context, Prompt) (Action, error) {
	return Accept(), nil
}

// Script replays a fixed action sequence. Once exhausted it reports io.EOF,
// which the session treats like a reviewer closing the console.
type Script struct {
	Actions []Action
	Prompts []Prompt
	next    int
}

// NewScript builds a scripted decider.
func NewScript(actions ...Action) *Script {
	return &Script{Actions: actions}
}

func (s *Script) Decide(ctx context.Context, prompt Prompt) (Action, error) {
	if err := ctx.Err(); err != nil {
		return Action{}, err
	}
	s.Prompts = append(s.Prompts, prompt)
	if s.next >= len(s.Actions) {
		return Action{}, fmt.Errorf("script exhausted after %d actions: %w", len(s.Actions), io.EOF)
	}
	action := s.Actions[s.next]
	s.next++
	return action, nil
}
