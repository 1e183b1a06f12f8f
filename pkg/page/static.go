package page

import (
	"context"
	"sync"
)

// Static is a fixture page: fixed element text and scripted prompt answers.
// Empty text means the element is absent.
type Static struct {
	CaseHeaderText string
	VerbatimText   string

	// Answers are returned by successive Prompt calls; a nil entry or an
	// exhausted list is a cancelled prompt.
	Answers []*string

	// Err, when set, is returned by every call.
	Err error

	mu      sync.Mutex
	prompts []string
	alerts  []string
}

// Answer is a helper for building Static.Answers.
func Answer(s string) *string {
	return &s
}

// CaseHeader implements Reader.
func (s *Static) CaseHeader(ctx context.Context) (string, bool, error) {
	if s.Err != nil {
		return "", false, s.Err
	}
	return s.CaseHeaderText, s.CaseHeaderText != "", nil
}

// Verbatim implements Reader.
func (s *Static) Verbatim(ctx context.Context) (string, bool, error) {
	if s.Err != nil {
		return "", false, s.Err
	}
	return s.VerbatimText, s.VerbatimText != "", nil
}

// Prompt implements Dialogs.
func (s *Static) Prompt(ctx context.Context, message string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return "", false, s.Err
	}
	i := len(s.prompts)
	s.prompts = append(s.prompts, message)
	if i >= len(s.Answers) || s.Answers[i] == nil {
		return "", false, nil
	}
	return *s.Answers[i], true, nil
}

// Alert implements Dialogs.
func (s *Static) Alert(ctx context.Context, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}
	s.alerts = append(s.alerts, message)
	return nil
}

// Prompts returns the messages of every Prompt call so far.
func (s *Static) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}

// Alerts returns the messages of every Alert call so far.
func (s *Static) Alerts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.alerts...)
}
