// Package casenumber reads the case number of the active case page.
package casenumber

import (
	"context"
	"fmt"
	"strings"

	"github.com/entrhq/caselens/pkg/logging"
	"github.com/entrhq/caselens/pkg/page"
)

const (
	// maxLength is the longest case number kept as rendered. Longer values
	// carry a 3 character rendering suffix.
	maxLength    = 18
	suffixLength = 3

	// PromptMessage asks for a case number when the page has none.
	PromptMessage = "Looks like you are not in DFM page. Please Enter Case Number: "
)

// Normalize turns the case header text into a case number: the text before
// the first " |", less a trailing 3 characters when longer than 18.
func Normalize(text string) string {
	number, _, _ := strings.Cut(text, " |")
	runes := []rune(number)
	if len(runes) > maxLength {
		return string(runes[:len(runes)-suffixLength])
	}
	return number
}

// Resolver finds the case number for the current action.
type Resolver struct {
	reader  page.Reader
	dialogs page.Dialogs
	logger  *logging.Logger
}

// NewResolver creates a resolver reading from reader and prompting with
// dialogs when the page has no case header.
func NewResolver(reader page.Reader, dialogs page.Dialogs, logger *logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.Discard("casenumber")
	}
	return &Resolver{reader: reader, dialogs: dialogs, logger: logger}
}

// Resolve returns the case number. When the header is absent or empty the
// user is prompted; a cancelled or empty answer returns ("", false, nil).
func (r *Resolver) Resolve(ctx context.Context) (string, bool, error) {
	text, ok, err := r.reader.CaseHeader(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to read case header: %w", err)
	}

	if ok {
		if number := Normalize(text); number != "" {
			return number, true, nil
		}
	}

	r.logger.Warnf("Could not find case number. Opening prompt")
	answer, ok, err := r.dialogs.Prompt(ctx, PromptMessage)
	if err != nil {
		return "", false, fmt.Errorf("case number prompt failed: %w", err)
	}

	answer = strings.TrimSpace(answer)
	if !ok || answer == "" {
		r.logger.Infof("Case number prompt dismissed")
		return "", false, nil
	}
	return answer, true, nil
}
