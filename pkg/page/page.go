// Package page defines the capabilities caselens needs from the active case
// page: reading the case header and the customer statement, and showing
// prompt/alert dialogs to the user.
package page

import (
	"context"
)

const (
	// CaseHeaderSelector locates the header whose text starts with the case
	// number ("<case> | <title>").
	CaseHeaderSelector = `[id*="headerControlsList_"]`

	// VerbatimSelector locates the customer statement textarea.
	VerbatimSelector = `[id*=customerstatement] textarea`
)

// Reader reads text from the active page. Each method reports false when
// the element is absent.
type Reader interface {
	CaseHeader(ctx context.Context) (string, bool, error)
	Verbatim(ctx context.Context) (string, bool, error)
}

// Dialogs shows blocking dialogs on the active page. Prompt reports false
// when the user cancels.
type Dialogs interface {
	Prompt(ctx context.Context, message string) (string, bool, error)
	Alert(ctx context.Context, message string) error
}
