// Package notes renders note and email templates with values read from the
// active case page and copies the result to the clipboard.
package notes

import (
	"time"

	"github.com/entrhq/caselens/pkg/templates"
)

// Kind selects how the initial variable set of a template is built.
type Kind int

const (
	// KindCustom is any user-defined template. It gets no variables.
	KindCustom Kind = iota
	// KindIssue is the issue (FQR) note: verbatim fields plus tool links.
	KindIssue
	// KindFollowUp is the follow-up note: today and the next follow-up date.
	KindFollowUp
	// KindQuickIR is the initial-response email: the case number.
	KindQuickIR
)

// KindFor returns the kind of the template with the given id.
func KindFor(id string) Kind {
	switch id {
	case templates.IDIssueNote:
		return KindIssue
	case templates.IDFollowUp:
		return KindFollowUp
	case templates.IDQuickIR:
		return KindQuickIR
	default:
		return KindCustom
	}
}

func (k Kind) String() string {
	switch k {
	case KindIssue:
		return "issue"
	case KindFollowUp:
		return "follow-up"
	case KindQuickIR:
		return "quick-ir"
	default:
		return "custom"
	}
}

// DateLayout is the short date format of the follow-up note.
const DateLayout = "1/2/2006"

// NextFollowUpDate returns the follow-up date for a note written on day.
// Monday to Thursday follow up two days later. Friday to Sunday roll to the
// next Monday.
func NextFollowUpDate(day time.Time) time.Time {
	var days int
	switch day.Weekday() {
	case time.Monday, time.Tuesday, time.Wednesday, time.Thursday:
		days = 2
	case time.Friday:
		days = 3
	case time.Saturday:
		days = 2
	default:
		days = 1
	}
	return day.AddDate(0, 0, days)
}
