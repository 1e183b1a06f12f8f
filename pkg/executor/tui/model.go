package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/entrhq/caselens/pkg/settings"
	"github.com/entrhq/caselens/pkg/templates"
)

// mode is the active pane of the editor.
type mode int

const (
	modeList mode = iota
	modeEdit
	modeName
	modeConfirmDelete
)

// model represents the state of the template editor.
type model struct {
	ctx    context.Context
	editor *settings.Editor

	// Bubble Tea components
	body textarea.Model
	name textinput.Model

	// Template state
	items    []templates.Template
	cursor   int
	renaming string // Id of the template being renamed, empty when creating

	// UI state
	mode      mode
	status    string
	statusErr bool

	// Window dimensions
	width  int
	height int

	quitting bool
}

// savedMsg reports the outcome of a store mutation
type savedMsg struct {
	status string
	err    error

	// selectID is selected in the refreshed list when set
	selectID string
}

func newModel(ctx context.Context, editor *settings.Editor) *model {
	body := textarea.New()
	body.Placeholder = "<p>Hello {caseNumber}</p>"
	body.ShowLineNumbers = false
	body.CharLimit = 0

	name := textinput.New()
	name.Placeholder = "Template name"
	name.CharLimit = 64

	m := &model{
		ctx:    ctx,
		editor: editor,
		body:   body,
		name:   name,
		width:  80,
		height: 24,
	}
	m.reload("")
	return m
}

// reload refreshes the list from the store, keeping or moving the cursor.
func (m *model) reload(selectID string) {
	items, err := m.editor.List()
	if err != nil {
		m.setError(err)
		return
	}
	m.items = items

	if selectID != "" {
		for i, t := range items {
			if t.ID == selectID {
				m.cursor = i
			}
		}
	}
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// selected returns the template under the cursor.
func (m *model) selected() (templates.Template, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return templates.Template{}, false
	}
	return m.items[m.cursor], true
}

func (m *model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}
