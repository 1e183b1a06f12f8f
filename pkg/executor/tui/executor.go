// Package tui provides the terminal settings editor for caselens templates.
//
// The TUI codebase is split into multiple files:
// - executor.go: program lifecycle
// - model.go: model structure and state
// - update.go: Bubble Tea Update function and message handling
// - view.go: Bubble Tea View function and rendering
// - styles.go: Color schemes and styling
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/caselens/pkg/settings"
)

// Executor runs the template editor.
type Executor struct {
	editor  *settings.Editor
	program *tea.Program
}

// NewExecutor creates an executor over editor.
func NewExecutor(editor *settings.Editor) *Executor {
	return &Executor{editor: editor}
}

// Run starts the TUI and blocks until the user exits.
func (e *Executor) Run(ctx context.Context) error {
	m := newModel(ctx, e.editor)
	e.program = tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := e.program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI program: %w", err)
	}
	return nil
}
