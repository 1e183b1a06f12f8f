package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Init implements tea.Model.
func (m *model) Init() tea.Cmd {
	return nil
}

// Update handles all state updates for the editor.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.body.SetWidth(max(20, msg.Width-sidebarWidth-8))
		m.body.SetHeight(max(5, msg.Height-8))
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.setStatus(msg.status)
		}
		m.reload(msg.selectID)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.mode {
		case modeEdit:
			return m.updateEdit(msg)
		case modeName:
			return m.updateName(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}
	}

	// Forward other messages (cursor blink) to the focused input
	var cmd tea.Cmd
	switch m.mode {
	case modeEdit:
		m.body, cmd = m.body.Update(msg)
	case modeName:
		m.name, cmd = m.name.Update(msg)
	}
	return m, cmd
}

func (m *model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case "enter", "e":
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeEdit
		m.body.SetValue(t.Template)
		m.setStatus(fmt.Sprintf("Editing %s", t.Name))
		return m, m.body.Focus()

	case "n":
		if !m.editor.CanCreate() {
			m.setStatus("Custom template limit reached")
			m.statusErr = true
			return m, nil
		}
		m.renaming = ""
		return m, m.openNameDialog("")

	case "r":
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		if t.IsDefault {
			m.setStatus("Default templates cannot be renamed")
			m.statusErr = true
			return m, nil
		}
		m.renaming = t.ID
		return m, m.openNameDialog(t.Name)

	case "d":
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		if t.IsDefault {
			m.setStatus("Default templates cannot be deleted")
			m.statusErr = true
			return m, nil
		}
		m.mode = modeConfirmDelete
	}
	return m, nil
}

func (m *model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.body.Blur()
		m.mode = modeList
		m.setStatus("Edit discarded")
		return m, nil

	case tea.KeyCtrlS:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		body := m.body.Value()
		m.body.Blur()
		m.mode = modeList
		return m, m.saveBody(t.ID, t.Name, body)
	}

	var cmd tea.Cmd
	m.body, cmd = m.body.Update(msg)
	return m, cmd
}

func (m *model) updateName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.name.Blur()
		m.mode = modeList
		return m, nil

	case tea.KeyEnter:
		name := m.name.Value()
		m.name.Blur()
		m.mode = modeList
		if m.renaming != "" {
			return m, m.rename(m.renaming, name)
		}
		return m, m.create(name)
	}

	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

func (m *model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeList
	t, ok := m.selected()
	if !ok {
		return m, nil
	}
	switch msg.String() {
	case "y", "Y":
		return m, m.delete(t.ID, t.Name)
	}
	m.setStatus("Delete cancelled")
	return m, nil
}

func (m *model) openNameDialog(value string) tea.Cmd {
	m.mode = modeName
	m.name.SetValue(value)
	m.name.CursorEnd()
	return m.name.Focus()
}

// Store mutations run as commands and report back with savedMsg

func (m *model) create(name string) tea.Cmd {
	return func() tea.Msg {
		t, err := m.editor.Create(m.ctx, name)
		if err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{status: fmt.Sprintf("Created %s", t.Name), selectID: t.ID}
	}
}

func (m *model) rename(id, name string) tea.Cmd {
	return func() tea.Msg {
		t, err := m.editor.Rename(m.ctx, id, name)
		if err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{status: fmt.Sprintf("Renamed to %s", t.Name), selectID: t.ID}
	}
}

func (m *model) saveBody(id, name, body string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.editor.Edit(m.ctx, id, body); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{status: fmt.Sprintf("Template %s saved", name), selectID: id}
	}
}

func (m *model) delete(id, name string) tea.Cmd {
	return func() tea.Msg {
		if err := m.editor.Delete(m.ctx, id); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{status: fmt.Sprintf("Deleted %s", name)}
	}
}
