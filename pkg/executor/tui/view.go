package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/caselens/pkg/templates"
)

const (
	sidebarWidth = 32
	previewLines = 12
)

// View renders the editor.
func (m *model) View() string {
	if m.quitting {
		return ""
	}

	header := headerStyle.Render("caselens templates")
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.buildSidebar(), " ", m.buildMain())

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.buildTips(),
		body,
		m.buildStatusBar(),
	)
}

// buildTips renders mode-sensitive key hints
func (m *model) buildTips() string {
	switch m.mode {
	case modeEdit:
		return tipsStyle.Render("  Ctrl+S save • Esc discard • placeholders look like {site}")
	case modeName:
		return tipsStyle.Render("  Enter confirm • Esc cancel")
	case modeConfirmDelete:
		return tipsStyle.Render("  y delete • any other key cancels")
	}
	return tipsStyle.Render("  ↑/↓ select • Enter edit • n new • r rename • d delete • q quit")
}

// buildSidebar renders the template list
func (m *model) buildSidebar() string {
	var b strings.Builder
	for i, t := range m.items {
		line := truncate(t.Name, sidebarWidth-6)
		if i == m.cursor {
			line = selectedStyle.Render("› " + line)
		} else {
			line = itemStyle.Render("  " + line)
		}
		if t.IsDefault {
			line += defaultBadgeStyle.Render(" ·")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	snapshot := templates.Snapshot{}
	for _, t := range m.items {
		snapshot[t.ID] = t
	}
	fmt.Fprintf(&b, "\n%s", tipsStyle.Render(fmt.Sprintf("%d/%d custom", snapshot.CustomCount(), templates.MaxCustomTemplates)))

	return sidebarStyle.Width(sidebarWidth).Render(b.String())
}

// buildMain renders the editor, dialog or preview pane
func (m *model) buildMain() string {
	width := max(20, m.width-sidebarWidth-6)

	switch m.mode {
	case modeEdit:
		return inputBoxStyle.Width(width).Render(m.body.View())

	case modeName:
		title := "New template"
		if m.renaming != "" {
			title = "Rename template"
		}
		return dialogStyle.Width(width).Render(headerStyle.Render(title) + "\n\n" + m.name.View())

	case modeConfirmDelete:
		t, _ := m.selected()
		return dialogStyle.Width(width).Render(fmt.Sprintf("Delete %s? (y/N)", t.Name))
	}

	t, ok := m.selected()
	if !ok {
		return tipsStyle.Render("No templates")
	}
	preview := t.Template
	if preview == "" {
		preview = tipsStyle.Render("(empty)")
	}
	lines := strings.Split(wrap(preview, width-4), "\n")
	if len(lines) > previewLines {
		lines = append(lines[:previewLines], "…")
	}
	return sidebarStyle.Width(width).Render(headerStyle.Render(t.Name) + "\n\n" + strings.Join(lines, "\n"))
}

// buildStatusBar renders the last status or error
func (m *model) buildStatusBar() string {
	if m.status == "" {
		return statusBarStyle.Render(" ")
	}
	if m.statusErr {
		return statusBarStyle.Render(errorStyle.Render("✗ " + m.status))
	}
	return statusBarStyle.Render(successStyle.Render("✓ " + m.status))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// wrap breaks s into lines of at most width runes.
func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	var b strings.Builder
	r := []rune(s)
	for len(r) > width {
		b.WriteString(string(r[:width]))
		b.WriteString("\n")
		r = r[width:]
	}
	b.WriteString(string(r))
	return b.String()
}
