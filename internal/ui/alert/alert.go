// Package alert provides a blocking message dialog. While it is open it
// swallows key presses; enter or esc closes it.
package alert

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/lensfolio/lensfolio/internal/ui/overlay"
	"github.com/lensfolio/lensfolio/internal/ui/styles"
)

const (
	minWidth = 36
	maxWidth = 60
)

// DismissedMsg is sent when the user closes the dialog.
type DismissedMsg struct{}

// Model is the alert dialog state.
type Model struct {
	title   string
	message string
	visible bool
	width   int
	height  int
}

// New creates a hidden alert.
func New() Model {
	return Model{}
}

// Show opens the dialog.
func (m Model) Show(title, message string) Model {
	m.title = title
	m.message = message
	m.visible = true
	return m
}

// Visible reports whether the dialog is open.
func (m Model) Visible() bool {
	return m.visible
}

// Message returns the dialog text.
func (m Model) Message() string {
	return m.message
}

// SetSize records the viewport size for centering.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// Update closes the dialog on enter or esc. Other keys are consumed.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc", " ":
			m.visible = false
			return m, func() tea.Msg { return DismissedMsg{} }
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m Model) contentWidth() int {
	w := maxWidth
	if m.width > 0 {
		w = min(w, m.width-6)
	}
	return max(w, minWidth)
}

// View renders the dialog box.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	width := m.contentWidth()

	title := lipgloss.NewStyle().Bold(true).Foreground(styles.StatusErrorColor).Render(m.title)
	divider := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor).Render(strings.Repeat("─", width))
	body := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).
		Render(wordwrap.String(m.message, width))
	button := styles.PrimaryButtonFocusedStyle.Render("OK")
	hint := styles.HintStyle.Render("enter/esc to close")

	content := strings.Join([]string{
		title,
		divider,
		body,
		"",
		lipgloss.JoinHorizontal(lipgloss.Center, button, "  ", hint),
	}, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.StatusErrorColor).
		Padding(0, 1).
		Render(content)
}

// Overlay renders the dialog centered over bg.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}
