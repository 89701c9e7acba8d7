package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"
)

// filterModal is a foreground modal holding the fuzzy query.
type filterModal struct {
	query  textinput.Model
	width  int
	height int
	padX   int
	padY   int
	box    lipglossv2.Style
}

func newFilterModal(value string, termW, termH int) *filterModal {
	m := &filterModal{padX: 2, padY: 1}
	m.query = textinput.New()
	m.query.Prompt = "/ "
	m.query.Placeholder = "heading, Link, some text"
	m.query.SetValue(value)
	m.query.Focus()
	m.resizeForTerm(termW, termH)
	return m
}

func (m *filterModal) resizeForTerm(termW, termH int) {
	if termW <= 0 || termH <= 0 {
		termW, termH = 80, 24
	}
	w := min(max(int(float64(termW)*0.6), 40), termW-2, 90)
	h := 7
	m.width, m.height = w, h
	m.box = lipglossv2.NewStyle().
		Width(w).
		Height(h).
		Padding(m.padY, m.padX).
		Border(lipglossv2.RoundedBorder()).
		BorderForeground(lipglossv2.Color("63"))
	innerW := w - 2 - m.padX*2
	m.query.Width = max(12, innerW-lipgloss.Width(m.query.Prompt))
}

func (m *filterModal) value() string { return strings.TrimSpace(m.query.Value()) }

func (m *filterModal) update(msg tea.Msg) (*filterModal, tea.Cmd) {
	if x, ok := msg.(tea.WindowSizeMsg); ok {
		m.resizeForTerm(x.Width, x.Height)
		return m, nil
	}
	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	return m, cmd
}

func (m *filterModal) View() string {
	header := lipgloss.NewStyle().Bold(true).Render("Filter nodes")
	help := lipgloss.NewStyle().Faint(true).Render("enter=apply • esc=cancel • ctrl+x=clear")
	return m.box.Render(strings.Join([]string{header, "", m.query.View(), "", help}, "\n"))
}
