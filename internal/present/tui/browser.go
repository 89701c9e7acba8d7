package tui

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/mdtree/internal/present/format"
	"github.com/mithrel/mdtree/pkg/api"
)

// BrowseTree opens an interactive table of the nodes under root. Pressing
// enter quits and draws the selected subtree to out.
func BrowseTree(ctx context.Context, out io.Writer, root *api.Node, headers bool) error {
	m := newModel(root, headers)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(model); ok {
		if n := fm.selected(); n != nil {
			return format.WritePrettyTree(out, n)
		}
	}
	return nil
}

type model struct {
	table   table.Model
	nodes   []*api.Node
	rows    []format.Row
	keys    []string
	visible []int
	query   string
	filter  *filterModal
	showIdx int
	headers bool
	width   int
	height  int
}

func newModel(root *api.Node, headers bool) model {
	m := model{showIdx: -1, headers: headers}
	api.Walk(root, func(n *api.Node, _ int) bool {
		m.nodes = append(m.nodes, n)
		return true
	})
	m.rows = format.Flatten(root)
	m.keys = make([]string, len(m.rows))
	for i, r := range m.rows {
		m.keys[i] = r.Type + " " + r.Content
	}
	m.table = table.New(table.WithColumns(m.columnsFor(36, 12, 40)), table.WithFocused(true))
	m.applyFilter("")
	m.applyStyles()
	return m
}

// applyFilter narrows the visible rows to those matching query.
func (m *model) applyFilter(query string) {
	m.query = query
	m.visible = matchRows(query, m.keys)
	rows := make([]table.Row, 0, len(m.visible))
	for _, i := range m.visible {
		r := m.rows[i]
		rows = append(rows, table.Row{
			strings.Repeat("  ", r.Depth) + r.Type,
			strconv.Itoa(r.From) + "-" + strconv.Itoa(r.To),
			format.Snippet(r.Content, 0),
		})
	}
	m.table.SetRows(rows)
	if len(rows) > 0 {
		m.table.SetCursor(0)
	}
}

// selected returns the node chosen with enter, or nil.
func (m model) selected() *api.Node {
	if m.showIdx < 0 || m.showIdx >= len(m.nodes) {
		return nil
	}
	return m.nodes[m.showIdx]
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.filter != nil {
		return m.updateFilter(msg)
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyLayout()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c", "ctrl+q":
			return m, tea.Quit
		case "enter":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.visible) {
				m.showIdx = m.visible[idx]
			}
			return m, tea.Quit
		case "/":
			m.filter = newFilterModal(m.query, m.width, m.height)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) updateFilter(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc", "ctrl+q":
			m.filter = nil
			return m, nil
		case "ctrl+x":
			m.filter = nil
			m.applyFilter("")
			return m, nil
		case "enter":
			q := m.filter.value()
			m.filter = nil
			m.applyFilter(q)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.update(msg)
	return m, cmd
}

func (m model) renderFooter() string {
	left := "↑/↓ to navigate • enter=show • /=filter • q=exit"
	right := fmt.Sprintf("%d/%d nodes ", len(m.visible), len(m.rows))
	if m.query != "" {
		right = fmt.Sprintf("filter %q • ", m.query) + right
	}
	space := max(m.table.Width()-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", space) + right
}

func (m model) View() string {
	base := m.table.View() + "\n" + m.renderFooter() + "\n"
	if m.filter != nil {
		return m.renderOverlay(base, m.filter.View(), m.filter.width+2, m.filter.height+2)
	}
	return base
}

func (m *model) applyLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.table.SetHeight(max(6, m.height-1))
	m.table.SetWidth(m.width)
	avail := m.width - 4
	if avail < 40 {
		return
	}
	spanW := 12
	typeW := min(36, avail/3)
	m.table.SetColumns(m.columnsFor(typeW, spanW, max(avail-typeW-spanW, 8)))
}

func (m *model) applyStyles() {
	s := table.DefaultStyles()
	if m.headers {
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
	} else {
		s.Header = s.Header.
			BorderBottom(false).
			Bold(false)
	}
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	m.table.SetStyles(s)
}

// columnsFor returns columns with or without titles based on the headers flag.
func (m *model) columnsFor(typeW, spanW, contentW int) []table.Column {
	titles := []string{"Node", "Span", "Content"}
	if !m.headers {
		titles = []string{"", "", ""}
	}
	return []table.Column{
		{Title: titles[0], Width: typeW},
		{Title: titles[1], Width: spanW},
		{Title: titles[2], Width: contentW},
	}
}
