package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Pane is one switchable view of a document.
type Pane struct {
	Name    string
	Content string
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	tabStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	activeStyle = lipgloss.NewStyle().Bold(true).Underline(true).Padding(0, 1)
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

// Run opens a full-screen pager over panes until the user quits or ctx ends.
func Run(ctx context.Context, title string, panes []Pane) error {
	if len(panes) == 0 {
		return nil
	}
	p := tea.NewProgram(NewModel(title, panes), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Model is the Bubble Tea model behind Run.
type Model struct {
	title  string
	panes  []Pane
	active int
	vp     viewport.Model
	ready  bool
}

func NewModel(title string, panes []Pane) Model {
	return Model{title: title, panes: panes}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			if len(m.panes) > 1 {
				m.active = (m.active + 1) % len(m.panes)
				m.vp.SetContent(m.panes[m.active].Content)
				m.vp.GotoTop()
			}
			return m, nil
		}
	case tea.WindowSizeMsg:
		h := msg.Height - lipgloss.Height(m.header()) - lipgloss.Height(m.footer())
		if h < 1 {
			h = 1
		}
		if !m.ready {
			m.vp = viewport.New(msg.Width, h)
			m.vp.SetContent(m.panes[m.active].Content)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = h
		}
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return "loading…\n"
	}
	return m.header() + "\n" + m.vp.View() + "\n" + m.footer()
}

// Active reports the name of the visible pane.
func (m Model) Active() string { return m.panes[m.active].Name }

func (m Model) header() string {
	parts := []string{titleStyle.Render(m.title)}
	for i, p := range m.panes {
		if i == m.active {
			parts = append(parts, activeStyle.Render(p.Name))
		} else {
			parts = append(parts, tabStyle.Render(p.Name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) footer() string {
	pct := 100
	if m.ready {
		pct = int(m.vp.ScrollPercent() * 100)
	}
	help := "↑/↓ scroll • tab switch view • q quit"
	return helpStyle.Render(fmt.Sprintf("%s %s %3d%%", help, strings.Repeat(" ", 2), pct))
}
