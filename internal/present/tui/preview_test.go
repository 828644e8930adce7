package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sized(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 10})
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func TestModelSwitchesPanes(t *testing.T) {
	m := sized(t, NewModel("Draft", []Pane{
		{Name: "preview", Content: "rendered text"},
		{Name: "html", Content: "<strong>x</strong>"},
	}))
	assert.Equal(t, "preview", m.Active())
	assert.Contains(t, m.View(), "rendered text")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	assert.Equal(t, "html", m.Active())
	assert.Contains(t, m.View(), "<strong>x</strong>")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "preview", next.(Model).Active())
}

func TestModelQuits(t *testing.T) {
	m := sized(t, NewModel("Draft", []Pane{{Name: "preview", Content: "x"}}))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
}

func TestViewBeforeSize(t *testing.T) {
	m := NewModel("Draft", []Pane{{Name: "preview", Content: "x"}})
	assert.True(t, strings.HasPrefix(m.View(), "loading"))
}
