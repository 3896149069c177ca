package ui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tovam/unacalc-go/calc"
)

func newTestModel() Model {
	driver := calc.NewDriver(calc.NewRegistry(), calc.FormatOptions{})
	return New(context.Background(), driver)
}

func typeString(m Model, s string) Model {
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

func TestTypingShowsLiveResult(t *testing.T) {
	m := typeString(newTestModel(), "5 m + 3 m")
	require.True(t, m.state.Live())
	assert.Contains(t, m.View(), "8 m")
}

func TestIncompleteInputKeepsLastResult(t *testing.T) {
	m := typeString(newTestModel(), "5 m + 3 m")
	m = typeString(m, " -")
	assert.Equal(t, calc.StaleResult, m.state.State)
	assert.Contains(t, m.View(), "8 m")
}

func TestEnterSurfacesError(t *testing.T) {
	m := typeString(newTestModel(), "5 m + 3 kg")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.NotEmpty(t, m.state.Err)
	assert.Contains(t, m.View(), "error:")
}

func TestEnterError_ClearedByNextKeystroke(t *testing.T) {
	m := typeString(newTestModel(), "5 kg")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.Empty(t, m.state.Err)

	m = typeString(m, " +")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.NotEmpty(t, m.state.Err)

	m = typeString(m, " 2 kg")
	assert.True(t, m.state.Live())
	assert.Empty(t, m.state.Err)
	assert.Contains(t, m.View(), "7 kg")
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlW} {
		_, cmd := newTestModel().Update(tea.KeyMsg{Type: key})
		require.NotNil(t, cmd, "key %v should quit", key)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestEmptyInputPrompt(t *testing.T) {
	m := newTestModel()
	assert.Contains(t, m.View(), "type an expression")
}
