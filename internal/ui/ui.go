// Package ui is the terminal front end: a single input line that
// re-evaluates on every keystroke and a result line that keeps the
// last good value while the expression is mid-edit, the way the
// original desktop calculator behaved.
package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tovam/unacalc-go/calc"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("81"))
	resultStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("120"))
	staleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// Model is the Bubble Tea model for the calculator.
type Model struct {
	input  textinput.Model
	driver *calc.Driver
	state  calc.DisplayState
	ctx    context.Context
}

// New builds the model around an evaluation driver. The context
// carries the decimal precision and, in tests, a pinned evaluation
// instant.
func New(ctx context.Context, driver *calc.Driver) Model {
	ti := textinput.New()
	ti.Placeholder = `e.g. 3 * 5 m/s^2 in km/h^2`
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	ti.Focus()

	return Model{
		input:  ti,
		driver: driver,
		ctx:    ctx,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlW:
			return m, tea.Quit
		case tea.KeyEnter:
			m.state = m.driver.EvaluateNow(m.ctx, m.input.Value())
			if m.state.Err != "" {
				m.input.TextStyle = errorStyle
			} else {
				m.input.TextStyle = lipgloss.NewStyle()
			}
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 4
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.input.TextStyle = lipgloss.NewStyle()
	m.state = m.driver.OnInputChanged(m.ctx, m.input.Value())
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("unacalc"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.resultLine())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter: evaluate · esc: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) resultLine() string {
	if m.state.Err != "" {
		return errorStyle.Render("error: " + m.state.Err)
	}
	switch m.state.State {
	case calc.LiveResult:
		return resultStyle.Render("= " + m.state.Result)
	case calc.StaleResult:
		return staleStyle.Render("= " + m.state.Result)
	default:
		return helpStyle.Render("type an expression")
	}
}

// Run starts the interactive session and blocks until the user quits.
func Run(ctx context.Context, driver *calc.Driver) error {
	p := tea.NewProgram(New(ctx, driver))
	_, err := p.Run()
	return err
}
