// Package prompt asks the operator yes/no questions on the terminal.
package prompt

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// confirmModel is a bubbletea model reading a single yes/no answer.
type confirmModel struct {
	question string
	input    textinput.Model
	done     bool
}

func newConfirmModel(question string) confirmModel {
	ti := textinput.New()
	ti.CharLimit = 8
	ti.Focus()
	return confirmModel{question: question, input: ti}
}

func (m confirmModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s\n", m.question, m.input.View())
}

// confirmed reports whether the answer was y or yes. A cancelled prompt is a
// no.
func (m confirmModel) confirmed() bool {
	if !m.done {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(m.input.Value())) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Terminal asks questions through a bubbletea program.
type Terminal struct {
	In  io.Reader
	Out io.Writer
}

// Confirm shows question and waits for an answer.
func (t Terminal) Confirm(question string) (bool, error) {
	var opts []tea.ProgramOption
	if t.In != nil {
		opts = append(opts, tea.WithInput(t.In))
	}
	if t.Out != nil {
		opts = append(opts, tea.WithOutput(t.Out))
	}
	result, err := tea.NewProgram(newConfirmModel(question), opts...).Run()
	if err != nil {
		return false, fmt.Errorf("prompt: %w", err)
	}
	final, ok := result.(confirmModel)
	if !ok {
		return false, nil
	}
	return final.confirmed(), nil
}
