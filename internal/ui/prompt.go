package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// ErrAborted is returned when the user aborts a prompt with ctrl+c.
var ErrAborted = errors.New("prompt aborted")

// Prompter asks for one line of input. An empty answer means "use the default".
type Prompter interface {
	Prompt(label, placeholder string) (string, error)
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// TextPrompter renders each prompt as a single-line bubbletea program.
type TextPrompter struct {
	in     io.Reader
	out    io.Writer
	secret bool
}

// NewTextPrompter creates a prompter reading keys from in and drawing to out.
func NewTextPrompter(in io.Reader, out io.Writer) *TextPrompter {
	return &TextPrompter{in: in, out: out}
}

// Secret returns a copy of p that masks typed characters.
func (p *TextPrompter) Secret() *TextPrompter {
	c := *p
	c.secret = true
	return &c
}

// Prompt implements [Prompter].
func (p *TextPrompter) Prompt(label, placeholder string) (string, error) {
	m := newPromptModel(label, placeholder, p.secret)
	final, err := tea.NewProgram(m, tea.WithInput(p.in), tea.WithOutput(p.out)).Run()
	if err != nil {
		return "", fmt.Errorf("prompt %q: %w", label, err)
	}

	result := final.(promptModel)
	if result.aborted {
		return "", ErrAborted
	}
	return result.Value(), nil
}

// promptModel is the bubbletea model behind [TextPrompter].
type promptModel struct {
	label   string
	input   textinput.Model
	help    help.Model
	keys    keyMap
	done    bool
	skipped bool
	aborted bool
}

func newPromptModel(label, placeholder string, secret bool) promptModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.Width = 48
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
	}
	ti.Focus()

	return promptModel{label: label, input: ti, help: help.New(), keys: newKeyMap()}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.quit):
			m.aborted = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.skip):
			m.skipped, m.done = true, true
			return m, tea.Quit
		case key.Matches(msg, m.keys.submit):
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	return fmt.Sprintf("%s\n%s\n%s\n", styles.Title(m.label), m.input.View(), styles.Help(m.help.View(m.keys)))
}

// Value returns the trimmed answer, or "" when the prompt was skipped.
func (m promptModel) Value() string {
	if m.skipped {
		return ""
	}
	return strings.TrimSpace(m.input.Value())
}
