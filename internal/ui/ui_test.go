package ui

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/seedify/internal/tasks"
)

func typeInto(m promptModel, text string) promptModel {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(promptModel)
}

func press(m promptModel, k tea.KeyType) (promptModel, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(promptModel), cmd
}

func TestPromptModel(t *testing.T) {
	t.Run("submit returns trimmed value", func(t *testing.T) {
		m := typeInto(newPromptModel("Maximum length", "20", false), "  42 ")
		m, cmd := press(m, tea.KeyEnter)

		if !m.done || cmd == nil {
			t.Fatal("enter should finish the prompt")
		}
		if m.Value() != "42" {
			t.Errorf("Value() = %q, want 42", m.Value())
		}
	})

	t.Run("skip discards input", func(t *testing.T) {
		m := typeInto(newPromptModel("Target energy", "", false), "0.5")
		m, _ = press(m, tea.KeyEsc)

		if !m.skipped || m.Value() != "" {
			t.Errorf("skipped = %v, value = %q", m.skipped, m.Value())
		}
	})

	t.Run("ctrl+c aborts", func(t *testing.T) {
		m, _ := press(newPromptModel("Name", "", false), tea.KeyCtrlC)
		if !m.aborted {
			t.Error("expected aborted prompt")
		}
		if m.View() != "" {
			t.Error("aborted prompt should render nothing")
		}
	})

	t.Run("view shows label and help", func(t *testing.T) {
		view := newPromptModel("Playlist name", "Pop Playlist", false).View()
		for _, want := range []string{"Playlist name", "enter", "esc"} {
			if !strings.Contains(view, want) {
				t.Errorf("view missing %q:\n%s", want, view)
			}
		}
	})

	t.Run("secret input is masked", func(t *testing.T) {
		m := typeInto(newPromptModel("Client secret", "", true), "hunter2")
		if strings.Contains(m.View(), "hunter2") {
			t.Error("secret leaked into view")
		}
		if m.Value() != "hunter2" {
			t.Errorf("Value() = %q", m.Value())
		}
	})
}

func TestPalette(t *testing.T) {
	p := Styles()
	for name, render := range map[string]func(string) string{
		"title": p.Title, "ok": p.OK, "err": p.Err, "warn": p.Warn, "help": p.Help,
	} {
		if out := render("hello"); !strings.Contains(out, "hello") {
			t.Errorf("%s render lost text: %q", name, out)
		}
	}
}

func TestIsInteractive(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if IsInteractive(f) {
		t.Error("regular file should not be interactive")
	}
}

func TestPrintProgress(t *testing.T) {
	var buf bytes.Buffer
	updates := make(chan tasks.ProgressUpdate, 3)
	updates <- tasks.ProgressUpdate{Phase: tasks.ResolveSeeds, Step: 1, Total: 2, Message: "Searching for A - B"}
	updates <- tasks.ProgressUpdate{Phase: tasks.AggregateGenres, Step: 1, Total: 1, Message: "Analyzing genres"}
	close(updates)

	<-PrintProgress(&buf, updates)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	if !strings.Contains(lines[0], "[1/2]") || !strings.Contains(lines[0], "Searching for A - B") {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if lines[1] != "Analyzing genres" {
		t.Errorf("unexpected second line %q", lines[1])
	}
}
