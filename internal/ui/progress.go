package ui

import (
	"fmt"
	"io"

	"github.com/desertthunder/seedify/internal/tasks"
)

// PrintProgress writes one line per update until updates is closed. The
// returned channel is closed once every update has been written.
func PrintProgress(w io.Writer, updates <-chan tasks.ProgressUpdate) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range updates {
			fmt.Fprintln(w, FormatProgress(u))
		}
	}()
	return done
}

// FormatProgress renders an update as "[step/total] message".
func FormatProgress(u tasks.ProgressUpdate) string {
	if u.Total <= 1 {
		return u.Message
	}
	return fmt.Sprintf("%s %s", styles.Help(fmt.Sprintf("[%d/%d]", u.Step, u.Total)), u.Message)
}
