// Package ui holds the terminal presentation helpers: a lipgloss [Palette],
// single-line bubbletea prompts ([TextPrompter]) and a progress printer for
// build updates.
//
// Prompts only run when [IsInteractive] reports a terminal; callers fall
// back to flag values otherwise.
package ui
