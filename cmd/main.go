package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/desertthunder/seedify/internal/shared"
	"github.com/desertthunder/seedify/internal/ui"
)

func main() {
	logger := shared.NewLogger(nil)

	// Variables already set in the environment win over .env.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to read .env", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Logger:      logger,
		Interactive: ui.IsInteractive(os.Stdin),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := runner.app().Run(ctx, os.Args)
	stop()
	os.Exit(exitCode(err))
}

// exitCode reports err to the user and maps it to a process status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, shared.ErrNoRecommendations):
		fmt.Fprintln(os.Stderr, ui.Styles().Warn("No recommended tracks found. Playlist not created."))
		return 0
	case errors.Is(err, ui.ErrAborted), errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, ui.Styles().Warn("Aborted."))
		return 1
	default:
		fmt.Fprintln(os.Stderr, ui.Styles().Err("Error: "+err.Error()))
		return 1
	}
}
