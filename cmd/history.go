package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/seedify/internal/formatter"
	"github.com/desertthunder/seedify/internal/repositories"
	"github.com/desertthunder/seedify/internal/shared"
)

// History lists the most recent builds, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	if limit < 1 {
		return fmt.Errorf("%w: --limit must be positive", shared.ErrInvalidFlag)
	}

	db, err := shared.OpenDatabase(r.config)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := repositories.NewRunRepository(db).List(limit)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(runs, true)
	}
	if len(runs) == 0 {
		return r.writePlain("No runs recorded yet.\n")
	}
	return r.writePlain("%s\n", formatter.RenderRuns(runs))
}
