package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/seedify/internal/formatter"
	"github.com/desertthunder/seedify/internal/models"
	"github.com/desertthunder/seedify/internal/shared"
)

// Extract prints the descriptors found at the path argument.
func (r *Runner) Extract(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path to a playlist, audio file or folder", shared.ErrMissingArgument)
	}

	res, err := r.extract(path)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if res.Descriptors == nil {
			res.Descriptors = []models.Descriptor{}
		}
		return r.writeJSON(res.Descriptors, true)
	}
	if len(res.Descriptors) == 0 {
		return fmt.Errorf("%w: %s", shared.ErrNoTracks, path)
	}

	r.writePlainHeader(fmt.Sprintf("%d tracks from %s (%s)", len(res.Descriptors), path, res.Source))
	return r.writePlain("%s\n", formatter.RenderDescriptors(res.Descriptors))
}
