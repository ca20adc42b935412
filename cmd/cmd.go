// submodule cmd contains command definitions
package main

import (
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/seedify/internal/models"
)

// criterionFlags maps build flags onto criterion keys, in prompt order.
var criterionFlags = []struct {
	flag  string
	key   string
	usage string
}{
	{"valence", models.KeyTargetValence, "Target valence, 0.0 (sad) to 1.0 (happy)"},
	{"popularity", models.KeyTargetPopularity, "Target popularity, 0 to 100"},
	{"min-tempo", models.KeyMinTempo, "Minimum tempo in BPM"},
	{"max-tempo", models.KeyMaxTempo, "Maximum tempo in BPM"},
	{"energy", models.KeyTargetEnergy, "Target energy, 0.0 to 1.0"},
	{"danceability", models.KeyTargetDanceability, "Target danceability, 0.0 to 1.0"},
	{"min-year", models.KeyMinReleaseYear, "Earliest release year of recommended tracks"},
	{"max-year", models.KeyMaxReleaseYear, "Latest release year of recommended tracks"},
}

// buildCommand runs the whole pipeline for one input path.
func buildCommand(r *Runner) *cli.Command {
	flags := []cli.Flag{
		&cli.IntFlag{
			Name:    "max-length",
			Aliases: []string{"n"},
			Usage:   "Maximum playlist length (raised to the number of input tracks)",
		},
	}
	// Criteria are parsed as text so flags and prompts share validation.
	for _, c := range criterionFlags {
		flags = append(flags, &cli.StringFlag{Name: c.flag, Usage: c.usage})
	}
	flags = append(flags,
		&cli.StringFlag{
			Name:  "name",
			Usage: "Playlist name (default is derived from the top genres)",
		},
		&cli.StringFlag{
			Name:  "description",
			Usage: "Playlist description",
		},
		&cli.BoolFlag{
			Name:  "public",
			Usage: "Create a public playlist",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Print recommendations without creating a playlist",
		},
		&cli.StringFlag{
			Name:    "export",
			Aliases: []string{"o"},
			Usage:   "Write the recommended tracks to a CSV file (or JSON for a .json path)",
		},
		&cli.BoolFlag{
			Name:  "no-prompt",
			Usage: "Never prompt; use flags and defaults only",
		},
	)

	return &cli.Command{
		Name:  "build",
		Usage: "Create a playlist of recommendations seeded by a playlist, audio file or folder",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "path"},
		},
		Flags:  flags,
		Action: r.Build,
	}
}

// extractCommand prints descriptors without touching the network.
func extractCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "extract",
		Usage: "Print the artist and title read from a playlist, audio file or folder",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "path"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Extract,
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify credentials and authorization",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Store client credentials and authorize with Spotify",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "client-id",
						Usage: "Spotify application client ID",
					},
					&cli.StringFlag{
						Name:  "client-secret",
						Usage: "Spotify application client secret",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show whether credentials and a token are stored",
				Action: r.AuthStatus,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a configuration file from the built-in template",
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// historyCommand lists recorded runs.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List previous builds",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to list",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.History,
	}
}
