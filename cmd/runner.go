package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/seedify/internal/services"
	"github.com/desertthunder/seedify/internal/shared"
	"github.com/desertthunder/seedify/internal/ui"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	fixedConfig bool
	logger      *log.Logger
	output      io.Writer
	status      io.Writer
	prompter    ui.Prompter
	secrets     ui.Prompter
	interactive bool
	catalog     services.Catalog
	now         func() time.Time
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A non-nil Config is used as is and the --config flag is ignored. A non-nil
// Catalog replaces the Spotify session, skipping credentials and OAuth.
type RunnerOpts struct {
	Config         *shared.Config
	ConfigPath     string
	Logger         *log.Logger
	Output         io.Writer
	Status         io.Writer
	Prompter       ui.Prompter
	SecretPrompter ui.Prompter
	Interactive    bool
	Catalog        services.Catalog
	Clock          func() time.Time
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	fixed := opts.Config != nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = "config.toml"
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Status == nil {
		opts.Status = os.Stderr
	}
	if opts.Prompter == nil {
		tp := ui.NewTextPrompter(os.Stdin, os.Stderr)
		opts.Prompter = tp
		if opts.SecretPrompter == nil {
			opts.SecretPrompter = tp.Secret()
		}
	}
	if opts.SecretPrompter == nil {
		opts.SecretPrompter = opts.Prompter
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		fixedConfig: fixed,
		logger:      opts.Logger,
		output:      opts.Output,
		status:      opts.Status,
		prompter:    opts.Prompter,
		secrets:     opts.SecretPrompter,
		interactive: opts.Interactive,
		catalog:     opts.Catalog,
		now:         opts.Clock,
	}
}

// app builds the root command.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "seedify",
		Usage:   "Build a Spotify playlist of recommendations seeded by local music",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "info",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Only log errors",
			},
		},
		Before:   r.before,
		Commands: r.register(),
	}
}

// before applies the global flags ahead of every command.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level := cmd.String("log-level")
	if cmd.Bool("quiet") {
		level = "error"
	}
	if err := shared.SetLogLevel(r.logger, level); err != nil {
		return ctx, err
	}

	if r.fixedConfig {
		return ctx, nil
	}
	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}
	config, err := shared.LoadConfigOrDefault(r.configPath)
	if err != nil {
		return ctx, err
	}
	r.config = config
	r.logger.Debug("configuration loaded", "path", r.configPath)
	return ctx, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		buildCommand, extractCommand, authCommand, setupCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// ask prompts for one value. It returns "" without prompting when enabled is false.
func (r *Runner) ask(p ui.Prompter, enabled bool, label, placeholder string) (string, error) {
	if !enabled {
		return "", nil
	}
	return p.Prompt(label, placeholder)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", ui.Styles().Title(title))
	r.writePlain("═══════════════════════════════════════\n")
}
