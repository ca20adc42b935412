package main

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/seedify/internal/extract"
	"github.com/desertthunder/seedify/internal/formatter"
	"github.com/desertthunder/seedify/internal/models"
	"github.com/desertthunder/seedify/internal/repositories"
	"github.com/desertthunder/seedify/internal/shared"
	"github.com/desertthunder/seedify/internal/tasks"
	"github.com/desertthunder/seedify/internal/ui"
)

// Build extracts descriptors from the path argument, gathers recommendations
// and creates the playlist.
//
// Input errors stop the run before any playlist is created. With --dry-run
// the tracks are printed (and exported) but never published.
func (r *Runner) Build(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path to a playlist, audio file or folder", shared.ErrMissingArgument)
	}
	prompting := r.interactive && !cmd.Bool("no-prompt")

	extracted, err := r.extract(path)
	if err != nil {
		return err
	}
	if len(extracted.Descriptors) == 0 {
		return fmt.Errorf("%w: %s", shared.ErrNoTracks, path)
	}
	r.writePlain("Found %d tracks in %s (%s)\n", len(extracted.Descriptors), path, extracted.Source)

	dir, err := r.config.StateDir()
	if err != nil {
		return err
	}
	lock, err := shared.AcquireRunLock(dir)
	if err != nil {
		return err
	}
	defer lock.Release()

	catalog, err := r.connect(ctx, prompting)
	if err != nil {
		return err
	}

	maxLength, err := r.maxLength(cmd, len(extracted.Descriptors), prompting)
	if err != nil {
		return err
	}
	criteria, err := r.criteria(cmd, prompting)
	if err != nil {
		return err
	}

	logger := shared.WithLogger(r.logger, "source", path)
	db := r.openDatabase()
	if db != nil {
		defer db.Close()
	}

	updates := make(chan tasks.ProgressUpdate, 16)
	printed := ui.PrintProgress(r.status, updates)
	defer func() {
		close(updates)
		<-printed
	}()

	opts := []tasks.PipelineOption{
		tasks.WithLogger(logger),
		tasks.WithPace(r.config.Recommend.Pace()),
		tasks.WithCriteria(criteria),
		tasks.WithLimits(r.config.Recommend.CoverageLimit, r.config.Recommend.FillLimit),
		tasks.WithNameLimit(r.config.Playlist.NameLimit),
		tasks.WithProgress(updates),
		tasks.WithClock(r.now),
	}
	if db != nil && r.config.Recommend.SeedCache {
		opts = append(opts, tasks.WithSeedCache(repositories.NewSeedRepository(db)))
	}
	pipeline := tasks.NewPipeline(catalog, opts...)

	result, err := pipeline.Run(ctx, extracted.Descriptors, maxLength)
	if result != nil {
		if table := formatter.RenderResolutions(result.Resolutions); table != "" {
			r.writePlainln("%s", ui.Styles().Warn(fmt.Sprintf("%d tracks could not be matched:", len(result.Unresolved()))))
			r.writePlain("%s\n", table)
		}
	}
	if err != nil {
		return err
	}

	r.writePlainHeader(fmt.Sprintf("Recommended Tracks (%d)", len(result.Tracks)))
	r.writePlain("%s\n", formatter.RenderTracks(result.Tracks))

	name, description, err := r.playlistDetails(cmd, result.SuggestedName, prompting)
	if err != nil {
		return err
	}

	if out := cmd.String("export"); out != "" {
		if err := formatter.WriteExport(result.Tracks, out); err != nil {
			return err
		}
		r.writePlain("Exported %d tracks to %s\n", len(result.Tracks), out)
	}

	run := &models.Run{
		SourcePath:      path,
		DescriptorCount: len(extracted.Descriptors),
		SeedCount:       len(result.Seeds),
		PlaylistName:    name,
		DryRun:          cmd.Bool("dry-run"),
		Tracks:          result.Tracks,
		CreatedAt:       r.now(),
	}

	if run.DryRun {
		r.writePlainln("%s", ui.Styles().OK(fmt.Sprintf("Dry run: playlist '%s' not created.", name)))
		r.recordRun(db, run)
		return nil
	}

	public := r.config.Playlist.Public || cmd.Bool("public")
	pub, err := pipeline.Publish(ctx, name, description, public, result.TrackIDs())
	if err != nil {
		return err
	}
	run.PlaylistID = pub.PlaylistID
	r.recordRun(db, run)

	if len(pub.Failures) > 0 {
		r.writePlainln("%s", ui.Styles().Warn(fmt.Sprintf("%d of %d tracks could not be added.", len(result.Tracks)-pub.Added, len(result.Tracks))))
	}
	r.writePlainln("%s", ui.Styles().OK(fmt.Sprintf("Playlist '%s' created successfully with %d tracks!", pub.Name, pub.Added)))
	return nil
}

// extract runs the extractor and reports skipped files.
func (r *Runner) extract(path string) (*extract.Result, error) {
	res, err := extract.Extract(path)
	if err != nil {
		return nil, err
	}
	for _, s := range res.Skipped {
		r.logger.Warn("skipped file", "path", s.Path, "error", s.Err)
	}
	return res, nil
}

// maxLength reads --max-length, or prompts for it. Invalid answers fall back
// to the number of input tracks.
func (r *Runner) maxLength(cmd *cli.Command, count int, prompting bool) (int, error) {
	if cmd.IsSet("max-length") {
		return cmd.Int("max-length"), nil
	}

	answer, err := r.ask(r.prompter, prompting, "Maximum playlist length", fmt.Sprintf("default %d", count))
	if err != nil || answer == "" {
		return count, err
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < count {
		r.writePlain("%s\n", ui.Styles().Warn(fmt.Sprintf("Maximum length must be a number of at least %d. Using %d.", count, count)))
		return count, nil
	}
	return n, nil
}

// criteria collects the recommendation criteria from flags, prompting for
// them when no criterion flag was given. Invalid values are reported and dropped.
func (r *Runner) criteria(cmd *cli.Command, prompting bool) (models.Criteria, error) {
	b := models.NewCriteriaBuilder()

	flagged := false
	for _, c := range criterionFlags {
		if cmd.IsSet(c.flag) {
			b.Set(c.key, cmd.String(c.flag))
			flagged = true
		}
	}

	if !flagged && prompting {
		answer, err := r.ask(r.prompter, true, "Specify additional criteria for the recommendations? (y/N)", "no")
		if err != nil {
			return models.Criteria{}, err
		}
		if yes(answer) {
			for _, f := range models.CriteriaFields {
				raw, err := r.ask(r.prompter, true, f.Label, "optional")
				if err != nil {
					return models.Criteria{}, err
				}
				b.Set(f.Key, raw)
			}
		}
	}

	c, problems := b.Build()
	for _, p := range problems {
		r.writePlain("%s\n", ui.Styles().Warn(p.Error()+" (ignored)"))
	}
	return c, nil
}

// playlistDetails returns the name and description from flags or prompts.
func (r *Runner) playlistDetails(cmd *cli.Command, suggested string, prompting bool) (string, string, error) {
	name := strings.TrimSpace(cmd.String("name"))
	if name == "" {
		r.writePlainln("Suggested playlist name: '%s'", suggested)
		answer, err := r.ask(r.prompter, prompting, "Playlist name (enter accepts the suggestion)", suggested)
		if err != nil {
			return "", "", err
		}
		name = answer
	}
	if name == "" {
		name = suggested
	}

	description := cmd.String("description")
	if !cmd.IsSet("description") {
		answer, err := r.ask(r.prompter, prompting, "Playlist description", "optional")
		if err != nil {
			return "", "", err
		}
		description = answer
	}
	return name, description, nil
}

// openDatabase opens the run history database. History is best effort, so
// failures are logged and nil is returned.
func (r *Runner) openDatabase() *sql.DB {
	db, err := shared.OpenDatabase(r.config)
	if err != nil {
		r.logger.Warn("run history unavailable", "error", err)
		return nil
	}
	return db
}

func (r *Runner) recordRun(db *sql.DB, run *models.Run) {
	if db == nil {
		return
	}
	if err := repositories.NewRunRepository(db).Create(run); err != nil {
		r.logger.Warn("failed to record run", "error", err)
		return
	}
	r.logger.Debug("run recorded", "id", run.ID, "seq", run.Sequence)
}

func yes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
