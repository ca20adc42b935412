package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/seedify/internal/models"
	"github.com/desertthunder/seedify/internal/shared"
)

// RunRepository persists build history.
type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts run and its tracks with a generated ID and sequence.
func (r *RunRepository) Create(run *models.Run) error {
	sequence, err := NextSequence(r.db, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	if run.ID == "" {
		run.ID = shared.GenerateID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	run.Sequence = sequence
	run.TrackCount = len(run.Tracks)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO runs (id, seq, source_path, descriptor_count, seed_count, track_count, playlist_id, playlist_name, dry_run, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.Exec(query,
		run.ID,
		run.Sequence,
		run.SourcePath,
		run.DescriptorCount,
		run.SeedCount,
		run.TrackCount,
		nullString(run.PlaylistID),
		nullString(run.PlaylistName),
		run.DryRun,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO run_tracks (run_id, position, track_id, name, artists) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare track insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range run.Tracks {
		artists, err := json.Marshal(t.ArtistNames)
		if err != nil {
			return fmt.Errorf("failed to encode artists: %w", err)
		}
		if _, err := stmt.Exec(run.ID, i, t.ID, t.Name, string(artists)); err != nil {
			return fmt.Errorf("failed to insert run track %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

const runColumns = `id, seq, source_path, descriptor_count, seed_count, track_count, playlist_id, playlist_name, dry_run, created_at`

// Get retrieves a run and its tracks by ID.
func (r *RunRepository) Get(id string) (*models.Run, error) {
	row := r.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: run %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if run.Tracks, err = r.tracks(id); err != nil {
		return nil, err
	}
	return run, nil
}

// List returns the most recent runs, newest first, without their tracks.
// A non-positive limit returns every run.
func (r *RunRepository) List(limit int) ([]*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return runs, nil
}

func (r *RunRepository) tracks(runID string) ([]models.Candidate, error) {
	rows, err := r.db.Query(`SELECT track_id, name, artists FROM run_tracks WHERE run_id = ? ORDER BY position ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run tracks: %w", err)
	}
	defer rows.Close()

	var tracks []models.Candidate
	for rows.Next() {
		var (
			c       models.Candidate
			name    sql.NullString
			artists sql.NullString
		)
		if err := rows.Scan(&c.ID, &name, &artists); err != nil {
			return nil, fmt.Errorf("failed to scan run track: %w", err)
		}
		c.Name = name.String
		if artists.Valid && artists.String != "" {
			if err := json.Unmarshal([]byte(artists.String), &c.ArtistNames); err != nil {
				return nil, fmt.Errorf("failed to decode artists of %s: %w", c.ID, err)
			}
		}
		tracks = append(tracks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return tracks, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanRun scans a row selected with runColumns into a [models.Run]
func scanRun(row scanner) (*models.Run, error) {
	var (
		run          models.Run
		playlistID   sql.NullString
		playlistName sql.NullString
	)

	err := row.Scan(&run.ID, &run.Sequence, &run.SourcePath, &run.DescriptorCount, &run.SeedCount, &run.TrackCount, &playlistID, &playlistName, &run.DryRun, &run.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run.PlaylistID = playlistID.String
	run.PlaylistName = playlistName.String
	return &run, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
