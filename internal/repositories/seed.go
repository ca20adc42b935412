package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/seedify/internal/models"
	"github.com/desertthunder/seedify/internal/shared"
)

// SeedRepository caches descriptor resolutions so repeated builds over the
// same input skip the search call. It satisfies tasks.SeedCache.
type SeedRepository struct {
	db *sql.DB
}

func NewSeedRepository(db *sql.DB) *SeedRepository {
	return &SeedRepository{db: db}
}

func seedKey(d models.Descriptor) string {
	return shared.NormalizeTrackKey(d.Title, d.Artist)
}

// Get returns the cached track ID for d, or [ErrNotFound].
func (r *SeedRepository) Get(d models.Descriptor) (string, error) {
	var id string
	err := r.db.QueryRow(`SELECT track_id FROM seeds WHERE track_key = ?`, seedKey(d)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: seed %s", ErrNotFound, d)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query seed: %w", err)
	}
	return id, nil
}

// Lookup reports the cached track ID for d. Query failures count as misses.
func (r *SeedRepository) Lookup(d models.Descriptor) (string, bool) {
	id, err := r.Get(d)
	return id, err == nil
}

// Store records the resolution of d, replacing any earlier one.
func (r *SeedRepository) Store(d models.Descriptor, trackID string) error {
	if trackID == "" {
		return fmt.Errorf("%w: empty track ID for %s", shared.ErrInvalidArgument, d)
	}

	query := `
		INSERT INTO seeds (track_key, artist, title, track_id, resolved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(track_key) DO UPDATE SET track_id = excluded.track_id, resolved_at = excluded.resolved_at
	`
	if _, err := r.db.Exec(query, seedKey(d), d.Artist, d.Title, trackID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to store seed: %w", err)
	}
	return nil
}

// Count returns the number of cached seeds.
func (r *SeedRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM seeds`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count seeds: %w", err)
	}
	return n, nil
}
