package tasks

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/seedify/internal/models"
	"github.com/desertthunder/seedify/internal/services"
)

// SeedCache remembers earlier descriptor resolutions.
type SeedCache interface {
	Lookup(d models.Descriptor) (string, bool)
	Store(d models.Descriptor, trackID string) error
}

// SeedResolver maps descriptors to catalog track IDs with one search each.
type SeedResolver struct {
	catalog services.Catalog
	cache   SeedCache
	logger  *log.Logger
}

// Resolve searches for d. Search failures are logged and reported in the
// returned resolution; they never abort the caller's batch.
func (r *SeedResolver) Resolve(ctx context.Context, d models.Descriptor) models.SeedResolution {
	res := models.SeedResolution{Descriptor: d}

	if r.cache != nil {
		if id, ok := r.cache.Lookup(d); ok {
			r.logger.Debug("seed resolved from cache", "artist", d.Artist, "title", d.Title, "id", id)
			res.TrackID = id
			return res
		}
	}

	id, err := r.catalog.SearchTrack(ctx, d)
	if err != nil {
		r.logger.Warn("seed search failed", "artist", d.Artist, "title", d.Title, "error", err)
		res.Err = err
		return res
	}
	if id == "" {
		r.logger.Info("seed track not found", "artist", d.Artist, "title", d.Title)
		return res
	}

	res.TrackID = id
	if r.cache != nil {
		if err := r.cache.Store(d, id); err != nil {
			r.logger.Warn("failed to cache seed", "artist", d.Artist, "title", d.Title, "error", err)
		}
	}
	return res
}

// ResolveAll resolves every descriptor in order.
func (r *SeedResolver) ResolveAll(ctx context.Context, ds []models.Descriptor, progress chan<- ProgressUpdate) []models.SeedResolution {
	out := make([]models.SeedResolution, 0, len(ds))
	for i, d := range ds {
		sendProgress(progress, resolvingUpdate(i+1, len(ds), d.Artist, d.Title))
		out = append(out, r.Resolve(ctx, d))
	}
	return out
}

// Seeds returns the track IDs of the resolved entries, in descriptor order.
func Seeds(resolutions []models.SeedResolution) []string {
	var seeds []string
	for _, r := range resolutions {
		if r.Resolved() {
			seeds = append(seeds, r.TrackID)
		}
	}
	return seeds
}
