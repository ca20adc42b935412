package tasks

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/seedify/internal/models"
	"github.com/desertthunder/seedify/internal/services"
	"github.com/desertthunder/seedify/internal/shared"
)

// ChunkFailure records a batched call that failed and was skipped.
type ChunkFailure struct {
	Phase Phase
	IDs   []string
	Err   error
}

// RecommendationEngine fetches recommendations in seed chunks of at most
// [services.MaxSeedsPerCall].
type RecommendationEngine struct {
	catalog  services.Catalog
	pacer    Pacer
	logger   *log.Logger
	criteria models.Criteria
}

// Recommend issues one call per seed chunk and concatenates the results in
// chunk order. Failed chunks are logged and skipped. The error is non-nil
// only when ctx is done.
func (e *RecommendationEngine) Recommend(ctx context.Context, phase Phase, seeds []string, limit int) ([]models.Candidate, []ChunkFailure, error) {
	var (
		out      []models.Candidate
		failures []ChunkFailure
	)

	for _, chunk := range shared.Chunk(seeds, services.MaxSeedsPerCall) {
		if err := e.pacer.Wait(ctx); err != nil {
			return out, failures, err
		}

		recs, err := e.catalog.Recommendations(ctx, chunk, e.criteria, limit)
		if err != nil {
			e.logger.Warn("recommendation chunk failed", "seeds", chunk, "error", err)
			failures = append(failures, ChunkFailure{Phase: phase, IDs: chunk, Err: err})
			continue
		}
		out = append(out, recs...)
	}
	return out, failures, nil
}
