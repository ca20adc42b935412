package tasks

import (
	"context"

	"github.com/desertthunder/seedify/internal/models"
)

// FetchFunc returns recommendations for seeds, already narrowed by any
// post-hoc filters, along with the batches that failed.
type FetchFunc func(ctx context.Context, phase Phase, seeds []string, limit int) ([]models.Candidate, []ChunkFailure, error)

// Coverage records which candidate a seed contributed in the coverage phase.
// Accepted is empty when the seed produced no unseen candidate.
type Coverage struct {
	Seed     string
	Accepted string
}

// Accumulator deduplicates candidates by ID, keeps first-seen order and
// never holds more than its maximum length.
type Accumulator struct {
	seen      map[string]struct{}
	ordered   []models.Candidate
	maxLength int

	artistSeen map[string]struct{}
	artists    []string
}

func NewAccumulator(maxLength int) *Accumulator {
	return &Accumulator{
		seen:       make(map[string]struct{}),
		maxLength:  maxLength,
		artistSeen: make(map[string]struct{}),
	}
}

// Accept appends c unless it was already accepted or the accumulator is full.
func (a *Accumulator) Accept(c models.Candidate) bool {
	if a.Full() || c.ID == "" {
		return false
	}
	if _, ok := a.seen[c.ID]; ok {
		return false
	}

	a.seen[c.ID] = struct{}{}
	a.ordered = append(a.ordered, c)
	for _, id := range c.ArtistIDs {
		if _, ok := a.artistSeen[id]; !ok {
			a.artistSeen[id] = struct{}{}
			a.artists = append(a.artists, id)
		}
	}
	return true
}

// Cover requests one single-seed batch per seed, in order, and accepts the
// first candidate not seen yet. It stops once the accumulator is full.
func (a *Accumulator) Cover(ctx context.Context, fetch FetchFunc, seeds []string, limit int, progress chan<- ProgressUpdate) ([]Coverage, []ChunkFailure, error) {
	var (
		coverage []Coverage
		failures []ChunkFailure
	)

	for i, seed := range seeds {
		if a.Full() {
			break
		}
		sendProgress(progress, coveringUpdate(i+1, len(seeds), seed))

		cands, failed, err := fetch(ctx, CoverSeeds, []string{seed}, limit)
		failures = append(failures, failed...)
		if err != nil {
			return coverage, failures, err
		}

		cov := Coverage{Seed: seed}
		for _, c := range cands {
			if a.Accept(c) {
				cov.Accepted = c.ID
				break
			}
		}
		coverage = append(coverage, cov)
	}
	return coverage, failures, nil
}

// Fill issues one batched request over all seeds and accepts unseen
// candidates in returned order until full. Earlier acceptances are kept as is.
func (a *Accumulator) Fill(ctx context.Context, fetch FetchFunc, seeds []string, limit int, progress chan<- ProgressUpdate) (int, []ChunkFailure, error) {
	if a.Full() || len(seeds) == 0 {
		return 0, nil, nil
	}
	sendProgress(progress, fillingUpdate(a.Len(), a.maxLength))

	cands, failures, err := fetch(ctx, FillCandidates, seeds, limit)
	if err != nil {
		return 0, failures, err
	}

	added := 0
	for _, c := range cands {
		if a.Full() {
			break
		}
		if a.Accept(c) {
			added++
		}
	}
	return added, failures, nil
}

// Full reports whether the maximum length has been reached.
func (a *Accumulator) Full() bool {
	return len(a.ordered) >= a.maxLength
}

func (a *Accumulator) Len() int { return len(a.ordered) }

func (a *Accumulator) MaxLength() int { return a.maxLength }

// Candidates returns a copy of the accepted candidates in acceptance order.
func (a *Accumulator) Candidates() []models.Candidate {
	return append([]models.Candidate(nil), a.ordered...)
}

// IDs returns the accepted track IDs in acceptance order.
func (a *Accumulator) IDs() []string {
	ids := make([]string, len(a.ordered))
	for i, c := range a.ordered {
		ids[i] = c.ID
	}
	return ids
}

// ArtistIDs returns the distinct artists of accepted candidates in first-seen order.
func (a *Accumulator) ArtistIDs() []string {
	return append([]string(nil), a.artists...)
}
