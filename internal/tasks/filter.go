package tasks

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/seedify/internal/models"
	"github.com/desertthunder/seedify/internal/services"
	"github.com/desertthunder/seedify/internal/shared"
)

// YearFilter keeps candidates released within [Min, Max]. A nil bound is
// unbounded on that side.
type YearFilter struct {
	catalog services.Catalog
	pacer   Pacer
	logger  *log.Logger

	Min *int
	Max *int
}

// Active reports whether either bound is set.
func (f *YearFilter) Active() bool {
	return f != nil && (f.Min != nil || f.Max != nil)
}

// Filter returns the candidates within the window, in input order, with
// ReleaseYear populated. Without bounds it returns cands untouched and
// makes no calls.
//
// A failed metadata batch drops that batch's candidates. Candidates with no
// metadata or an unparseable release date are dropped as well.
func (f *YearFilter) Filter(ctx context.Context, cands []models.Candidate, progress chan<- ProgressUpdate) ([]models.Candidate, []ChunkFailure, error) {
	if !f.Active() || len(cands) == 0 {
		return cands, nil, nil
	}

	ids := make([]string, len(cands))
	for i, c := range cands {
		ids[i] = c.ID
	}

	years := make(map[string]int, len(cands))
	var failures []ChunkFailure
	chunks := shared.Chunk(ids, services.MaxTracksPerCall)
	for i, chunk := range chunks {
		sendProgress(progress, filteringUpdate(i+1, len(chunks)))
		if err := f.pacer.Wait(ctx); err != nil {
			return nil, failures, err
		}

		meta, err := f.catalog.Tracks(ctx, chunk)
		if err != nil {
			f.logger.Warn("release year batch failed", "ids", chunk, "error", err)
			failures = append(failures, ChunkFailure{Phase: FilterYears, IDs: chunk, Err: err})
			continue
		}
		for _, m := range meta {
			if year, ok := ParseReleaseYear(m.ReleaseDate); ok {
				years[m.ID] = year
			}
		}
	}

	out := make([]models.Candidate, 0, len(cands))
	for _, c := range cands {
		year, ok := years[c.ID]
		if !ok || !f.contains(year) {
			continue
		}
		c.ReleaseYear = &year
		out = append(out, c)
	}
	return out, failures, nil
}

func (f *YearFilter) contains(year int) bool {
	if f.Min != nil && year < *f.Min {
		return false
	}
	if f.Max != nil && year > *f.Max {
		return false
	}
	return true
}

// ParseReleaseYear reads the leading four-digit year of a release date such
// as "2018", "2018-04" or "2018-04-02".
func ParseReleaseYear(date string) (int, bool) {
	head, _, _ := strings.Cut(strings.TrimSpace(date), "-")
	if len(head) != 4 {
		return 0, false
	}
	for i := 0; i < len(head); i++ {
		if head[i] < '0' || head[i] > '9' {
			return 0, false
		}
	}
	year, _ := strconv.Atoi(head)
	return year, true
}
