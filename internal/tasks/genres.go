package tasks

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/desertthunder/seedify/internal/services"
	"github.com/desertthunder/seedify/internal/shared"
)

const (
	TopGenreCount      = 3
	FallbackGenreLabel = "Various Genres"
	DefaultNameLimit   = 100
	playlistTimeLayout = "2006-01-02 15:04"
)

// GenreAggregator collects artist genres to suggest a playlist name.
type GenreAggregator struct {
	catalog services.Catalog
	pacer   Pacer
	logger  *log.Logger
}

// TopGenres fetches genres for artistIDs in batches and returns the most
// frequent ones. Failed batches are logged and skipped.
func (g *GenreAggregator) TopGenres(ctx context.Context, artistIDs []string, progress chan<- ProgressUpdate) ([]string, []ChunkFailure, error) {
	sendProgress(progress, aggregatingUpdate(len(artistIDs)))

	var (
		genres   []string
		failures []ChunkFailure
	)
	for _, chunk := range shared.Chunk(artistIDs, services.MaxArtistsPerCall) {
		if err := g.pacer.Wait(ctx); err != nil {
			return nil, failures, err
		}

		artists, err := g.catalog.Artists(ctx, chunk)
		if err != nil {
			g.logger.Warn("genre batch failed", "ids", chunk, "error", err)
			failures = append(failures, ChunkFailure{Phase: AggregateGenres, IDs: chunk, Err: err})
			continue
		}
		for _, a := range artists {
			genres = append(genres, a.Genres...)
		}
	}
	return TopN(genres, TopGenreCount), failures, nil
}

// TopN ranks genres by descending frequency. Ties keep first-encountered order.
func TopN(genres []string, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, g := range genres {
		if counts[g] == 0 {
			order = append(order, g)
		}
		counts[g]++
	}

	slices.SortStableFunc(order, func(a, b string) int { return counts[b] - counts[a] })
	if len(order) > n {
		order = order[:n]
	}
	return order
}

// PlaylistName builds "<Genres> Playlist YYYY-MM-DD HH:MM" from title-cased
// genres, truncated to limit characters.
func PlaylistName(genres []string, now time.Time, limit int) string {
	label := FallbackGenreLabel
	if len(genres) > 0 {
		caser := cases.Title(language.Und)
		titled := make([]string, len(genres))
		for i, g := range genres {
			titled[i] = caser.String(g)
		}
		label = strings.Join(titled, ", ")
	}

	name := fmt.Sprintf("%s Playlist %s", label, now.Format(playlistTimeLayout))
	if limit > 0 {
		if r := []rune(name); len(r) > limit {
			name = string(r[:limit])
		}
	}
	return name
}
