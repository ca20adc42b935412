package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/seedify/internal/models"
)

// Per-call ceilings imposed by the catalog.
const (
	MaxSeedsPerCall          = 5
	MaxTracksPerCall         = 50
	MaxArtistsPerCall        = 50
	MaxPlaylistItemsPerCall  = 100
	MaxRecommendationsLimit  = 100
	DefaultSearchResultLimit = 1
)

// Catalog is the external music service. Every call may fail with a
// recoverable error; callers decide whether a failure excludes one item or
// aborts the run.
type Catalog interface {
	// SearchTrack returns the ID of the top match for d, or "" when nothing matched.
	SearchTrack(ctx context.Context, d models.Descriptor) (string, error)

	// Recommendations returns up to limit tracks seeded by at most
	// [MaxSeedsPerCall] track IDs, in service order.
	Recommendations(ctx context.Context, seeds []string, criteria models.Criteria, limit int) ([]models.Candidate, error)

	// Tracks returns release metadata for at most [MaxTracksPerCall] IDs.
	// IDs the service does not know are omitted.
	Tracks(ctx context.Context, ids []string) ([]models.TrackMetadata, error)

	// Artists returns genre tags for at most [MaxArtistsPerCall] IDs.
	Artists(ctx context.Context, ids []string) ([]models.Artist, error)

	// CurrentUserID returns the authenticated user's ID.
	CurrentUserID(ctx context.Context) (string, error)

	// CreatePlaylist creates an empty playlist and returns its ID.
	CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (string, error)

	// AddTracks appends at most [MaxPlaylistItemsPerCall] tracks to a playlist.
	AddTracks(ctx context.Context, playlistID string, ids []string) error
}

// SearchQuery renders the field-restricted search for d.
func SearchQuery(d models.Descriptor) string {
	return fmt.Sprintf("artist:%s track:%s", d.Artist, d.Title)
}
