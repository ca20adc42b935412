package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	UnknownArtist = "unknown artist"
	UnknownTitle  = "unknown title"
)

// Descriptor is an (artist, title) pair extracted from a local source.
type Descriptor struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

// NewDescriptor trims both fields and substitutes the unknown sentinels for empty values.
func NewDescriptor(artist, title string) Descriptor {
	artist, title = strings.TrimSpace(artist), strings.TrimSpace(title)
	if artist == "" {
		artist = UnknownArtist
	}
	if title == "" {
		title = UnknownTitle
	}
	return Descriptor{Artist: artist, Title: title}
}

// Unknown reports whether both fields hold the unknown sentinels.
func (d Descriptor) Unknown() bool {
	return strings.EqualFold(d.Artist, UnknownArtist) && strings.EqualFold(d.Title, UnknownTitle)
}

func (d Descriptor) String() string {
	return d.Artist + " - " + d.Title
}

// SeedResolution is the outcome of searching the catalog for one descriptor.
// TrackID is empty when nothing matched or the search failed; Err carries the
// failure in the latter case.
type SeedResolution struct {
	Descriptor Descriptor
	TrackID    string
	Err        error
}

// Resolved reports whether the descriptor matched a catalog track.
func (r SeedResolution) Resolved() bool {
	return r.TrackID != ""
}

// Candidate is a recommended track. ReleaseYear is filled in only by the
// release-year filter.
type Candidate struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	ArtistIDs   []string `json:"artist_ids"`
	ArtistNames []string `json:"artists"`
	ReleaseYear *int     `json:"release_year,omitempty"`
}

// TrackMetadata is the subset of full track metadata used for year filtering.
type TrackMetadata struct {
	ID          string
	ReleaseDate string
}

// Artist carries the genre tags of one catalog artist.
type Artist struct {
	ID     string
	Name   string
	Genres []string
}

// Run records one build.
type Run struct {
	ID              string      `json:"id"`
	Sequence        int         `json:"seq"`
	SourcePath      string      `json:"source_path"`
	DescriptorCount int         `json:"descriptor_count"`
	SeedCount       int         `json:"seed_count"`
	TrackCount      int         `json:"track_count"`
	PlaylistID      string      `json:"playlist_id,omitempty"`
	PlaylistName    string      `json:"playlist_name,omitempty"`
	DryRun          bool        `json:"dry_run"`
	Tracks          []Candidate `json:"tracks,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

// Validate checks the fields required for persistence.
func (r *Run) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("run ID is required")
	}
	if r.SourcePath == "" {
		return fmt.Errorf("run source path is required")
	}
	if !r.DryRun && r.PlaylistID == "" {
		return fmt.Errorf("run %s has no playlist and is not a dry run", r.ID)
	}
	return nil
}

// EffectiveMaxLength returns requested, raised to count when smaller.
// A non-positive request means "no preference".
func EffectiveMaxLength(requested, count int) int {
	return max(requested, count)
}
