// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/seedify/internal/models"
)

var ErrFake = errors.New("fake catalog failure")

// Call records one invocation of a [FakeCatalog] method.
type Call struct {
	Method string
	IDs    []string
	Limit  int
}

// FakeCatalog is a scripted test double for services.Catalog.
//
// Single-seed recommendation calls return Recs[seed]. Multi-seed calls
// return Batch[joined seeds] when present, otherwise the concatenation of
// Recs for each seed. Results are truncated to the requested limit.
type FakeCatalog struct {
	mu sync.Mutex

	Matches      map[models.Descriptor]string
	Recs         map[string][]models.Candidate
	Batch        map[string][]models.Candidate
	ReleaseDates map[string]string
	Genres       map[string][]string
	UserID       string
	PlaylistID   string

	// Failure injection, keyed by descriptor, joined seeds or member ID.
	FailSearch    map[models.Descriptor]bool
	FailRecs      map[string]bool
	FailTracks    map[string]bool
	FailArtists   map[string]bool
	FailAdd       map[string]bool
	FailUser      bool
	FailCreate    bool
	CreatedPublic bool
	CreatedName   string
	CreatedDesc   string
	LastCriteria  models.Criteria

	Calls []Call
	Added [][]string
}

// NewFakeCatalog returns an empty catalog with user "user-1" and playlist "playlist-1".
func NewFakeCatalog() *FakeCatalog {
	return &FakeCatalog{
		Matches:      map[models.Descriptor]string{},
		Recs:         map[string][]models.Candidate{},
		Batch:        map[string][]models.Candidate{},
		ReleaseDates: map[string]string{},
		Genres:       map[string][]string{},
		UserID:       "user-1",
		PlaylistID:   "playlist-1",
		FailSearch:   map[models.Descriptor]bool{},
		FailRecs:     map[string]bool{},
		FailTracks:   map[string]bool{},
		FailArtists:  map[string]bool{},
		FailAdd:      map[string]bool{},
	}
}

// Candidates builds candidates whose single artist is "artist-<id>".
func Candidates(ids ...string) []models.Candidate {
	out := make([]models.Candidate, len(ids))
	for i, id := range ids {
		out[i] = models.Candidate{
			ID:          id,
			Name:        "Track " + id,
			ArtistIDs:   []string{"artist-" + id},
			ArtistNames: []string{"Artist " + id},
		}
	}
	return out
}

// Match registers the search result for (artist, title).
func (f *FakeCatalog) Match(artist, title, id string) *FakeCatalog {
	f.Matches[models.Descriptor{Artist: artist, Title: title}] = id
	return f
}

// Recommend registers single-seed recommendations.
func (f *FakeCatalog) Recommend(seed string, ids ...string) *FakeCatalog {
	f.Recs[seed] = Candidates(ids...)
	return f
}

func (f *FakeCatalog) record(method string, ids []string, limit int) {
	f.Calls = append(f.Calls, Call{Method: method, IDs: slices.Clone(ids), Limit: limit})
}

// CallsTo returns the recorded calls to method.
func (f *FakeCatalog) CallsTo(method string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (f *FakeCatalog) SearchTrack(ctx context.Context, d models.Descriptor) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SearchTrack", []string{d.String()}, 1)
	if f.FailSearch[d] {
		return "", fmt.Errorf("%w: search %s", ErrFake, d)
	}
	return f.Matches[d], nil
}

func (f *FakeCatalog) Recommendations(ctx context.Context, seeds []string, criteria models.Criteria, limit int) ([]models.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Recommendations", seeds, limit)
	f.LastCriteria = criteria

	key := strings.Join(seeds, ",")
	if f.FailRecs[key] {
		return nil, fmt.Errorf("%w: recommendations %s", ErrFake, key)
	}

	var out []models.Candidate
	if batch, ok := f.Batch[key]; ok && len(seeds) > 1 {
		out = slices.Clone(batch)
	} else {
		for _, s := range seeds {
			out = append(out, f.Recs[s]...)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *FakeCatalog) Tracks(ctx context.Context, ids []string) ([]models.TrackMetadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Tracks", ids, len(ids))

	for _, id := range ids {
		if f.FailTracks[id] {
			return nil, fmt.Errorf("%w: tracks batch containing %s", ErrFake, id)
		}
	}
	var out []models.TrackMetadata
	for _, id := range ids {
		if date, ok := f.ReleaseDates[id]; ok {
			out = append(out, models.TrackMetadata{ID: id, ReleaseDate: date})
		}
	}
	return out, nil
}

func (f *FakeCatalog) Artists(ctx context.Context, ids []string) ([]models.Artist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Artists", ids, len(ids))

	for _, id := range ids {
		if f.FailArtists[id] {
			return nil, fmt.Errorf("%w: artists batch containing %s", ErrFake, id)
		}
	}
	out := make([]models.Artist, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Artist{ID: id, Genres: f.Genres[id]})
	}
	return out, nil
}

func (f *FakeCatalog) CurrentUserID(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CurrentUserID", nil, 0)
	if f.FailUser {
		return "", fmt.Errorf("%w: current user", ErrFake)
	}
	return f.UserID, nil
}

func (f *FakeCatalog) CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreatePlaylist", []string{userID, name}, 0)
	if f.FailCreate {
		return "", fmt.Errorf("%w: create playlist", ErrFake)
	}
	f.CreatedName, f.CreatedDesc, f.CreatedPublic = name, description, public
	return f.PlaylistID, nil
}

func (f *FakeCatalog) AddTracks(ctx context.Context, playlistID string, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("AddTracks", ids, len(ids))
	for _, id := range ids {
		if f.FailAdd[id] {
			return fmt.Errorf("%w: add batch containing %s", ErrFake, id)
		}
	}
	f.Added = append(f.Added, slices.Clone(ids))
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
	return path
}
