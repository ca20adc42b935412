package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/seedify/internal/models"
	"github.com/desertthunder/seedify/internal/services"
	"github.com/desertthunder/seedify/internal/shared"
)

const (
	DefaultCoverageLimit = 20
	DefaultFillLimit     = 100
)

// Pipeline expands descriptors into a bounded, deduplicated track list.
// Optional stages (criteria, release-year window, genre naming) are enabled
// through [PipelineOption] values.
type Pipeline struct {
	catalog  services.Catalog
	logger   *log.Logger
	pacer    Pacer
	cache    SeedCache
	criteria models.Criteria
	progress chan<- ProgressUpdate
	now      func() time.Time

	coverageLimit int
	fillLimit     int
	nameGenres    bool
	nameLimit     int
}

// PipelineOption configures a [Pipeline].
type PipelineOption func(*Pipeline)

func WithLogger(l *log.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = l }
}

// WithPace sets the courtesy delay between batched calls.
func WithPace(d time.Duration) PipelineOption {
	return func(p *Pipeline) { p.pacer = NewPacer(d) }
}

func WithPacer(pacer Pacer) PipelineOption {
	return func(p *Pipeline) { p.pacer = pacer }
}

// WithSeedCache consults c before searching and stores new matches in it.
func WithSeedCache(c SeedCache) PipelineOption {
	return func(p *Pipeline) { p.cache = c }
}

// WithCriteria passes recommendation criteria through and enables the
// release-year filter when a year bound is set.
func WithCriteria(c models.Criteria) PipelineOption {
	return func(p *Pipeline) { p.criteria = c }
}

// WithLimits sets the per-call result limits of the coverage and fill phases.
func WithLimits(coverage, fill int) PipelineOption {
	return func(p *Pipeline) {
		if coverage > 0 {
			p.coverageLimit = coverage
		}
		if fill > 0 {
			p.fillLimit = fill
		}
	}
}

// WithGenreNaming toggles the genre lookup behind the suggested name.
func WithGenreNaming(enabled bool) PipelineOption {
	return func(p *Pipeline) { p.nameGenres = enabled }
}

func WithNameLimit(n int) PipelineOption {
	return func(p *Pipeline) { p.nameLimit = n }
}

func WithProgress(ch chan<- ProgressUpdate) PipelineOption {
	return func(p *Pipeline) { p.progress = ch }
}

func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) { p.now = now }
}

// NewPipeline creates a pipeline over catalog with genre naming enabled,
// the default pace and limits, and a discarding logger.
func NewPipeline(catalog services.Catalog, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		catalog:       catalog,
		logger:        shared.NewDiscardLogger(),
		pacer:         NewPacer(DefaultPace),
		now:           time.Now,
		coverageLimit: DefaultCoverageLimit,
		fillLimit:     DefaultFillLimit,
		nameGenres:    true,
		nameLimit:     DefaultNameLimit,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result is the outcome of one [Pipeline.Run].
type Result struct {
	Resolutions   []models.SeedResolution
	Seeds         []string
	MaxLength     int
	Coverage      []Coverage
	Tracks        []models.Candidate
	TopGenres     []string
	SuggestedName string
	Failures      []ChunkFailure
}

// Unresolved returns the descriptors that produced no seed.
func (r *Result) Unresolved() []models.SeedResolution {
	var out []models.SeedResolution
	for _, res := range r.Resolutions {
		if !res.Resolved() {
			out = append(out, res)
		}
	}
	return out
}

// TrackIDs returns the accepted track IDs in order.
func (r *Result) TrackIDs() []string {
	ids := make([]string, len(r.Tracks))
	for i, c := range r.Tracks {
		ids[i] = c.ID
	}
	return ids
}

func (p *Pipeline) resolver() *SeedResolver {
	return &SeedResolver{catalog: p.catalog, cache: p.cache, logger: p.logger}
}

func (p *Pipeline) engine() *RecommendationEngine {
	return &RecommendationEngine{catalog: p.catalog, pacer: p.pacer, logger: p.logger, criteria: p.criteria}
}

func (p *Pipeline) yearFilter() *YearFilter {
	return &YearFilter{catalog: p.catalog, pacer: p.pacer, logger: p.logger, Min: p.criteria.MinReleaseYear, Max: p.criteria.MaxReleaseYear}
}

func (p *Pipeline) genres() *GenreAggregator {
	return &GenreAggregator{catalog: p.catalog, pacer: p.pacer, logger: p.logger}
}

// fetch chains the recommendation engine and the release-year filter.
func (p *Pipeline) fetch(engine *RecommendationEngine, filter *YearFilter) FetchFunc {
	return func(ctx context.Context, phase Phase, seeds []string, limit int) ([]models.Candidate, []ChunkFailure, error) {
		cands, failures, err := engine.Recommend(ctx, phase, seeds, limit)
		if err != nil {
			return nil, failures, err
		}

		kept, filterFailures, err := filter.Filter(ctx, cands, p.progress)
		return kept, append(failures, filterFailures...), err
	}
}

// Run resolves descriptors, then runs the coverage and fill phases.
//
// It returns [shared.ErrNoTracks] for empty input, [shared.ErrNoSeeds] when
// nothing resolved and [shared.ErrNoRecommendations] when nothing was
// accepted; the partial Result is returned alongside these errors.
func (p *Pipeline) Run(ctx context.Context, descriptors []models.Descriptor, requestedLength int) (*Result, error) {
	res := &Result{}
	if len(descriptors) == 0 {
		return res, shared.ErrNoTracks
	}
	res.MaxLength = models.EffectiveMaxLength(requestedLength, len(descriptors))
	if requestedLength > 0 && requestedLength < len(descriptors) {
		p.logger.Info("maximum length raised to input count", "requested", requestedLength, "effective", res.MaxLength)
	}

	res.Resolutions = p.resolver().ResolveAll(ctx, descriptors, p.progress)
	res.Seeds = Seeds(res.Resolutions)
	if len(res.Seeds) == 0 {
		return res, shared.ErrNoSeeds
	}
	p.logger.Info("seeds resolved", "seeds", len(res.Seeds), "descriptors", len(descriptors))

	acc := NewAccumulator(res.MaxLength)
	fetch := p.fetch(p.engine(), p.yearFilter())

	coverage, failures, err := acc.Cover(ctx, fetch, res.Seeds, p.coverageLimit, p.progress)
	res.Coverage = coverage
	res.Failures = append(res.Failures, failures...)
	if err != nil {
		return res, err
	}
	p.logger.Debug("coverage phase complete", "accepted", acc.Len(), "max", res.MaxLength)

	if !acc.Full() {
		added, failures, err := acc.Fill(ctx, fetch, res.Seeds, p.fillLimit, p.progress)
		res.Failures = append(res.Failures, failures...)
		if err != nil {
			return res, err
		}
		p.logger.Debug("fill phase complete", "added", added, "accepted", acc.Len())
	}

	res.Tracks = acc.Candidates()
	if len(res.Tracks) == 0 {
		return res, shared.ErrNoRecommendations
	}

	if p.nameGenres {
		top, failures, err := p.genres().TopGenres(ctx, acc.ArtistIDs(), p.progress)
		res.Failures = append(res.Failures, failures...)
		if err != nil {
			return res, err
		}
		res.TopGenres = top
	}
	res.SuggestedName = PlaylistName(res.TopGenres, p.now(), p.nameLimit)
	return res, nil
}

// Publication is the outcome of [Pipeline.Publish].
type Publication struct {
	PlaylistID string
	Name       string
	Added      int
	Failures   []ChunkFailure
}

// Publish creates a playlist and adds trackIDs in chunks of
// [services.MaxPlaylistItemsPerCall]. Failing to find the user or create the
// playlist is an error; a failed chunk is logged and skipped.
func (p *Pipeline) Publish(ctx context.Context, name, description string, public bool, trackIDs []string) (*Publication, error) {
	if len(trackIDs) == 0 {
		return nil, shared.ErrNoRecommendations
	}

	userID, err := p.catalog.CurrentUserID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	sendProgress(p.progress, creatingUpdate(name))
	playlistID, err := p.catalog.CreatePlaylist(ctx, userID, name, description, public)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	pub := &Publication{PlaylistID: playlistID, Name: name}
	chunks := shared.Chunk(trackIDs, services.MaxPlaylistItemsPerCall)
	for i, chunk := range chunks {
		sendProgress(p.progress, addingUpdate(i+1, len(chunks), len(chunk)))
		if err := p.pacer.Wait(ctx); err != nil {
			return pub, err
		}

		if err := p.catalog.AddTracks(ctx, playlistID, chunk); err != nil {
			p.logger.Warn("failed to add tracks to playlist", "playlist", playlistID, "ids", chunk, "error", err)
			pub.Failures = append(pub.Failures, ChunkFailure{Phase: AddTracks, IDs: chunk, Err: err})
			continue
		}
		pub.Added += len(chunk)
	}
	return pub, nil
}
