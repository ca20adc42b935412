package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/desertthunder/seedify/internal/models"
	"github.com/desertthunder/seedify/internal/shared"
)

const DefaultRedirectURI = "http://127.0.0.1:8888/callback"

// Scopes requested during authorization.
var Scopes = []string{spotifyauth.ScopePlaylistModifyPublic, spotifyauth.ScopePlaylistModifyPrivate}

// SpotifyService implements [Catalog] against the Spotify Web API.
//
// The OAuth config is built from the stored client credentials; the API
// client exists only after [SpotifyService.Authenticate].
type SpotifyService struct {
	config         *oauth2.Config
	client         *spotify.Client
	market         string
	baseURL        string
	httpClient     *http.Client
	onTokenRefresh func(*oauth2.Token)
}

// Option configures a [SpotifyService].
type Option func(*SpotifyService)

// WithMarket restricts search results to an ISO 3166-1 alpha-2 market.
func WithMarket(market string) Option {
	return func(s *SpotifyService) { s.market = market }
}

// WithBaseURL points the API client at another host. The URL must end in "/".
func WithBaseURL(url string) Option {
	return func(s *SpotifyService) { s.baseURL = url }
}

// WithEndpoint overrides the OAuth authorization and token URLs.
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(s *SpotifyService) { s.config.Endpoint = endpoint }
}

// WithHTTPClient sets the client used for token exchange and refresh.
func WithHTTPClient(c *http.Client) Option {
	return func(s *SpotifyService) { s.httpClient = c }
}

// NewSpotifyService creates a service from client credentials.
func NewSpotifyService(clientID, clientSecret, redirectURI string, opts ...Option) (*SpotifyService, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: client ID and secret are required", shared.ErrMissingCredentials)
	}
	if redirectURI == "" {
		redirectURI = DefaultRedirectURI
	}

	s := &SpotifyService{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyauth.AuthURL,
				TokenURL: spotifyauth.TokenURL,
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config returns the OAuth2 configuration.
func (s *SpotifyService) Config() *oauth2.Config {
	return s.config
}

// AuthURL returns the authorization URL carrying state.
func (s *SpotifyService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for a token.
func (s *SpotifyService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := s.config.Exchange(s.oauthContext(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	return tok, nil
}

// SetTokenRefreshCallback registers fn to receive every new access token.
// It must be called before [SpotifyService.Authenticate].
func (s *SpotifyService) SetTokenRefreshCallback(fn func(*oauth2.Token)) {
	s.onTokenRefresh = fn
}

// Authenticate builds the API client around tok. Expired tokens are
// refreshed transparently with the stored refresh token.
func (s *SpotifyService) Authenticate(ctx context.Context, tok *oauth2.Token) error {
	if tok == nil || (tok.AccessToken == "" && tok.RefreshToken == "") {
		return shared.ErrNotAuthenticated
	}

	ctx = s.oauthContext(ctx)
	src := &refreshableTokenSource{source: s.config.TokenSource(ctx, tok), callback: s.onTokenRefresh}
	src.last = tok.AccessToken
	httpClient := oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, src))

	opts := []spotify.ClientOption{spotify.WithRetry(false)}
	if s.baseURL != "" {
		opts = append(opts, spotify.WithBaseURL(s.baseURL))
	}
	s.client = spotify.New(httpClient, opts...)
	return nil
}

// Authenticated reports whether an API client is available.
func (s *SpotifyService) Authenticated() bool {
	return s.client != nil
}

func (s *SpotifyService) oauthContext(ctx context.Context) context.Context {
	if s.httpClient != nil {
		return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	}
	return ctx
}

func (s *SpotifyService) api() (*spotify.Client, error) {
	if s.client == nil {
		return nil, shared.ErrNotAuthenticated
	}
	return s.client, nil
}

func (s *SpotifyService) requestOptions(limit int) []spotify.RequestOption {
	opts := []spotify.RequestOption{spotify.Limit(limit)}
	if s.market != "" {
		opts = append(opts, spotify.Market(s.market))
	}
	return opts
}

// SearchTrack implements [Catalog].
func (s *SpotifyService) SearchTrack(ctx context.Context, d models.Descriptor) (string, error) {
	client, err := s.api()
	if err != nil {
		return "", err
	}

	query := SearchQuery(d)
	res, err := client.Search(ctx, query, spotify.SearchTypeTrack, s.requestOptions(DefaultSearchResultLimit)...)
	if err != nil {
		return "", fmt.Errorf("%w: search %q: %v", shared.ErrAPIRequest, query, err)
	}
	if res.Tracks == nil || len(res.Tracks.Tracks) == 0 {
		return "", nil
	}
	return string(res.Tracks.Tracks[0].ID), nil
}

// Recommendations implements [Catalog].
func (s *SpotifyService) Recommendations(ctx context.Context, seeds []string, criteria models.Criteria, limit int) ([]models.Candidate, error) {
	client, err := s.api()
	if err != nil {
		return nil, err
	}
	if len(seeds) == 0 || len(seeds) > MaxSeedsPerCall {
		return nil, fmt.Errorf("%w: %d seeds, want 1 to %d", shared.ErrInvalidArgument, len(seeds), MaxSeedsPerCall)
	}
	limit = min(max(limit, 1), MaxRecommendationsLimit)

	recs, err := client.GetRecommendations(ctx, spotify.Seeds{Tracks: toIDs(seeds)}, TrackAttributes(criteria), s.requestOptions(limit)...)
	if err != nil {
		return nil, fmt.Errorf("%w: recommendations for %v: %v", shared.ErrAPIRequest, seeds, err)
	}

	out := make([]models.Candidate, 0, len(recs.Tracks))
	for _, t := range recs.Tracks {
		c := models.Candidate{ID: string(t.ID), Name: t.Name}
		for _, a := range t.Artists {
			c.ArtistIDs = append(c.ArtistIDs, string(a.ID))
			c.ArtistNames = append(c.ArtistNames, a.Name)
		}
		out = append(out, c)
	}
	return out, nil
}

// TrackAttributes maps the present recommendation criteria onto the client's
// tunable attributes.
func TrackAttributes(c models.Criteria) *spotify.TrackAttributes {
	attrs := spotify.NewTrackAttributes()
	if c.TargetValence != nil {
		attrs = attrs.TargetValence(*c.TargetValence)
	}
	if c.TargetPopularity != nil {
		attrs = attrs.TargetPopularity(*c.TargetPopularity)
	}
	if c.MinTempo != nil {
		attrs = attrs.MinTempo(*c.MinTempo)
	}
	if c.MaxTempo != nil {
		attrs = attrs.MaxTempo(*c.MaxTempo)
	}
	if c.TargetEnergy != nil {
		attrs = attrs.TargetEnergy(*c.TargetEnergy)
	}
	if c.TargetDanceability != nil {
		attrs = attrs.TargetDanceability(*c.TargetDanceability)
	}
	return attrs
}

// Tracks implements [Catalog].
func (s *SpotifyService) Tracks(ctx context.Context, ids []string) ([]models.TrackMetadata, error) {
	client, err := s.api()
	if err != nil {
		return nil, err
	}
	if len(ids) > MaxTracksPerCall {
		return nil, fmt.Errorf("%w: %d track IDs exceeds %d", shared.ErrInvalidArgument, len(ids), MaxTracksPerCall)
	}

	var opts []spotify.RequestOption
	if s.market != "" {
		opts = append(opts, spotify.Market(s.market))
	}
	tracks, err := client.GetTracks(ctx, toIDs(ids), opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: tracks: %v", shared.ErrAPIRequest, err)
	}

	out := make([]models.TrackMetadata, 0, len(tracks))
	for _, t := range tracks {
		if t == nil {
			continue
		}
		out = append(out, models.TrackMetadata{ID: string(t.ID), ReleaseDate: t.Album.ReleaseDate})
	}
	return out, nil
}

// Artists implements [Catalog].
func (s *SpotifyService) Artists(ctx context.Context, ids []string) ([]models.Artist, error) {
	client, err := s.api()
	if err != nil {
		return nil, err
	}
	if len(ids) > MaxArtistsPerCall {
		return nil, fmt.Errorf("%w: %d artist IDs exceeds %d", shared.ErrInvalidArgument, len(ids), MaxArtistsPerCall)
	}

	artists, err := client.GetArtists(ctx, toIDs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("%w: artists: %v", shared.ErrAPIRequest, err)
	}

	out := make([]models.Artist, 0, len(artists))
	for _, a := range artists {
		if a == nil {
			continue
		}
		out = append(out, models.Artist{ID: string(a.ID), Name: a.Name, Genres: a.Genres})
	}
	return out, nil
}

// CurrentUserID implements [Catalog].
func (s *SpotifyService) CurrentUserID(ctx context.Context) (string, error) {
	client, err := s.api()
	if err != nil {
		return "", err
	}

	user, err := client.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: current user: %v", shared.ErrAPIRequest, err)
	}
	return user.ID, nil
}

// CreatePlaylist implements [Catalog].
func (s *SpotifyService) CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (string, error) {
	client, err := s.api()
	if err != nil {
		return "", err
	}

	pl, err := client.CreatePlaylistForUser(ctx, userID, name, description, public, false)
	if err != nil {
		return "", fmt.Errorf("%w: create playlist %q: %v", shared.ErrAPIRequest, name, err)
	}
	return string(pl.ID), nil
}

// AddTracks implements [Catalog].
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, ids []string) error {
	client, err := s.api()
	if err != nil {
		return err
	}
	if len(ids) > MaxPlaylistItemsPerCall {
		return fmt.Errorf("%w: %d items exceeds %d", shared.ErrInvalidArgument, len(ids), MaxPlaylistItemsPerCall)
	}

	if _, err := client.AddTracksToPlaylist(ctx, spotify.ID(playlistID), toIDs(ids)...); err != nil {
		return fmt.Errorf("%w: add %d tracks to %s: %v", shared.ErrAPIRequest, len(ids), playlistID, err)
	}
	return nil
}

func toIDs(ids []string) []spotify.ID {
	out := make([]spotify.ID, len(ids))
	for i, id := range ids {
		out[i] = spotify.ID(id)
	}
	return out
}
