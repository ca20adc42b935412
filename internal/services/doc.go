// Package services defines the [Catalog] interface the recommendation
// pipeline consumes and implements it for the Spotify Web API.
//
// # Catalog
//
// [Catalog] covers exactly the calls a build makes: track search, seeded
// recommendations, batched track and artist lookups, and playlist creation.
// Batch ceilings are exported as constants ([MaxSeedsPerCall],
// [MaxTracksPerCall], [MaxArtistsPerCall], [MaxPlaylistItemsPerCall]) so
// callers chunk before calling.
//
// # Spotify Implementation
//
// [SpotifyService] wraps github.com/zmb3/spotify/v2. The OAuth2 config is
// built from the client credentials; the API client only exists after
// [SpotifyService.Authenticate]. Expired tokens are refreshed by the
// [oauth2.Client] and every new token is reported to the callback set with
// [SpotifyService.SetTokenRefreshCallback]. Client retries are disabled.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrAuthFailed] : code exchange rejected
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrInvalidArgument] : a batch exceeds its ceiling
package services
