package main

import (
	"context"
	"errors"
	"fmt"
	"net"

	"golang.org/x/oauth2"

	"github.com/desertthunder/seedify/internal/credentials"
	"github.com/desertthunder/seedify/internal/server"
	"github.com/desertthunder/seedify/internal/services"
	"github.com/desertthunder/seedify/internal/shared"
)

func (r *Runner) store() (*credentials.Store, error) {
	dir, err := r.config.StateDir()
	if err != nil {
		return nil, err
	}
	return credentials.NewStore(dir), nil
}

// clientCredentials resolves the client ID and secret from the environment,
// then the encrypted store, then prompts. Prompted values are saved.
func (r *Runner) clientCredentials(store *credentials.Store, prompting bool) (string, string, error) {
	if id, secret, ok := credentials.FromEnv(); ok {
		r.logger.Debug("using client credentials from environment")
		return id, secret, nil
	}

	id, secret, err := store.Load()
	if err == nil {
		return id, secret, nil
	}
	if !errors.Is(err, shared.ErrMissingCredentials) || !prompting {
		return "", "", err
	}

	r.writePlain("No Spotify credentials found. Create an app at https://developer.spotify.com/dashboard\n")
	if id, err = r.ask(r.prompter, true, "Spotify client ID", ""); err != nil {
		return "", "", err
	}
	if secret, err = r.ask(r.secrets, true, "Spotify client secret", ""); err != nil {
		return "", "", err
	}
	if err := store.Save(id, secret); err != nil {
		return "", "", err
	}
	r.logger.Info("credentials saved", "dir", store.Dir())
	return id, secret, nil
}

// spotifyService builds an unauthenticated service whose refreshed tokens
// are written back to store.
func (r *Runner) spotifyService(store *credentials.Store, id, secret string) (*services.SpotifyService, error) {
	var opts []services.Option
	if r.config.Spotify.Market != "" {
		opts = append(opts, services.WithMarket(r.config.Spotify.Market))
	}

	svc, err := services.NewSpotifyService(id, secret, r.config.Spotify.RedirectURI, opts...)
	if err != nil {
		return nil, err
	}
	svc.SetTokenRefreshCallback(func(tok *oauth2.Token) {
		if err := store.SaveToken(tok); err != nil {
			r.logger.Warn("failed to save refreshed token", "error", err)
			return
		}
		r.logger.Debug("refreshed token saved")
	})
	return svc, nil
}

// authorize runs the authorization-code flow through a local callback server.
func (r *Runner) authorize(ctx context.Context, svc *services.SpotifyService) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, err
	}

	addr, path, err := server.RedirectTarget(svc.Config().RedirectURL)
	if err != nil {
		return nil, err
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	authURL := svc.AuthURL(state)
	r.writePlain("Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warn("failed to open browser", "error", err)
		r.writePlain("Visit this URL to authorize:\n%s\n", authURL)
	}

	handler := server.NewOAuthHandler(svc, state, path)
	tok, err := server.AwaitToken(ctx, ln, handler, r.logger, server.DefaultCallbackTimeout)
	if err != nil {
		return nil, err
	}
	r.writePlain("Authorization complete.\n")
	return tok, nil
}

// connect returns an authenticated catalog, authorizing when no token is stored.
func (r *Runner) connect(ctx context.Context, prompting bool) (services.Catalog, error) {
	if r.catalog != nil {
		return r.catalog, nil
	}

	store, err := r.store()
	if err != nil {
		return nil, err
	}
	id, secret, err := r.clientCredentials(store, prompting)
	if err != nil {
		return nil, err
	}
	svc, err := r.spotifyService(store, id, secret)
	if err != nil {
		return nil, err
	}

	tok, err := store.LoadToken()
	if errors.Is(err, shared.ErrNotAuthenticated) {
		if tok, err = r.authorize(ctx, svc); err != nil {
			return nil, err
		}
		if err := store.SaveToken(tok); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if err := svc.Authenticate(ctx, tok); err != nil {
		return nil, err
	}
	return svc, nil
}
