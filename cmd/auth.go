package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/seedify/internal/credentials"
	"github.com/desertthunder/seedify/internal/shared"
)

// AuthLogin stores client credentials (from flags or prompts) and runs the
// OAuth flow, saving the resulting token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	store, err := r.store()
	if err != nil {
		return err
	}

	id, secret := cmd.String("client-id"), cmd.String("client-secret")
	switch {
	case id != "" && secret != "":
		if err := store.Save(id, secret); err != nil {
			return err
		}
		r.logger.Info("credentials saved", "dir", store.Dir())
	case id != "" || secret != "":
		return fmt.Errorf("%w: --client-id and --client-secret must be given together", shared.ErrMissingArgument)
	default:
		if id, secret, err = r.clientCredentials(store, r.interactive); err != nil {
			return err
		}
	}

	svc, err := r.spotifyService(store, id, secret)
	if err != nil {
		return err
	}
	tok, err := r.authorize(ctx, svc)
	if err != nil {
		return err
	}
	if err := store.SaveToken(tok); err != nil {
		return err
	}

	return r.writePlain("✓ Authentication successful\n")
}

// AuthStatus reports which credentials and tokens are available without
// contacting the service.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	store, err := r.store()
	if err != nil {
		return err
	}

	r.writePlain("State directory: %s\n", store.Dir())
	if _, _, ok := credentials.FromEnv(); ok {
		r.writePlain("Credentials: ✓ from %s and %s\n", credentials.EnvClientID, credentials.EnvClientSecret)
	} else if store.HasCredentials() {
		if _, _, err := store.Load(); err != nil {
			r.writePlain("Credentials: ✗ unreadable (%v)\n", err)
		} else {
			r.writePlain("Credentials: ✓ stored\n")
		}
	} else {
		r.writePlain("Credentials: ✗ not stored (run 'seedify auth login')\n")
	}

	tok, err := store.LoadToken()
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		return r.writePlain("Authorization: ✗ not authorized\n")
	case err != nil:
		return r.writePlain("Authorization: ✗ unreadable token (%v)\n", err)
	case tok.Valid():
		return r.writePlain("Authorization: ✓ token valid until %s\n", tok.Expiry.Local().Format("2006-01-02 15:04"))
	case tok.RefreshToken != "":
		return r.writePlain("Authorization: ✓ token expired, will refresh on next use\n")
	default:
		return r.writePlain("Authorization: ✗ token expired (run 'seedify auth login')\n")
	}
}
