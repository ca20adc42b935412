package credentials

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/desertthunder/seedify/internal/shared"
)

func TestStore(t *testing.T) {
	t.Run("credentials round trip", func(t *testing.T) {
		s := NewStore(filepath.Join(t.TempDir(), "state"))

		if s.HasCredentials() {
			t.Fatal("expected no credentials in a fresh store")
		}
		if err := s.Save(" client ", "s3cr3t:with:colons"); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		id, secret, err := s.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if id != "client" || secret != "s3cr3t:with:colons" {
			t.Errorf("Load() = %q, %q", id, secret)
		}

		raw, _ := os.ReadFile(filepath.Join(s.Dir(), shared.CredentialsFile))
		if string(raw) == "client:s3cr3t:with:colons" {
			t.Error("credentials stored in plain text")
		}

		info, err := os.Stat(filepath.Join(s.Dir(), shared.KeyFile))
		if err != nil {
			t.Fatalf("expected key file: %v", err)
		}
		if info.Mode().Perm() != 0o600 {
			t.Errorf("expected key mode 0600, got %v", info.Mode().Perm())
		}
	})

	t.Run("missing credentials", func(t *testing.T) {
		s := NewStore(t.TempDir())
		if _, _, err := s.Load(); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("save rejects empty values", func(t *testing.T) {
		s := NewStore(t.TempDir())
		if err := s.Save("id", " "); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("wrong key fails to decrypt", func(t *testing.T) {
		dir := t.TempDir()
		s := NewStore(dir)
		if err := s.Save("id", "secret"); err != nil {
			t.Fatal(err)
		}

		other := make([]byte, keySize)
		if err := os.WriteFile(filepath.Join(dir, shared.KeyFile), other, 0o600); err != nil {
			t.Fatal(err)
		}

		if _, _, err := s.Load(); !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("missing key file", func(t *testing.T) {
		dir := t.TempDir()
		s := NewStore(dir)
		if err := s.Save("id", "secret"); err != nil {
			t.Fatal(err)
		}
		os.Remove(filepath.Join(dir, shared.KeyFile))

		if _, _, err := s.Load(); !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("truncated blob", func(t *testing.T) {
		dir := t.TempDir()
		s := NewStore(dir)
		if err := s.Save("id", "secret"); err != nil {
			t.Fatal(err)
		}
		os.WriteFile(filepath.Join(dir, shared.CredentialsFile), []byte("short"), 0o600)

		if _, _, err := s.Load(); !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("token round trip", func(t *testing.T) {
		s := NewStore(t.TempDir())

		if _, err := s.LoadToken(); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Fatalf("expected ErrNotAuthenticated, got %v", err)
		}

		expiry := time.Now().Add(time.Hour).Truncate(time.Second)
		tok := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", Expiry: expiry}
		if err := s.SaveToken(tok); err != nil {
			t.Fatalf("SaveToken() error = %v", err)
		}
		if !s.HasToken() {
			t.Error("expected HasToken() to be true")
		}

		got, err := s.LoadToken()
		if err != nil {
			t.Fatalf("LoadToken() error = %v", err)
		}
		if got.AccessToken != "access" || got.RefreshToken != "refresh" || !got.Expiry.Equal(expiry) {
			t.Errorf("unexpected token %+v", got)
		}
	})

	t.Run("nil token", func(t *testing.T) {
		if err := NewStore(t.TempDir()).SaveToken(nil); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvClientID, "env-id")
	t.Setenv(EnvClientSecret, "")
	if _, _, ok := FromEnv(); ok {
		t.Error("expected ok=false with empty secret")
	}

	t.Setenv(EnvClientSecret, "env-secret")
	id, secret, ok := FromEnv()
	if !ok || id != "env-id" || secret != "env-secret" {
		t.Errorf("FromEnv() = %q, %q, %v", id, secret, ok)
	}
}
