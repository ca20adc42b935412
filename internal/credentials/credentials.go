// Package credentials persists the catalog client ID/secret and OAuth token
// encrypted with a locally stored symmetric key.
package credentials

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/oauth2"

	"github.com/desertthunder/seedify/internal/shared"
)

const (
	keySize   = 32
	nonceSize = 24

	EnvClientID     = "SPOTIFY_CLIENT_ID"
	EnvClientSecret = "SPOTIFY_CLIENT_SECRET"
)

// Store reads and writes encrypted blobs under a state directory.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir. Nothing is created until the first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the state directory.
func (s *Store) Dir() string { return s.dir }

// Load decrypts the stored client ID and secret.
func (s *Store) Load() (clientID, clientSecret string, err error) {
	plain, err := s.open(shared.CredentialsFile)
	if errors.Is(err, fs.ErrNotExist) {
		return "", "", shared.ErrMissingCredentials
	}
	if err != nil {
		return "", "", err
	}

	clientID, clientSecret, ok := strings.Cut(string(plain), ":")
	if !ok || clientID == "" || clientSecret == "" {
		return "", "", fmt.Errorf("%w: malformed credential blob", shared.ErrInvalidCredentials)
	}
	return clientID, clientSecret, nil
}

// Save encrypts and stores the client ID and secret.
func (s *Store) Save(clientID, clientSecret string) error {
	clientID, clientSecret = strings.TrimSpace(clientID), strings.TrimSpace(clientSecret)
	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("%w: client ID and secret are required", shared.ErrMissingCredentials)
	}
	if strings.Contains(clientID, ":") {
		return fmt.Errorf("%w: client ID must not contain ':'", shared.ErrInvalidCredentials)
	}
	return s.seal(shared.CredentialsFile, []byte(clientID+":"+clientSecret))
}

// LoadToken decrypts the stored OAuth token. It returns
// [shared.ErrNotAuthenticated] when no token has been saved.
func (s *Store) LoadToken() (*oauth2.Token, error) {
	plain, err := s.open(shared.TokenFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, shared.ErrNotAuthenticated
	}
	if err != nil {
		return nil, err
	}

	var tok oauth2.Token
	if err := json.Unmarshal(plain, &tok); err != nil {
		return nil, fmt.Errorf("%w: malformed token: %v", shared.ErrInvalidCredentials, err)
	}
	return &tok, nil
}

// SaveToken encrypts and stores tok.
func (s *Store) SaveToken(tok *oauth2.Token) error {
	if tok == nil {
		return fmt.Errorf("%w: nil token", shared.ErrInvalidArgument)
	}
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	return s.seal(shared.TokenFile, data)
}

// HasCredentials reports whether a credential blob exists.
func (s *Store) HasCredentials() bool {
	return s.exists(shared.CredentialsFile)
}

// HasToken reports whether a token blob exists.
func (s *Store) HasToken() bool {
	return s.exists(shared.TokenFile)
}

// FromEnv returns the client ID and secret from the environment when both are set.
func FromEnv() (clientID, clientSecret string, ok bool) {
	clientID, clientSecret = os.Getenv(EnvClientID), os.Getenv(EnvClientSecret)
	return clientID, clientSecret, clientID != "" && clientSecret != ""
}

func (s *Store) exists(name string) bool {
	_, err := os.Stat(filepath.Join(s.dir, name))
	return err == nil
}

// key loads the symmetric key, generating it on first use when create is set.
func (s *Store) key(create bool) (*[keySize]byte, error) {
	path := filepath.Join(s.dir, shared.KeyFile)
	var key [keySize]byte

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(data) != keySize {
			return nil, fmt.Errorf("%w: key file has %d bytes", shared.ErrInvalidCredentials, len(data))
		}
		copy(key[:], data)
		return &key, nil
	case !errors.Is(err, fs.ErrNotExist) || !create:
		return nil, err
	}

	if _, err := io.ReadFull(rand.Reader, key[:]); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(path, key[:], 0o600); err != nil {
		return nil, fmt.Errorf("failed to write key: %w", err)
	}
	return &key, nil
}

func (s *Store) seal(name string, plain []byte) error {
	key, err := s.key(true)
	if err != nil {
		return err
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	blob := secretbox.Seal(nonce[:], plain, &nonce, key)
	if err := os.WriteFile(filepath.Join(s.dir, name), blob, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (s *Store) open(name string) ([]byte, error) {
	blob, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}

	key, err := s.key(false)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: key file is missing", shared.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}

	if len(blob) < nonceSize {
		return nil, fmt.Errorf("%w: %s is truncated", shared.ErrInvalidCredentials, name)
	}
	var nonce [nonceSize]byte
	copy(nonce[:], blob[:nonceSize])

	plain, ok := secretbox.Open(nil, blob[nonceSize:], &nonce, key)
	if !ok {
		return nil, fmt.Errorf("%w: cannot decrypt %s", shared.ErrInvalidCredentials, name)
	}
	return plain, nil
}
