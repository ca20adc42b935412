package services

import (
	"sync"

	"golang.org/x/oauth2"
)

// refreshableTokenSource wraps a token source and reports every new access
// token to callback so refreshed tokens can be persisted.
type refreshableTokenSource struct {
	source   oauth2.TokenSource
	callback func(*oauth2.Token)

	mu   sync.Mutex
	last string
}

func (s *refreshableTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.source.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	changed := tok.AccessToken != s.last
	s.last = tok.AccessToken
	s.mu.Unlock()

	if changed && s.callback != nil {
		s.callback(tok)
	}
	return tok, nil
}
