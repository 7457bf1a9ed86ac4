package spotify

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"spotlyric/internal/services"
)

const tokenRefreshLeeway = time.Minute

// Refresher obtains a new token from a refresh token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// TokenSource hands out a valid access token, refreshing and persisting it
// shortly before it expires.
type TokenSource struct {
	refresher Refresher
	store     TokenStore
	now       func() time.Time

	mu    sync.Mutex
	token *oauth2.Token
}

// NewTokenSource builds a TokenSource over store.
func NewTokenSource(refresher Refresher, store TokenStore) *TokenSource {
	return &TokenSource{refresher: refresher, store: store, now: time.Now}
}

// Token returns a token valid for at least the refresh leeway. A missing
// token is reported as ErrAuthInvalid so the caller can prompt for login.
func (s *TokenSource) Token(ctx context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == nil {
		token, err := s.store.Load()
		if err != nil {
			return nil, err
		}
		if token == nil || strings.TrimSpace(token.AccessToken) == "" {
			return nil, services.Wrap(services.ErrAuthInvalid, "spotify", "token", "not logged in; run `spotlyric auth url`", nil)
		}
		s.token = token
	}

	if s.token.Expiry.IsZero() || s.token.Expiry.Sub(s.now()) > tokenRefreshLeeway {
		return s.token, nil
	}
	return s.refreshLocked(ctx)
}

// ForceRefresh discards the current access token and refreshes it.
func (s *TokenSource) ForceRefresh(ctx context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == nil {
		token, err := s.store.Load()
		if err != nil {
			return nil, err
		}
		if token == nil {
			return nil, services.Wrap(services.ErrAuthInvalid, "spotify", "token", "not logged in; run `spotlyric auth url`", nil)
		}
		s.token = token
	}
	return s.refreshLocked(ctx)
}

func (s *TokenSource) refreshLocked(ctx context.Context) (*oauth2.Token, error) {
	if s.refresher == nil || strings.TrimSpace(s.token.RefreshToken) == "" {
		return nil, services.Wrap(services.ErrAuthExpired, "spotify", "token", "access token expired and cannot be refreshed", nil)
	}
	refreshed, err := s.refresher.Refresh(ctx, s.token.RefreshToken)
	if err != nil {
		return nil, err
	}
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = s.token.RefreshToken
	}
	s.token = refreshed
	if err := s.store.Save(refreshed); err != nil {
		return nil, err
	}
	return refreshed, nil
}
