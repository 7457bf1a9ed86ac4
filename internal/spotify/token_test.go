package spotify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"spotlyric/internal/services"
)

func TestFileTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	store := NewFileTokenStore(path)

	token, err := store.Load()
	if err != nil || token != nil {
		t.Fatalf("expected nil token for missing file, got %+v, %v", token, err)
	}

	expiry := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := store.Save(&oauth2.Token{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer", Expiry: expiry}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600 permissions, got %v", info.Mode().Perm())
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.AccessToken != "a" || loaded.RefreshToken != "r" || !loaded.Expiry.Equal(expiry) {
		t.Fatalf("unexpected token %+v", loaded)
	}
}

type memoryTokenStore struct {
	token *oauth2.Token
	saves int
}

func (m *memoryTokenStore) Load() (*oauth2.Token, error) { return m.token, nil }

func (m *memoryTokenStore) Save(token *oauth2.Token) error {
	m.saves++
	m.token = token
	return nil
}

type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) Refresh(_ context.Context, refreshToken string) (*oauth2.Token, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &oauth2.Token{AccessToken: "fresh-" + refreshToken, Expiry: time.Now().Add(time.Hour)}, nil
}

func TestTokenSourceReturnsValidToken(t *testing.T) {
	store := &memoryTokenStore{token: &oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: time.Now().Add(time.Hour)}}
	refresher := &fakeRefresher{}
	source := NewTokenSource(refresher, store)

	token, err := source.Token(context.Background())
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if token.AccessToken != "a" || refresher.calls != 0 {
		t.Fatalf("expected cached token without refresh, got %+v (%d calls)", token, refresher.calls)
	}
}

func TestTokenSourceRefreshesNearExpiry(t *testing.T) {
	store := &memoryTokenStore{token: &oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: time.Now().Add(10 * time.Second)}}
	refresher := &fakeRefresher{}
	source := NewTokenSource(refresher, store)

	token, err := source.Token(context.Background())
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if token.AccessToken != "fresh-r" || token.RefreshToken != "r" {
		t.Fatalf("unexpected refreshed token %+v", token)
	}
	if store.saves != 1 {
		t.Fatalf("expected refreshed token to be persisted")
	}
}

func TestTokenSourceMissingTokenRequiresLogin(t *testing.T) {
	source := NewTokenSource(&fakeRefresher{}, &memoryTokenStore{})
	_, err := source.Token(context.Background())
	if !errors.Is(err, services.ErrAuthInvalid) {
		t.Fatalf("expected ErrAuthInvalid, got %v", err)
	}
}

func TestTokenSourceExpiredWithoutRefreshToken(t *testing.T) {
	store := &memoryTokenStore{token: &oauth2.Token{AccessToken: "a", Expiry: time.Now().Add(-time.Hour)}}
	source := NewTokenSource(&fakeRefresher{}, store)
	_, err := source.Token(context.Background())
	if !errors.Is(err, services.ErrAuthExpired) {
		t.Fatalf("expected ErrAuthExpired, got %v", err)
	}
}
