package spotify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spotlyric/internal/services"
)

func newPlaybackServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/me/player" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer token" {
			t.Errorf("missing bearer token")
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCurrentlyPlaying(t *testing.T) {
	server := newPlaybackServer(t, http.StatusOK, `{
		"is_playing": true,
		"progress_ms": 61000,
		"currently_playing_type": "track",
		"item": {
			"id": "7qiZfU4dY1lWllzX7mPBI3",
			"name": "Shape of You",
			"duration_ms": 233713,
			"album": {"name": "÷"},
			"artists": [{"name": "Ed Sheeran"}, {"name": "Guest"}]
		}
	}`)
	client := NewClient(ClientConfig{BaseURL: server.URL + "/v1/"})

	track, err := client.CurrentlyPlaying(context.Background(), "token")
	if err != nil {
		t.Fatalf("CurrentlyPlaying: %v", err)
	}
	if track.Title != "Shape of You" || track.Artist != "Ed Sheeran" || len(track.Artists) != 2 {
		t.Fatalf("unexpected track %+v", track)
	}
	if track.Progress != 61*time.Second || !track.IsPlaying {
		t.Fatalf("unexpected playback state %+v", track)
	}
}

func TestCurrentlyPlayingErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "no content", status: http.StatusNoContent, want: ErrNothingPlaying},
		{name: "null item", status: http.StatusOK, body: `{"is_playing":false,"item":null}`, want: ErrNothingPlaying},
		{name: "expired", status: http.StatusUnauthorized, body: `{"error":{"status":401,"message":"The access token expired"}}`, want: services.ErrAuthExpired},
		{name: "forbidden", status: http.StatusForbidden, body: `{"error":{"status":403,"message":"Insufficient client scope"}}`, want: services.ErrAuthInvalid},
		{name: "server error", status: http.StatusBadGateway, body: `oops`, want: services.ErrProviderUnavailable},
		{name: "bad json", status: http.StatusOK, body: `{`, want: services.ErrProviderUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := newPlaybackServer(t, tc.status, tc.body)
			client := NewClient(ClientConfig{BaseURL: server.URL + "/v1"})
			_, err := client.CurrentlyPlaying(context.Background(), "token")
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCurrentlyPlayingRequiresToken(t *testing.T) {
	client := NewClient(ClientConfig{BaseURL: "http://unused"})
	if _, err := client.CurrentlyPlaying(context.Background(), " "); !errors.Is(err, services.ErrAuthInvalid) {
		t.Fatalf("expected ErrAuthInvalid, got %v", err)
	}
}
