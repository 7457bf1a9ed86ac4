package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"spotlyric/internal/services"
)

const defaultAPIBaseURL = "https://api.spotify.com/v1"

// ErrNothingPlaying is returned when the account has no active playback or
// the current item is not a track.
var ErrNothingPlaying = errors.New("nothing is currently playing")

// Track is the song currently playing.
type Track struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Artist    string        `json:"artist"`
	Artists   []string      `json:"artists"`
	Album     string        `json:"album"`
	IsPlaying bool          `json:"is_playing"`
	Progress  time.Duration `json:"progress"`
	Duration  time.Duration `json:"duration"`
}

type playbackResponse struct {
	IsPlaying  bool  `json:"is_playing"`
	ProgressMS int64 `json:"progress_ms"`
	Item       *struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		DurationMS int64  `json:"duration_ms"`
		Album      struct {
			Name string `json:"name"`
		} `json:"album"`
		Artists []struct {
			Name string `json:"name"`
		} `json:"artists"`
	} `json:"item"`
	CurrentlyPlayingType string `json:"currently_playing_type"`
}

type apiError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// ClientConfig configures the Web API client.
type ClientConfig struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client reads playback state from the Web API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a Web API client.
func NewClient(cfg ClientConfig) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultAPIBaseURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: base, http: client}
}

// CurrentlyPlaying returns the track playing on the account that owns
// accessToken.
func (c *Client) CurrentlyPlaying(ctx context.Context, accessToken string) (Track, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return Track{}, services.Wrap(services.ErrAuthInvalid, "spotify", "currently playing", "access token is required", nil)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/me/player", nil)
	if err != nil {
		return Track{}, fmt.Errorf("spotify: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Track{}, services.Wrap(services.ErrProviderUnavailable, "spotify", "currently playing", "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Track{}, services.Wrap(services.ErrProviderUnavailable, "spotify", "currently playing", "read response", err)
	}

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return Track{}, ErrNothingPlaying
	case resp.StatusCode == http.StatusUnauthorized:
		return Track{}, services.Wrap(services.ErrAuthExpired, "spotify", "currently playing", apiMessage(body, "access token expired"), nil)
	case resp.StatusCode == http.StatusForbidden:
		return Track{}, services.Wrap(services.ErrAuthInvalid, "spotify", "currently playing", apiMessage(body, "access denied"), nil)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return Track{}, services.Wrap(services.ErrProviderUnavailable, "spotify", "currently playing",
			fmt.Sprintf("unexpected status %s: %s", resp.Status, apiMessage(body, "")), nil)
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		return Track{}, ErrNothingPlaying
	}
	var payload playbackResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return Track{}, services.Wrap(services.ErrProviderUnavailable, "spotify", "currently playing", "decode playback state", err)
	}
	if payload.Item == nil || strings.TrimSpace(payload.Item.Name) == "" {
		return Track{}, ErrNothingPlaying
	}

	track := Track{
		ID:        payload.Item.ID,
		Title:     payload.Item.Name,
		Album:     payload.Item.Album.Name,
		IsPlaying: payload.IsPlaying,
		Progress:  time.Duration(payload.ProgressMS) * time.Millisecond,
		Duration:  time.Duration(payload.Item.DurationMS) * time.Millisecond,
	}
	for _, artist := range payload.Item.Artists {
		if name := strings.TrimSpace(artist.Name); name != "" {
			track.Artists = append(track.Artists, name)
		}
	}
	if len(track.Artists) > 0 {
		track.Artist = track.Artists[0]
	}
	return track, nil
}

func apiMessage(body []byte, fallback string) string {
	var payload apiError
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	if trimmed := strings.TrimSpace(string(body)); trimmed != "" && len(trimmed) < 512 {
		return trimmed
	}
	return fallback
}
