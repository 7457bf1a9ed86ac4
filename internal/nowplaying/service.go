// Package nowplaying answers "what is playing and where are its lyrics" for
// a Spotify access token, refreshing the token once when Spotify rejects it.
package nowplaying

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"spotlyric/internal/logging"
	"spotlyric/internal/lyrics"
	"spotlyric/internal/searchcache"
	"spotlyric/internal/services"
	"spotlyric/internal/spotify"
)

const expiryLeeway = 30 * time.Second

// Player reads the listener's playback state.
type Player interface {
	CurrentlyPlaying(ctx context.Context, accessToken string) (spotify.Track, error)
}

// Finder locates lyrics sources for a song.
type Finder interface {
	Lookup(ctx context.Context, title, artist string) (lyrics.Result, error)
	Refresh(ctx context.Context, title, artist string) (lyrics.Result, error)
}

// Request carries the caller's credentials.
type Request struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	// ForceSearch bypasses cached results.
	ForceSearch bool
}

// TokenUpdate is returned when the access token was refreshed so the caller
// can replace its copy.
type TokenUpdate struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Report is the response body for the current-song endpoint. Either Song is
// set or Error is.
type Report struct {
	Song          string                  `json:"song,omitempty"`
	Artist        string                  `json:"artist,omitempty"`
	Sources       []searchcache.Candidate `json:"sources,omitempty"`
	Bookmarks     map[string]bool         `json:"bookmarks,omitempty"`
	FromCache     bool                    `json:"from_cache"`
	Token         *TokenUpdate            `json:"token,omitempty"`
	Error         string                  `json:"error,omitempty"`
	RequiresLogin bool                    `json:"requires_login,omitempty"`

	status int
}

// Status is the HTTP status that accompanies the report.
func (r Report) Status() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// Service combines playback state with lyrics lookup.
type Service struct {
	player    Player
	refresher spotify.Refresher
	finder    Finder
	logger    *slog.Logger
	now       func() time.Time
}

// NewService builds a Service. refresher may be nil, in which case expired
// tokens always require a new login.
func NewService(player Player, refresher spotify.Refresher, finder Finder, logger *slog.Logger) *Service {
	return &Service{
		player:    player,
		refresher: refresher,
		finder:    finder,
		logger:    logging.NewComponentLogger(logger, "nowplaying"),
		now:       time.Now,
	}
}

// Lookup resolves the current track and its lyrics sources. Failures are
// reported in the returned Report rather than as an error.
func (s *Service) Lookup(ctx context.Context, req Request) Report {
	logger := logging.WithContext(ctx, s.logger)
	access := strings.TrimSpace(req.AccessToken)
	refreshToken := strings.TrimSpace(req.RefreshToken)

	var update *TokenUpdate
	if access == "" && refreshToken == "" {
		return loginRequired("not logged in")
	}
	if access == "" || s.expired(req.ExpiresAt) {
		token, err := s.refresh(ctx, refreshToken)
		if err != nil {
			return s.failure(logger, err)
		}
		update = tokenUpdate(token)
		access = token.AccessToken
		refreshToken = token.RefreshToken
	}

	track, err := s.player.CurrentlyPlaying(ctx, access)
	if errors.Is(err, services.ErrAuthExpired) && update == nil && refreshToken != "" {
		logger.Debug("access token rejected; refreshing once")
		token, refreshErr := s.refresh(ctx, refreshToken)
		if refreshErr != nil {
			return s.failure(logger, refreshErr)
		}
		update = tokenUpdate(token)
		track, err = s.player.CurrentlyPlaying(ctx, token.AccessToken)
	}
	if err != nil {
		report := s.failure(logger, err)
		report.Token = update
		return report
	}

	ctx = services.WithSong(ctx, lyrics.SongLabel(track.Title, track.Artist))
	var result lyrics.Result
	if req.ForceSearch {
		result, err = s.finder.Refresh(ctx, track.Title, track.Artist)
	} else {
		result, err = s.finder.Lookup(ctx, track.Title, track.Artist)
	}
	if err != nil {
		report := s.failure(logger, err)
		report.Token = update
		return report
	}

	return Report{
		Song:      track.Title,
		Artist:    track.Artist,
		Sources:   result.Candidates,
		Bookmarks: result.Bookmarks,
		FromCache: result.FromCache,
		Token:     update,
	}
}

func (s *Service) expired(expiresAt time.Time) bool {
	return !expiresAt.IsZero() && !s.now().Add(expiryLeeway).Before(expiresAt)
}

func (s *Service) refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if s.refresher == nil || refreshToken == "" {
		return nil, services.Wrap(services.ErrAuthExpired, "nowplaying", "refresh", "access token expired", nil)
	}
	return s.refresher.Refresh(ctx, refreshToken)
}

func (s *Service) failure(logger *slog.Logger, err error) Report {
	switch {
	case errors.Is(err, spotify.ErrNothingPlaying):
		return Report{Error: "nothing is currently playing"}
	case services.RequiresLogin(err):
		logger.Info("spotify authorization required", logging.Error(err))
		return loginRequired("spotify authorization expired; please log in again")
	default:
		logging.WarnWithContext(logger, "current song lookup failed", "current_song_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check network access to Spotify"),
			logging.String(logging.FieldImpact, "the page shows an error until the next poll"),
		)
		return Report{Error: "could not read playback state", status: services.HTTPStatus(err)}
	}
}

func loginRequired(message string) Report {
	return Report{Error: message, RequiresLogin: true, status: http.StatusUnauthorized}
}

func tokenUpdate(token *oauth2.Token) *TokenUpdate {
	return &TokenUpdate{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}
}
