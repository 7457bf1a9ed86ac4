package server

import (
	"encoding/json"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"spotlyric/internal/api"
	"spotlyric/internal/logging"
	"spotlyric/internal/nowplaying"
	"spotlyric/internal/spotify"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"spotify_login": s.auth != nil,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.auth == nil {
		s.writeError(w, http.StatusServiceUnavailable, "spotify client credentials are not configured")
		return
	}
	state := spotify.NewState()
	s.states.add(state)
	s.writeJSON(w, http.StatusOK, map[string]string{"auth_url": s.auth.AuthURL(state)})
}

var callbackPage = template.Must(template.New("callback").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>spotlyric</title></head>
<body>
{{if .Error}}<p>Login failed: {{.Error}}</p><p><a href="/">Back</a></p>
{{else}}<p>Logged in. Redirecting…</p>
<script>
localStorage.setItem("spotify_token", {{.AccessToken}});
localStorage.setItem("spotify_refresh_token", {{.RefreshToken}});
localStorage.setItem("spotify_expires_at", {{.ExpiresAt}});
window.location.replace("/");
</script>{{end}}
</body></html>`))

type callbackView struct {
	Error        string
	AccessToken  string
	RefreshToken string
	ExpiresAt    string
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	render := func(status int, view callbackView) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		if err := callbackPage.Execute(w, view); err != nil {
			s.logger.Error("render callback page", logging.Error(err))
		}
	}

	if s.auth == nil {
		render(http.StatusServiceUnavailable, callbackView{Error: "spotify client credentials are not configured"})
		return
	}
	if reason := query.Get("error"); reason != "" {
		render(http.StatusBadRequest, callbackView{Error: reason})
		return
	}
	if !s.states.consume(query.Get("state")) {
		render(http.StatusBadRequest, callbackView{Error: "login session expired or state mismatch; try again"})
		return
	}

	token, err := s.auth.Exchange(r.Context(), query.Get("code"))
	if err != nil {
		logging.WarnWithContext(logging.WithContext(r.Context(), s.logger), "spotify code exchange failed", "oauth_exchange_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "verify the client secret and redirect url registered with Spotify"),
			logging.String(logging.FieldImpact, "user must log in again"),
		)
		render(http.StatusBadGateway, callbackView{Error: "could not complete login with Spotify"})
		return
	}
	if s.tokens != nil {
		if err := s.tokens.Save(token); err != nil {
			s.logger.Warn("failed to persist spotify token", logging.Error(err))
		}
	}

	view := callbackView{AccessToken: token.AccessToken, RefreshToken: token.RefreshToken}
	if !token.Expiry.IsZero() {
		view.ExpiresAt = strconv.FormatInt(token.Expiry.Unix(), 10)
	}
	render(http.StatusOK, view)
}

func (s *Server) handleCurrentSong(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := nowplaying.Request{
		AccessToken:  strings.TrimSpace(query.Get("token")),
		RefreshToken: strings.TrimSpace(query.Get("refresh_token")),
		ExpiresAt:    parseExpiresAt(query.Get("expires_at")),
		ForceSearch:  parseBool(query.Get("refresh")),
	}
	if req.AccessToken == "" {
		if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			req.AccessToken = strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		}
	}
	report := s.nowPlaying.Lookup(r.Context(), req)
	s.writeJSON(w, report.Status(), report)
}

func (s *Server) handleBookmark(w http.ResponseWriter, r *http.Request) {
	var req api.BookmarkRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid bookmark request")
		return
	}
	resp, err := s.cache.ToggleBookmark(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCacheList(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.cache.List(r.Context()))
}

func (s *Server) handleCacheEntry(w http.ResponseWriter, r *http.Request) {
	detail, err := s.cache.Describe(r.Context(), r.PathValue("key"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleCacheRemove(w http.ResponseWriter, r *http.Request) {
	resp, err := s.cache.Remove(r.Context(), r.PathValue("key"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	status := http.StatusOK
	if resp.RemovedCount == 0 {
		status = http.StatusNotFound
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) handleCacheSweep(w http.ResponseWriter, r *http.Request) {
	resp, err := s.cache.Sweep(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// parseExpiresAt accepts unix seconds, unix milliseconds, or RFC3339.
func parseExpiresAt(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n)
		}
		return time.Unix(n, 0)
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	return time.Time{}
}

func parseBool(raw string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && value
}
