package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"spotlyric/internal/api"
	"spotlyric/internal/logging"
	"spotlyric/internal/nowplaying"
	"spotlyric/internal/services"
	"spotlyric/internal/spotify"
)

//go:embed web
var webFS embed.FS

// Authenticator runs the OAuth authorization-code flow.
type Authenticator interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}

// CurrentSong resolves the playing track and its lyrics sources.
type CurrentSong interface {
	Lookup(ctx context.Context, req nowplaying.Request) nowplaying.Report
}

// Options wires the server's collaborators. Auth and TokenStore may be nil;
// without Auth the login routes report that Spotify is not configured.
type Options struct {
	Bind       string
	APIToken   string
	Auth       Authenticator
	NowPlaying CurrentSong
	Cache      *api.CacheService
	TokenStore spotify.TokenStore
	Logger     *slog.Logger
}

// Server is the HTTP front end.
type Server struct {
	bind       string
	apiToken   string
	auth       Authenticator
	nowPlaying CurrentSong
	cache      *api.CacheService
	tokens     spotify.TokenStore
	states     *stateStore
	logger     *slog.Logger

	handler  http.Handler
	listener net.Listener
	server   *http.Server
}

// New builds a Server and its routes.
func New(opts Options) (*Server, error) {
	if opts.NowPlaying == nil || opts.Cache == nil {
		return nil, errors.New("server: now-playing service and cache service are required")
	}
	s := &Server{
		bind:       strings.TrimSpace(opts.Bind),
		apiToken:   strings.TrimSpace(opts.APIToken),
		auth:       opts.Auth,
		nowPlaying: opts.NowPlaying,
		cache:      opts.Cache,
		tokens:     opts.TokenStore,
		states:     newStateStore(),
		logger:     logging.NewComponentLogger(opts.Logger, "server"),
	}

	static, err := fs.Sub(webFS, "web")
	if err != nil {
		return nil, fmt.Errorf("server: load web assets: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /", http.FileServerFS(static))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /login", s.handleLogin)
	mux.HandleFunc("GET /callback", s.handleCallback)
	mux.HandleFunc("GET /current-song", s.handleCurrentSong)
	mux.HandleFunc("POST /bookmark", s.handleBookmark)
	mux.HandleFunc("GET /api/cache", authMiddleware(s.apiToken, s.handleCacheList))
	mux.HandleFunc("POST /api/cache/sweep", authMiddleware(s.apiToken, s.handleCacheSweep))
	mux.HandleFunc("GET /api/cache/{key}", authMiddleware(s.apiToken, s.handleCacheEntry))
	mux.HandleFunc("DELETE /api/cache/{key}", authMiddleware(s.apiToken, s.handleCacheRemove))
	s.handler = s.withRequestID(mux)

	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Handler returns the routed handler, primarily for tests.
func (s *Server) Handler() http.Handler { return s.handler }

// Addr returns the listening address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

// Start begins serving in the background and shuts down when ctx is done.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.bind, err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("http server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		started := time.Now()
		next.ServeHTTP(w, r.WithContext(services.WithRequestID(r.Context(), id)))
		s.logger.Debug("http request",
			logging.String(logging.FieldCorrelationID, id),
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Duration("elapsed", time.Since(started)),
		)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps a marker error to its HTTP status.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	status := services.HTTPStatus(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", logging.Error(err))
		message = http.StatusText(status)
	}
	s.writeJSON(w, status, map[string]string{"error": message})
}
