package spotify

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"spotlyric/internal/services"
)

// Scopes requested during authorization.
var Scopes = []string{"user-read-currently-playing", "user-read-playback-state"}

const (
	defaultAuthURL  = "https://accounts.spotify.com/authorize"
	defaultTokenURL = "https://accounts.spotify.com/api/token"
)

// AuthConfig describes the registered Spotify application.
type AuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	HTTPClient   *http.Client
}

// Authenticator performs the authorization-code exchange and token refresh.
type Authenticator struct {
	oauth  *oauth2.Config
	client *http.Client
}

// NewAuthenticator validates cfg and builds an Authenticator.
func NewAuthenticator(cfg AuthConfig) (*Authenticator, error) {
	if strings.TrimSpace(cfg.ClientID) == "" || strings.TrimSpace(cfg.ClientSecret) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "spotify", "configure", "client id and secret are required", nil)
	}
	if strings.TrimSpace(cfg.RedirectURL) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "spotify", "configure", "redirect url is required", nil)
	}
	authURL := strings.TrimSpace(cfg.AuthURL)
	if authURL == "" {
		authURL = defaultAuthURL
	}
	tokenURL := strings.TrimSpace(cfg.TokenURL)
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Authenticator{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       append([]string(nil), Scopes...),
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		client: client,
	}, nil
}

// NewState returns a random value for the OAuth state parameter.
func NewState() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// AuthURL returns the consent page URL for the given state.
func (a *Authenticator) AuthURL(state string) string {
	return a.oauth.AuthCodeURL(state)
}

// Exchange trades an authorization code for a token.
func (a *Authenticator) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, services.Wrap(services.ErrValidation, "spotify", "exchange", "authorization code is required", nil)
	}
	token, err := a.oauth.Exchange(a.withClient(ctx), code)
	if err != nil {
		return nil, classifyTokenError("exchange", err)
	}
	return token, nil
}

// Refresh obtains a new access token from a refresh token. The returned
// token keeps the old refresh token when Spotify does not rotate it.
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, services.Wrap(services.ErrAuthExpired, "spotify", "refresh", "no refresh token available", nil)
	}
	expired := &oauth2.Token{RefreshToken: refreshToken, Expiry: time.Now().Add(-time.Minute)}
	token, err := a.oauth.TokenSource(a.withClient(ctx), expired).Token()
	if err != nil {
		return nil, classifyTokenError("refresh", err)
	}
	if token.RefreshToken == "" {
		token.RefreshToken = refreshToken
	}
	return token, nil
}

func (a *Authenticator) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, a.client)
}

// classifyTokenError maps a rejected grant to ErrAuthInvalid so callers send
// the user back through login; anything else is a provider failure.
func classifyTokenError(op string, err error) error {
	var retrieve *oauth2.RetrieveError
	if errors.As(err, &retrieve) {
		if retrieve.ErrorCode == "invalid_grant" || retrieve.ErrorCode == "invalid_client" ||
			(retrieve.Response != nil && retrieve.Response.StatusCode == http.StatusBadRequest) {
			return services.Wrap(services.ErrAuthInvalid, "spotify", op, "authorization was rejected", err)
		}
	}
	return services.Wrap(services.ErrProviderUnavailable, "spotify", op, "token request failed", err)
}
