// Package search defines the provider abstraction used to find lyrics and
// translation pages, plus the HTTP and pacing helpers shared by the concrete
// providers in the serpapi, duckduckgo, and google subpackages.
package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"spotlyric/internal/services"
)

// Hit is a single raw search result. Title may be empty when the provider
// only returns URLs.
type Hit struct {
	URL   string
	Title string
}

// Provider runs a web search and returns results in the provider's ranking
// order.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]Hit, error)
}

// DefaultTimeout bounds a single provider request.
const DefaultTimeout = 10 * time.Second

// NewHTTPClient returns a client with the given request timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// Fetch performs a GET request and returns the response body. Non-2xx
// responses and transport failures are tagged with
// services.ErrProviderUnavailable. Returned errors never carry the request's
// query string, which may hold credentials.
func Fetch(ctx context.Context, client *http.Client, provider, target, userAgent string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", provider, redactURLError(err))
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrProviderUnavailable, provider, "search", "request failed", redactURLError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, services.Wrap(services.ErrProviderUnavailable, provider, "search",
			fmt.Sprintf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body))), nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, services.Wrap(services.ErrProviderUnavailable, provider, "search", "read response", err)
	}
	return data, nil
}

// redactURLError strips the query and userinfo from the URL a *url.Error
// reports. The cause chain is kept so timeouts stay detectable.
func redactURLError(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	redacted := *ue
	redacted.URL = RedactURL(ue.URL)
	return &redacted
}

// RedactURL returns raw without its query, fragment, or userinfo.
func RedactURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		if i := strings.IndexAny(raw, "?#"); i >= 0 {
			return raw[:i]
		}
		return raw
	}
	parsed.User = nil
	parsed.RawQuery = ""
	parsed.ForceQuery = false
	parsed.Fragment = ""
	parsed.RawFragment = ""
	return parsed.String()
}

// Limit truncates hits to max when max is positive.
func Limit(hits []Hit, max int) []Hit {
	if max > 0 && len(hits) > max {
		return hits[:max]
	}
	return hits
}
