// Package google scrapes the public Google results page. Result titles are
// taken from the h3 heading when present; callers fall back to deriving a
// title from the URL otherwise.
package google

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"spotlyric/internal/search"
	"spotlyric/internal/services"
)

const defaultBaseURL = "https://www.google.com/search"

// Config describes the Google scrape client configuration.
type Config struct {
	BaseURL    string
	UserAgent  string
	Language   string
	HTTPClient *http.Client
}

// Client fetches and parses Google result pages.
type Client struct {
	baseURL   *url.URL
	userAgent string
	language  string
	http      *http.Client
}

var _ search.Provider = (*Client)(nil)

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("google: parse base url: %w", err)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = search.NewHTTPClient(search.DefaultTimeout)
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: strings.TrimSpace(cfg.UserAgent),
		language:  strings.TrimSpace(cfg.Language),
		http:      client,
	}, nil
}

// Name identifies the provider in logs and configuration.
func (c *Client) Name() string { return "google" }

// Search returns the organic result links for query.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]search.Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("google: query must not be empty")
	}
	endpoint := *c.baseURL
	params := endpoint.Query()
	params.Set("q", query)
	if maxResults > 0 {
		params.Set("num", strconv.Itoa(maxResults))
	}
	if c.language != "" {
		params.Set("hl", c.language)
	}
	endpoint.RawQuery = params.Encode()

	body, err := search.Fetch(ctx, c.http, c.Name(), endpoint.String(), c.userAgent)
	if err != nil {
		return nil, err
	}
	hits, err := parseResults(body)
	if err != nil {
		return nil, services.Wrap(services.ErrProviderUnavailable, c.Name(), "search", "parse results page", err)
	}
	return search.Limit(hits, maxResults), nil
}

func parseResults(body []byte) ([]search.Hit, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	var hits []search.Hit
	seen := map[string]struct{}{}
	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		target := resolveLink(href)
		if target == "" {
			return
		}
		if _, dup := seen[target]; dup {
			return
		}
		seen[target] = struct{}{}
		hits = append(hits, search.Hit{URL: target, Title: strings.TrimSpace(link.Find("h3").First().Text())})
	})
	return hits, nil
}

// resolveLink returns the destination of an organic result link, or "" for
// navigation, cache, and other Google-internal links.
func resolveLink(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "/url?") {
		parsed, err := url.Parse(href)
		if err != nil {
			return ""
		}
		href = parsed.Query().Get("q")
		if href == "" {
			href = parsed.Query().Get("url")
		}
	}
	parsed, err := url.Parse(href)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return ""
	}
	if isGoogleHost(parsed.Hostname()) {
		return ""
	}
	return parsed.String()
}

func isGoogleHost(host string) bool {
	host = strings.ToLower(host)
	for _, suffix := range []string{"google.com", "googleusercontent.com", "gstatic.com"} {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	return strings.HasPrefix(host, "google.") || strings.Contains(host, ".google.")
}
