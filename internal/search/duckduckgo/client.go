// Package duckduckgo scrapes the DuckDuckGo HTML endpoint. It needs no API
// key and serves as the fallback when the quota-limited provider fails.
package duckduckgo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"spotlyric/internal/search"
	"spotlyric/internal/services"
)

const defaultBaseURL = "https://html.duckduckgo.com/html/"

// Config describes the DuckDuckGo client configuration.
type Config struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
}

// Client fetches and parses DuckDuckGo result pages.
type Client struct {
	baseURL   *url.URL
	userAgent string
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
		return nil, fmt.Errorf("duckduckgo: parse base url: %w", err)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = search.NewHTTPClient(search.DefaultTimeout)
	}
	return &Client{baseURL: baseURL, userAgent: strings.TrimSpace(cfg.UserAgent), http: client}, nil
}

// Name identifies the provider in logs and configuration.
func (c *Client) Name() string { return "duckduckgo" }

// Search returns organic results for query, skipping sponsored entries.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]search.Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("duckduckgo: query must not be empty")
	}
	endpoint := *c.baseURL
	params := endpoint.Query()
	params.Set("q", query)
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
	doc.Find("a.result__a").Each(func(_ int, link *goquery.Selection) {
		if link.ParentsFiltered(".result--ad").Length() > 0 {
			return
		}
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		target := resolveLink(href)
		if target == "" {
			return
		}
		if _, dup := seen[target]; dup {
			return
		}
		seen[target] = struct{}{}
		hits = append(hits, search.Hit{URL: target, Title: strings.TrimSpace(link.Text())})
	})
	return hits, nil
}

// resolveLink unwraps DuckDuckGo redirect links (//duckduckgo.com/l/?uddg=...)
// into the destination URL.
func resolveLink(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if strings.HasSuffix(parsed.Hostname(), "duckduckgo.com") {
		if strings.HasPrefix(parsed.Path, "/l/") {
			return resolveDestination(parsed.Query().Get("uddg"))
		}
		return ""
	}
	return resolveDestination(href)
}

func resolveDestination(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return ""
	}
	return parsed.String()
}
