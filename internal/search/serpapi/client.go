// Package serpapi queries Google results through the SerpAPI JSON endpoint.
package serpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"spotlyric/internal/search"
	"spotlyric/internal/services"
)

const (
	defaultBaseURL  = "https://serpapi.com/search.json"
	defaultEngine   = "google"
	defaultCountry  = "in"
	defaultLanguage = "en"
)

// Config describes the SerpAPI client configuration.
type Config struct {
	APIKey     string
	BaseURL    string
	Engine     string
	Country    string
	Language   string
	HTTPClient *http.Client
}

// Client wraps the SerpAPI search endpoint.
type Client struct {
	apiKey   string
	baseURL  *url.URL
	engine   string
	country  string
	language string
	http     *http.Client
}

var _ search.Provider = (*Client)(nil)

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("serpapi: api key is required")
	}
	baseURL, err := url.Parse(firstNonEmpty(cfg.BaseURL, defaultBaseURL))
	if err != nil {
		return nil, fmt.Errorf("serpapi: parse base url: %w", err)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = search.NewHTTPClient(search.DefaultTimeout)
	}
	return &Client{
		apiKey:   apiKey,
		baseURL:  baseURL,
		engine:   firstNonEmpty(cfg.Engine, defaultEngine),
		country:  firstNonEmpty(cfg.Country, defaultCountry),
		language: firstNonEmpty(cfg.Language, defaultLanguage),
		http:     client,
	}, nil
}

// Name identifies the provider in logs and configuration.
func (c *Client) Name() string { return "serpapi" }

type organicResult struct {
	Link  string `json:"link"`
	Title string `json:"title"`
}

type searchResponse struct {
	Error          string          `json:"error"`
	OrganicResults []organicResult `json:"organic_results"`
}

// Search returns the organic results for query.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]search.Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("serpapi: query must not be empty")
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	endpoint := *c.baseURL
	params := url.Values{}
	params.Set("engine", c.engine)
	params.Set("q", query)
	params.Set("api_key", c.apiKey)
	params.Set("num", strconv.Itoa(maxResults))
	params.Set("gl", c.country)
	params.Set("hl", c.language)
	endpoint.RawQuery = params.Encode()

	body, err := search.Fetch(ctx, c.http, c.Name(), endpoint.String(), "")
	if err != nil {
		return nil, err
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, services.Wrap(services.ErrProviderUnavailable, c.Name(), "search", "decode response", err)
	}
	if msg := strings.TrimSpace(payload.Error); msg != "" {
		if isEmptyResultMessage(msg) {
			return nil, nil
		}
		return nil, services.Wrap(services.ErrProviderUnavailable, c.Name(), "search", msg, nil)
	}

	hits := make([]search.Hit, 0, len(payload.OrganicResults))
	for _, result := range payload.OrganicResults {
		link := strings.TrimSpace(result.Link)
		if link == "" {
			continue
		}
		hits = append(hits, search.Hit{URL: link, Title: strings.TrimSpace(result.Title)})
	}
	return search.Limit(hits, maxResults), nil
}

// SerpAPI reports a query with no matches through the error field.
func isEmptyResultMessage(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "hasn't returned any results")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
