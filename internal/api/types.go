package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Source is one lyrics or translation page.
type Source struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	Site       string `json:"site,omitempty"`
	Bookmarked bool   `json:"bookmarked"`
}

// LookupResponse is the result of a lyrics lookup for one song.
type LookupResponse struct {
	Song      string   `json:"song"`
	Artist    string   `json:"artist"`
	Sources   []Source `json:"sources"`
	FromCache bool     `json:"from_cache"`
	FetchedAt string   `json:"fetched_at,omitempty"`
	Provider  string   `json:"provider,omitempty"`
}

// CacheEntry summarizes one cached song.
type CacheEntry struct {
	Key        string `json:"key"`
	Sources    int    `json:"sources"`
	Bookmarked int    `json:"bookmarked"`
	FetchedAt  string `json:"fetched_at"`
	Expired    bool   `json:"expired"`
}

// CacheEntryDetail is a cached song with its sources.
type CacheEntryDetail struct {
	CacheEntry
	Items []Source `json:"items"`
	// Orphaned lists bookmarked URLs that are no longer among the sources.
	Orphaned []string `json:"orphaned,omitempty"`
}

// CacheListResponse wraps the cache listing.
type CacheListResponse struct {
	Entries    []CacheEntry `json:"entries"`
	Expiration string       `json:"expiration"`
}

// CacheSweepResponse reports how many expired entries were removed.
type CacheSweepResponse struct {
	Removed int `json:"removed"`
}

// RemoveOutcome describes what happened to one key in a remove request.
type RemoveOutcome string

const (
	RemoveOutcomeRemoved  RemoveOutcome = "removed"
	RemoveOutcomeNotFound RemoveOutcome = "not_found"
)

// RemoveKeyResult is the outcome for a single key.
type RemoveKeyResult struct {
	Key     string        `json:"key"`
	Outcome RemoveOutcome `json:"outcome"`
}

// RemoveResponse reports per-key outcomes.
type RemoveResponse struct {
	RemovedCount int               `json:"removed_count"`
	Keys         []RemoveKeyResult `json:"keys"`
}

// BookmarkRequest toggles the bookmark on one URL of a cached song.
type BookmarkRequest struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	URL    string `json:"url"`
}

// BookmarkResponse carries the new bookmark state.
type BookmarkResponse struct {
	URL        string `json:"url"`
	Bookmarked bool   `json:"bookmarked"`
}
