package searchcache

import (
	"maps"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Candidate is one normalized search result that may offer lyrics or a
// translation for a song.
type Candidate struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Source string `json:"source,omitempty"` // matched preferred source, empty when none
}

// Entry is the cached lookup result for a single song.
type Entry struct {
	Candidates []Candidate     `json:"candidates"`
	FetchedAt  time.Time       `json:"fetched_at"`
	Bookmarks  map[string]bool `json:"bookmarks"`
}

// Age reports how long ago the entry was fetched.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.FetchedAt)
}

// Expired reports whether the entry has reached the expiration horizon.
func (e Entry) Expired(now time.Time, horizon time.Duration) bool {
	return e.Age(now) >= horizon
}

func (e Entry) clone() Entry {
	out := Entry{
		Candidates: append([]Candidate(nil), e.Candidates...),
		FetchedAt:  e.FetchedAt,
		Bookmarks:  maps.Clone(e.Bookmarks),
	}
	if out.Candidates == nil {
		out.Candidates = []Candidate{}
	}
	if out.Bookmarks == nil {
		out.Bookmarks = map[string]bool{}
	}
	return out
}

// Key derives the cache key for a song. Title and artist are trimmed and
// case-folded so pairs that differ only in case share an entry.
func Key(title, artist string) string {
	fold := cases.Fold()
	return fold.String(strings.TrimSpace(title)) + "_" + fold.String(strings.TrimSpace(artist))
}
