package api

import (
	"slices"
	"time"

	"spotlyric/internal/lyrics"
	"spotlyric/internal/searchcache"
)

// FromResult converts a lookup result into its API representation.
func FromResult(title, artist string, result lyrics.Result) LookupResponse {
	resp := LookupResponse{
		Song:      title,
		Artist:    artist,
		Sources:   FromCandidates(result.Candidates, result.Bookmarks),
		FromCache: result.FromCache,
		Provider:  result.Provider,
	}
	resp.FetchedAt = formatTime(result.FetchedAt)
	return resp
}

// FromCandidates converts cached candidates, marking bookmarked URLs.
func FromCandidates(candidates []searchcache.Candidate, bookmarks map[string]bool) []Source {
	out := make([]Source, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, Source{
			URL:        c.URL,
			Title:      c.Title,
			Site:       c.Source,
			Bookmarked: bookmarks[c.URL],
		})
	}
	return out
}

// FromListing converts a store listing row.
func FromListing(listing searchcache.Listing) CacheEntry {
	return CacheEntry{
		Key:        listing.Key,
		Sources:    listing.Candidates,
		Bookmarked: listing.Bookmarked,
		FetchedAt:  formatTime(listing.FetchedAt),
		Expired:    listing.Expired,
	}
}

// FromEntry converts a full cache entry.
func FromEntry(key string, entry searchcache.Entry, now time.Time, horizon time.Duration) CacheEntryDetail {
	detail := CacheEntryDetail{
		CacheEntry: CacheEntry{
			Key:       key,
			Sources:   len(entry.Candidates),
			FetchedAt: formatTime(entry.FetchedAt),
			Expired:   entry.Expired(now, horizon),
		},
		Items: FromCandidates(entry.Candidates, entry.Bookmarks),
	}
	listed := make(map[string]struct{}, len(entry.Candidates))
	for _, c := range entry.Candidates {
		listed[c.URL] = struct{}{}
	}
	for url, on := range entry.Bookmarks {
		if !on {
			continue
		}
		detail.Bookmarked++
		if _, ok := listed[url]; !ok {
			detail.Orphaned = append(detail.Orphaned, url)
		}
	}
	slices.Sort(detail.Orphaned)
	return detail
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
