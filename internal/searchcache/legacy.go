package searchcache

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Timestamps in positional records carry no zone; they were written in the
// host's local time.
var legacyTimestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// decodeLegacy reads the positional layout where every key maps to
// [candidates, fetched_at] or [candidates, fetched_at, bookmarks].
func decodeLegacy(raw map[string]json.RawMessage) (map[string]Entry, error) {
	entries := make(map[string]Entry, len(raw))
	for key, value := range raw {
		var parts []json.RawMessage
		if err := json.Unmarshal(value, &parts); err != nil {
			return nil, fmt.Errorf("entry %q: %w", key, err)
		}
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("entry %q: expected 2 or 3 fields, got %d", key, len(parts))
		}

		var entry Entry
		if err := json.Unmarshal(parts[0], &entry.Candidates); err != nil {
			return nil, fmt.Errorf("entry %q candidates: %w", key, err)
		}
		var stamp string
		if err := json.Unmarshal(parts[1], &stamp); err != nil {
			return nil, fmt.Errorf("entry %q timestamp: %w", key, err)
		}
		fetchedAt, err := parseLegacyTimestamp(stamp)
		if err != nil {
			return nil, fmt.Errorf("entry %q timestamp: %w", key, err)
		}
		entry.FetchedAt = fetchedAt
		if len(parts) == 3 {
			if err := json.Unmarshal(parts[2], &entry.Bookmarks); err != nil {
				return nil, fmt.Errorf("entry %q bookmarks: %w", key, err)
			}
		}
		entries[key] = entry.clone()
	}
	return entries, nil
}

func parseLegacyTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range legacyTimestampLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
