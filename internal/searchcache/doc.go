// Package searchcache persists lyrics search results per song so repeated
// lookups do not spend search quota.
//
// Entries are keyed by the case-folded (title, artist) pair and hold the
// candidate list in provider order, the fetch timestamp, and a per-URL
// bookmark map. An entry whose age reaches the expiration horizon (30 days by
// default, `cache.expiration_days`) is treated as absent: Get evicts it and
// SweepExpired removes all of them at startup, unless the preserve bookmark
// policy is active.
//
// Three backends implement Backend:
//
//	json    single document written atomically, guarded by a .lock file
//	sqlite  one row per key, replaced in a single transaction
//	memory  process-local, for tests and throwaway runs
//
// The JSON document is versioned:
//
//	{"schema_version": 2, "entries": {"numb_linkin park": {"candidates": [...], "fetched_at": "...", "bookmarks": {}}}}
//
// Files written by older releases, where each key maps to a positional
// [candidates, timestamp] or [candidates, timestamp, bookmarks] record, are
// still readable and are rewritten in the current layout on the next save.
//
// CLI commands (see `spotlyric cache --help`):
//
//	spotlyric cache list          # list cached songs
//	spotlyric cache show <n>      # show one entry's candidates
//	spotlyric cache remove <n>    # delete one entry
//	spotlyric cache sweep         # drop expired entries
//	spotlyric cache clear         # drop everything
package searchcache
