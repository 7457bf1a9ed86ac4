// Package api defines wire-format types and the cache administration
// service shared by the HTTP server and the CLI.
//
// CacheService wraps searchcache.Store and returns DTOs so both front ends
// render the same shapes. LookupResponse is the JSON form of a lyrics lookup
// and marks each source with its bookmark state.
//
// DTOs use snake_case JSON tags to match the browser page and the
// current-song endpoint. Timestamps use RFC3339 with milliseconds.
package api
