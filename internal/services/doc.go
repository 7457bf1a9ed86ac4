// Package services defines shared error markers and context helpers consumed by
// the cache, lookup, and HTTP layers.
//
// Key responsibilities:
//   - Context helpers that stamp request correlation identifiers and the song
//     under lookup for logging.
//   - Structured error markers plus the Wrap helper so callers classify
//     failures with errors.Is (auth, provider, cache, not found).
//   - HTTPStatus, which translates those markers into response codes.
package services
