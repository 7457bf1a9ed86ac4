// Package server hosts the browser page and JSON endpoints.
//
// Routes:
//
//	GET    /                 polling page (embedded)
//	GET    /login            {"auth_url": ...}
//	GET    /callback         OAuth redirect target; stores the token in the browser
//	GET    /current-song     current track plus lyrics sources
//	POST   /bookmark         toggle a bookmark on a cached source
//	GET    /healthz          liveness
//	GET    /api/cache        cache listing (bearer token when configured)
//	GET    /api/cache/{key}  one cached song
//	DELETE /api/cache/{key}  remove one cached song
//	POST   /api/cache/sweep  remove expired entries
package server
