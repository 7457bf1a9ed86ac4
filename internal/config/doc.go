// Package config loads, normalizes, and validates spotlyric configuration.
//
// Configuration is read from TOML (~/.config/spotlyric/config.toml, or
// ./spotlyric.toml in the working directory). Secrets may instead come from
// the environment: SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET,
// SPOTIFY_REDIRECT_URI, SERPAPI_KEY, and SPOTLYRIC_API_TOKEN. A .env file is
// honored through LoadDotEnv.
//
// Create a starter file with:
//
//	spotlyric config init
//
// Relevant sections:
//
//	[cache]
//	backend = "json"          # json, sqlite, or memory
//	expiration_days = 30
//	bookmark_policy = "reset" # or "preserve"
//
//	[sources]
//	file = "~/.config/spotlyric/sources.txt"
//	filter = true             # drop results that match no source
package config
