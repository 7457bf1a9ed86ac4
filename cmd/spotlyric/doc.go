// Command spotlyric shows the song playing on Spotify next to pages offering
// its lyrics and translations.
//
// `spotlyric serve` runs the web page and JSON endpoints. The remaining
// commands work on the same cache and configuration from the terminal:
// lookup and bookmark songs, inspect or prune the cache, list preferred
// sources, log in to Spotify, and show what is playing right now.
package main
