// Package lyrics finds web pages offering lyrics and translations for a
// song.
//
// A Finder consults the search cache first. On a miss it queries the
// configured search providers in priority order, falling through whenever a
// provider fails or yields nothing usable, then annotates the results with
// the matching preferred source and writes them back to the cache.
package lyrics
