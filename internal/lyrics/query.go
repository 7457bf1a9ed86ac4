package lyrics

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BuildQuery returns the search query for a song.
func BuildQuery(title, artist string) string {
	return strings.TrimSpace(title) + " " + strings.TrimSpace(artist) + " lyrics translation"
}

// SongLabel formats a song for logs and display.
func SongLabel(title, artist string) string {
	title = strings.TrimSpace(title)
	artist = strings.TrimSpace(artist)
	if artist == "" {
		return title
	}
	return title + " - " + artist
}

// TitleFromURL derives a display title from the last path segment of link,
// e.g. "https://example.com/shape-of-you-lyrics" becomes
// "Shape Of You Lyrics". A trailing .html, .htm or .php extension is dropped
// and underscores split words like hyphens. The host is used when the path is
// empty.
func TitleFromURL(link string) string {
	parsed, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return link
	}
	segment := path.Base(strings.TrimRight(parsed.Path, "/"))
	if segment == "." || segment == "/" || segment == "" {
		return parsed.Hostname()
	}
	if unescaped, err := url.PathUnescape(segment); err == nil {
		segment = unescaped
	}
	if ext := path.Ext(segment); ext == ".html" || ext == ".htm" || ext == ".php" {
		segment = strings.TrimSuffix(segment, ext)
	}
	segment = strings.Join(strings.Fields(strings.NewReplacer("-", " ", "_", " ").Replace(segment)), " ")
	if segment == "" {
		return parsed.Hostname()
	}
	return cases.Title(language.Und).String(segment)
}
