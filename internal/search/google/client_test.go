package google

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"spotlyric/internal/services"
)

const resultsPage = `<html><body>
<a href="/search?q=next&amp;start=10">Next</a>
<a href="https://accounts.google.com/ServiceLogin">Sign in</a>
<div class="g"><a href="/url?q=https://genius.com/ed-sheeran-shape-of-you-lyrics&amp;sa=U"><h3>Ed Sheeran - Shape of You Lyrics | Genius</h3></a></div>
<div class="g"><a href="https://lyricstranslate.com/en/shape-you-lyrics.html"><h3>Shape of You (translation)</h3></a></div>
<div class="g"><a href="https://www.lyrics.com/lyric/shape-of-you"></a></div>
<a href="https://webcache.googleusercontent.com/search?q=cache:x">Cached</a>
<div class="g"><a href="/url?q=https://genius.com/ed-sheeran-shape-of-you-lyrics&amp;sa=V">dup</a></div>
</body></html>`

func TestSearchParsesOrganicLinks(t *testing.T) {
	var gotNum, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotNum = r.URL.Query().Get("num")
		gotQuery = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(resultsPage))
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL + "/search"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	hits, err := client.Search(context.Background(), "Shape of You Ed Sheeran lyrics translation", 10)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if gotNum != "10" || gotQuery != "Shape of You Ed Sheeran lyrics translation" {
		t.Fatalf("unexpected params num=%q q=%q", gotNum, gotQuery)
	}
	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %+v", hits)
	}
	if hits[0].URL != "https://genius.com/ed-sheeran-shape-of-you-lyrics" {
		t.Fatalf("expected /url redirect to be unwrapped, got %q", hits[0].URL)
	}
	if hits[0].Title != "Ed Sheeran - Shape of You Lyrics | Genius" {
		t.Fatalf("unexpected title %q", hits[0].Title)
	}
	if hits[2].Title != "" {
		t.Fatalf("expected empty title for heading-less link, got %q", hits[2].Title)
	}
}

func TestSearchBlockedIsProviderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, _ := New(Config{BaseURL: server.URL})
	if _, err := client.Search(context.Background(), "q", 10); !errors.Is(err, services.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestResolveLinkSkipsGoogleHosts(t *testing.T) {
	cases := map[string]string{
		"/url?q=https://example.com/x&sa=U": "https://example.com/x",
		"https://maps.google.com/":          "",
		"https://www.google.co.in/search":   "",
		"/search?q=more":                    "",
		"https://example.org/lyrics":        "https://example.org/lyrics",
	}
	for href, want := range cases {
		if got := resolveLink(href); got != want {
			t.Fatalf("resolveLink(%q) = %q, want %q", href, got, want)
		}
	}
}
