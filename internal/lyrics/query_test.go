package lyrics

import "testing"

func TestTitleFromURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://example.com/shape-of-you-lyrics", "Shape Of You Lyrics"},
		{"https://example.com/shape-of-you-lyrics/", "Shape Of You Lyrics"},
		{"https://lyricstranslate.com/en/despacito-translation.html", "Despacito Translation"},
		{"https://example.com/a_b-c?x=1", "A B C"},
		{"https://example.com/song-title.php", "Song Title"},
		{"https://example.com/song-title.htm#top", "Song Title"},
		{"https://example.com/", "example.com"},
		{"https://example.com/caf%C3%A9-song", "Café Song"},
	}
	for _, tc := range cases {
		if got := TitleFromURL(tc.in); got != tc.want {
			t.Fatalf("TitleFromURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildQuery(t *testing.T) {
	if got := BuildQuery(" Despacito ", "Luis Fonsi"); got != "Despacito Luis Fonsi lyrics translation" {
		t.Fatalf("unexpected query %q", got)
	}
}

func TestSongLabel(t *testing.T) {
	if got := SongLabel("Song", ""); got != "Song" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := SongLabel("Song", "Artist"); got != "Song - Artist" {
		t.Fatalf("unexpected label %q", got)
	}
}
