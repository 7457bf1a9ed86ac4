// Package sources loads the list of preferred lyrics and translation sites
// and matches candidate URLs against it.
//
// The list is a plain text file with one entry per line, for example:
//
//	lyricstranslate.com
//	genius.com
//	# comments and blank lines are ignored
//
// A URL matches an entry when the entry appears anywhere in the URL. Entries
// are tried in file order and the first match wins.
package sources

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// List is an ordered set of source substrings.
type List struct {
	entries []string
}

// New builds a List from literal entries, dropping blanks.
func New(entries ...string) List {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry = strings.TrimSpace(entry); entry != "" {
			out = append(out, entry)
		}
	}
	return List{entries: out}
}

// Load reads a source list from path. A missing file yields an empty list.
func Load(path string) (List, error) {
	if strings.TrimSpace(path) == "" {
		return List{}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return List{}, nil
		}
		return List{}, fmt.Errorf("open sources file: %w", err)
	}
	defer file.Close()
	list, err := Parse(file)
	if err != nil {
		return List{}, fmt.Errorf("read sources file %s: %w", path, err)
	}
	return list, nil
}

// Parse reads one entry per line from r.
func Parse(r io.Reader) (List, error) {
	var entries []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return List{}, err
	}
	return List{entries: entries}, nil
}

// Sources returns a copy of the entries in order.
func (l List) Sources() []string {
	return append([]string(nil), l.entries...)
}

// Len returns the number of entries.
func (l List) Len() int { return len(l.entries) }

// Match returns the first entry contained in url.
func (l List) Match(url string) (string, bool) {
	if url == "" {
		return "", false
	}
	for _, entry := range l.entries {
		if strings.Contains(url, entry) {
			return entry, true
		}
	}
	return "", false
}
