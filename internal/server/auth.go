package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"sync"
	"time"
)

// authMiddleware returns a middleware that validates bearer tokens.
// If token is empty, no authentication is required and all requests pass through.
func authMiddleware(token string, next http.HandlerFunc) http.HandlerFunc {
	if token == "" {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		if subtle.ConstantTimeCompare([]byte(strings.TrimPrefix(auth, "Bearer ")), []byte(token)) != 1 {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

const stateTTL = 10 * time.Minute

// stateStore remembers OAuth state values issued by /login until the
// callback consumes them.
type stateStore struct {
	mu     sync.Mutex
	issued map[string]time.Time
	now    func() time.Time
}

func newStateStore() *stateStore {
	return &stateStore{issued: map[string]time.Time{}, now: time.Now}
}

func (s *stateStore) add(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for key, issued := range s.issued {
		if now.Sub(issued) > stateTTL {
			delete(s.issued, key)
		}
	}
	s.issued[state] = now
}

// consume reports whether state was issued recently and forgets it.
func (s *stateStore) consume(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	issued, ok := s.issued[state]
	if !ok {
		return false
	}
	delete(s.issued, state)
	return s.now().Sub(issued) <= stateTTL
}
