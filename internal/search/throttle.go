package search

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

// Throttle wraps p so every call first waits delay. The wait happens only
// when a search is actually issued, so cache hits never pay for it.
func Throttle(p Provider, delay time.Duration) Provider {
	if delay <= 0 {
		return p
	}
	return &throttled{Provider: p, delay: delay}
}

type throttled struct {
	Provider
	delay time.Duration
}

func (t *throttled) Search(ctx context.Context, query string, maxResults int) ([]Hit, error) {
	if err := SleepWithContext(ctx, t.delay); err != nil {
		return nil, err
	}
	return t.Provider.Search(ctx, query, maxResults)
}

// SleepWithContext blocks for the given duration, returning early if the
// context is cancelled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsRetriable reports whether err represents a transient condition such as a
// rate limit, timeout, or upstream outage.
func IsRetriable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	message := strings.ToLower(err.Error())
	for _, token := range []string{
		"429",
		"rate limit",
		"502",
		"503",
		"504",
		"timeout",
		"connection reset",
		"connection refused",
		"temporary failure",
	} {
		if strings.Contains(message, token) {
			return true
		}
	}
	return false
}
