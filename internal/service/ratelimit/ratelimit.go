package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a per-user sliding window rate limiter. Constructed once and
// shared through the bot, never a package-level map.
type Limiter struct {
	mu       sync.Mutex
	window   time.Duration
	requests int
	seen     map[int64][]time.Time
	now      func() time.Time
}

func NewLimiter(requests int, window time.Duration) *Limiter {
	return &Limiter{
		window:   window,
		requests: requests,
		seen:     map[int64][]time.Time{},
		now:      time.Now,
	}
}

// Allow records one request for the user and reports whether it fits in
// the window.
func (l *Limiter) Allow(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	recent := l.seen[userID][:0]
	for _, at := range l.seen[userID] {
		if at.After(cutoff) {
			recent = append(recent, at)
		}
	}

	if len(recent) >= l.requests {
		l.seen[userID] = recent
		return false
	}

	l.seen[userID] = append(recent, now)
	return true
}
