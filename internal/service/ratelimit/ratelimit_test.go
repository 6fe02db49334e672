package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiterWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(3, time.Minute)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow(1))
	assert.True(t, l.Allow(1))
	assert.True(t, l.Allow(1))
	assert.False(t, l.Allow(1), "fourth request inside the window is refused")

	// Another user is tracked independently.
	assert.True(t, l.Allow(2))

	// The window slides, old requests expire.
	now = now.Add(61 * time.Second)
	assert.True(t, l.Allow(1))
}
