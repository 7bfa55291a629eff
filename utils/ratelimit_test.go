package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_SlidingWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.Equal(t, 2, rl.Limit())
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.Equal(t, 1, rl.Remaining("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.Equal(t, 0, rl.Remaining("1.2.3.4"))
	assert.Equal(t, now.Add(time.Minute), rl.ResetAt("1.2.3.4"))

	// Другой ключ считается отдельно
	assert.True(t, rl.Allow("5.6.7.8"))

	now = now.Add(time.Minute + time.Second)
	assert.True(t, rl.Allow("1.2.3.4"), "old requests leave the window")
	assert.Equal(t, 1, rl.Remaining("1.2.3.4"))

	rl.Reset("1.2.3.4")
	assert.Equal(t, 2, rl.Remaining("1.2.3.4"))
	assert.Equal(t, now, rl.ResetAt("1.2.3.4"))
}
