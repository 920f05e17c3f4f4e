package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCommandRateLimiter_Allow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewCommandRateLimiter(2 * time.Second)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow(100, "start"))
	assert.False(t, limiter.Allow(100, "start"))

	now = now.Add(1 * time.Second)
	assert.False(t, limiter.Allow(100, "start"))

	now = now.Add(1 * time.Second)
	assert.True(t, limiter.Allow(100, "start"))
}

func TestCommandRateLimiter_RejectionDoesNotResetWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewCommandRateLimiter(2 * time.Second)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow(100, "start"))

	// Hammering during the window must not push the window forward
	for i := 0; i < 5; i++ {
		now = now.Add(300 * time.Millisecond)
		assert.False(t, limiter.Allow(100, "start"))
	}

	// 2s after the accepted call the command is allowed again, even though
	// the last rejected attempt was only 500ms ago
	now = now.Add(500 * time.Millisecond)
	assert.True(t, limiter.Allow(100, "start"))
}

func TestCommandRateLimiter_IndependentKeys(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewCommandRateLimiter(2 * time.Second)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow(100, "start"))
	// Different user, same command
	assert.True(t, limiter.Allow(200, "start"))
	// Same user, different command
	assert.True(t, limiter.Allow(100, "users"))
	// Original pair is still cooling down
	assert.False(t, limiter.Allow(100, "start"))
}
