package service

import (
	"sync"
	"time"
)

type rateLimitKey struct {
	userID  int64
	command string
}

// CommandRateLimiter rejects repeated invocations of the same command by
// the same user within a cooldown window. State lives in process memory
// only and resets on restart.
type CommandRateLimiter struct {
	mu       sync.Mutex
	cooldown time.Duration
	last     map[rateLimitKey]time.Time
	now      func() time.Time
}

// NewCommandRateLimiter creates a rate limiter with the given cooldown
func NewCommandRateLimiter(cooldown time.Duration) *CommandRateLimiter {
	return &CommandRateLimiter{
		cooldown: cooldown,
		last:     make(map[rateLimitKey]time.Time),
		now:      time.Now,
	}
}

// Allow reports whether the user may run the command now. An accepted call
// starts a new cooldown window; a rejected call leaves the window
// untouched, so the next acceptance is still measured from the last
// accepted call.
func (l *CommandRateLimiter) Allow(userID int64, command string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := rateLimitKey{userID: userID, command: command}
	now := l.now()

	if last, ok := l.last[key]; ok && now.Sub(last) < l.cooldown {
		return false
	}

	l.last[key] = now
	return true
}
