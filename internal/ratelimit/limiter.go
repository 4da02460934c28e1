package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// SessionLimiter keeps one token bucket per session key. It backs up the
// checkout processing flag so a stuck client cannot hammer the payment
// gateway.
type SessionLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	defaults Config
}

type Config struct {
	AttemptsPerSecond float64
	Burst             int
}

// DefaultConfig allows a burst of 3 attempts, refilling one every 2 seconds.
func DefaultConfig() Config {
	return Config{
		AttemptsPerSecond: 0.5,
		Burst:             3,
	}
}

func NewSessionLimiter(config Config) *SessionLimiter {
	return &SessionLimiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: config,
	}
}

func NewSessionLimiterWithDefaults() *SessionLimiter {
	return NewSessionLimiter(DefaultConfig())
}

// Allow reports whether the session may make another attempt right now.
func (l *SessionLimiter) Allow(sessionID string) bool {
	l.mu.Lock()
	limiter, exists := l.limiters[sessionID]
	if !exists {
		limiter = rate.NewLimiter(rate.Limit(l.defaults.AttemptsPerSecond), l.defaults.Burst)
		l.limiters[sessionID] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}

// Forget drops the bucket for a finished session.
func (l *SessionLimiter) Forget(sessionID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.limiters, sessionID)
}
