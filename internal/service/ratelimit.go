package service

import (
	"sync"
	"time"
)

// AttemptLimiter is a simple in-memory per-key limiter bounding repeated
// attempts within a fixed time window. It is safe for concurrent use and
// non-persistent: it offers UX friction, not real protection, and the
// remote service enforces its own limits. Stale records are cleaned up
// by a background goroutine.
type AttemptLimiter struct {
	mu          sync.Mutex
	records     map[string]*attemptRecord
	maxAttempts int
	window      time.Duration
}

type attemptRecord struct {
	count       int
	windowStart time.Time
}

// NewAttemptLimiter creates a limiter allowing up to maxAttempts per key
// within each window.
func NewAttemptLimiter(maxAttempts int, window time.Duration) *AttemptLimiter {
	l := &AttemptLimiter{
		records:     make(map[string]*attemptRecord),
		maxAttempts: maxAttempts,
		window:      window,
	}
	go l.cleanup()
	return l
}

// Allow records an attempt for key and reports whether it is permitted.
// A missing or expired record starts a fresh window with count 1; once
// the count reaches the maximum, further attempts in the same window are
// denied without being counted.
func (l *AttemptLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	rec, ok := l.records[key]
	if !ok || now.Sub(rec.windowStart) > l.window {
		l.records[key] = &attemptRecord{count: 1, windowStart: now}
		return true
	}

	if rec.count >= l.maxAttempts {
		return false
	}
	rec.count++
	return true
}

// Reset discards the record for key; the next attempt is allowed
// regardless of prior count.
func (l *AttemptLimiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.records, key)
}

// cleanup runs periodically and removes records whose window has long expired.
func (l *AttemptLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		l.mu.Lock()
		for key, rec := range l.records {
			if time.Since(rec.windowStart) > 2*l.window {
				delete(l.records, key)
			}
		}
		l.mu.Unlock()
	}
}
