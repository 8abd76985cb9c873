package ratelimiter

import (
	"math"
	"sync"
	"time"
)

var _ Limiter = &SlidingWindow{}

// SlidingWindow is an in-memory sliding-window rate limiter. It keeps the
// timestamps of admitted requests per client and counts those inside the
// trailing window, so a burst straddling a bucket boundary can never see
// double the limit the way a fixed-window counter would. Stored history per
// client never grows past the limit itself.
type SlidingWindow struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
}

// NewSlidingWindow creates a limiter admitting at most limit requests per
// client within any trailing window.
func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	return NewSlidingWindowWithClock(limit, window, time.Now)
}

// NewSlidingWindowWithClock is NewSlidingWindow with an injected clock,
// so tests can drive time deterministically.
func NewSlidingWindowWithClock(limit int, window time.Duration, now func() time.Time) *SlidingWindow {
	return &SlidingWindow{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      now,
	}
}

// Limit returns the configured per-window maximum.
func (s *SlidingWindow) Limit() int {
	return s.limit
}

// Window returns the configured window length.
func (s *SlidingWindow) Window() time.Duration {
	return s.window
}

// Check purges the client's expired timestamps, then either records the
// request and admits it, or denies it with a wait hint. The purge, count
// and append all happen under one lock so two concurrent callers can never
// both observe a free slot and jointly exceed the limit.
func (s *SlidingWindow) Check(clientID string) Decision {
	now := s.now()
	windowStart := now.Add(-s.window)

	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.requests[clientID]

	// drop everything at or before the window start; entries are appended
	// in order, so the survivors are a suffix
	kept := 0
	for kept < len(history) && !history[kept].After(windowStart) {
		kept++
	}
	history = history[kept:]

	count := len(history)

	// when the oldest counted request expires the window frees a slot; with
	// no history the window is nominally full period away
	resetAt := now.Add(s.window)
	if count > 0 {
		resetAt = history[0].Add(s.window)
	}

	if count >= s.limit {
		s.requests[clientID] = history
		retryAfter := int(math.Ceil(resetAt.Sub(now).Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		return Decision{
			Allowed:    false,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: retryAfter,
		}
	}

	s.requests[clientID] = append(history, now)

	return Decision{
		Allowed:   true,
		Remaining: s.limit - count - 1,
		ResetAt:   resetAt,
	}
}

// Reset forgets one client's history.
func (s *SlidingWindow) Reset(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.requests, clientID)
}

// ResetAll forgets every client.
func (s *SlidingWindow) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = make(map[string][]time.Time)
}
