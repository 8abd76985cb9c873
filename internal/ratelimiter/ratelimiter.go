package ratelimiter

import "time"

// Decision is the result of a single admission check.
type Decision struct {
	// Allowed reports whether the request may proceed.
	Allowed bool
	// Remaining is how many more requests the client may send in the
	// current window after this check.
	Remaining int
	// ResetAt is when the oldest counted request falls out of the window.
	ResetAt time.Time
	// RetryAfter is the wait hint in seconds, set only when the request
	// was denied. It is never less than 1.
	RetryAfter int
}

// Limiter decides whether a request from a given client may proceed.
// Implementations must be safe for concurrent use.
type Limiter interface {
	// Check records and admits, or counts and denies, one request for
	// clientID. It always returns a decision and never fails.
	Check(clientID string) Decision
	// Reset forgets one client's history. Unknown ids are a no-op.
	Reset(clientID string)
	// ResetAll forgets every client. Intended for tests and
	// administrative use, not the request path.
	ResetAll()
}
