package ratelimit

import (
	"context"
	"time"
)

// Store is the atomic counter collaborator behind the limiter. The
// single Take operation must be atomic with respect to concurrent
// requests for the same (user, operation) key; how the store achieves
// that (transaction, CAS, lock) is its own concern.
type Store interface {
	// Take prunes window entries older than Window relative to now,
	// rejects when the remaining count has reached limit, and otherwise
	// records now as a new admission. Returns whether the request was
	// admitted.
	Take(ctx context.Context, userID string, op Operation, limit int, now time.Time) (bool, error)
}
