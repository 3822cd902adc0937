package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ringsidehq/matchfinder/internal/domain/ratelimit"
)

// RateLimitStore keeps sliding windows in process memory. Single
// process only; deployments with several replicas need the postgres
// store so all replicas share one window.
type RateLimitStore struct {
	mu      sync.Mutex
	windows map[string][]time.Time
}

func NewRateLimitStore() *RateLimitStore {
	return &RateLimitStore{windows: make(map[string][]time.Time)}
}

// Take prunes the window, rejects if the limit is already spent and
// appends the new timestamp otherwise, all under one lock.
func (r *RateLimitStore) Take(_ context.Context, userID string, op ratelimit.Operation, limit int, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := userID + "/" + string(op)
	cutoff := now.Add(-ratelimit.Window)

	kept := r.windows[key][:0]
	for _, ts := range r.windows[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= limit {
		r.windows[key] = kept
		return false, nil
	}

	r.windows[key] = append(kept, now)
	return true, nil
}
