package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ringsidehq/matchfinder/internal/domain/ratelimit"
)

// RateLimitStore persists sliding windows so every replica admits
// against the same counts.
type RateLimitStore struct {
	db *sqlx.DB
}

func NewRateLimitStore(db *sqlx.DB) *RateLimitStore {
	return &RateLimitStore{db: db}
}

// Take runs prune-count-append inside one transaction. A per-key
// advisory lock serializes concurrent takers of the same key, which is
// what makes the window check atomic across replicas.
func (r *RateLimitStore) Take(ctx context.Context, userID string, op ratelimit.Operation, limit int, now time.Time) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx for rate limit take: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	key := userID + "/" + string(op)
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return false, fmt.Errorf("lock rate limit window: %w", err)
	}

	cutoff := now.Add(-ratelimit.Window)
	const pruneQuery = `
DELETE FROM rate_limit_events
WHERE user_id = $1
  AND operation = $2
  AND taken_at <= $3`
	if _, err := tx.ExecContext(ctx, pruneQuery, userID, string(op), cutoff); err != nil {
		return false, fmt.Errorf("prune rate limit window: %w", err)
	}

	const countQuery = `
SELECT COUNT(*) FROM rate_limit_events
WHERE user_id = $1
  AND operation = $2`
	var used int
	if err := tx.GetContext(ctx, &used, countQuery, userID, string(op)); err != nil {
		return false, fmt.Errorf("count rate limit window: %w", err)
	}

	if used >= limit {
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("commit rate limit take: %w", err)
		}
		return false, nil
	}

	const insertQuery = `
INSERT INTO rate_limit_events (user_id, operation, taken_at)
VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, insertQuery, userID, string(op), now); err != nil {
		return false, fmt.Errorf("append rate limit event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit rate limit take: %w", err)
	}

	return true, nil
}
