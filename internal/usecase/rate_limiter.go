package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ringsidehq/matchfinder/internal/domain/ratelimit"
	"github.com/ringsidehq/matchfinder/internal/platform/logging"
)

// RateLimiter enforces the two sliding-window budgets: the general
// per-user admission gate and the smaller advisory budget for external
// model calls. Window state lives in the counter store so concurrent
// processes share it; this type adds no in-process locking.
type RateLimiter struct {
	store        ratelimit.Store
	generalLimit int
	modelLimit   int
	now          func() time.Time
	logger       *logging.Logger
}

func NewRateLimiter(store ratelimit.Store, generalLimit, modelLimit int, logger *logging.Logger) *RateLimiter {
	if generalLimit <= 0 {
		generalLimit = ratelimit.DefaultGeneralLimit
	}
	if modelLimit <= 0 {
		modelLimit = ratelimit.DefaultModelLimit
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &RateLimiter{
		store:        store,
		generalLimit: generalLimit,
		modelLimit:   modelLimit,
		now:          time.Now,
		logger:       logger,
	}
}

// AdmitFindMatch is the hard admission gate. Store failures are not
// masked here; the caller surfaces them as internal errors.
func (l *RateLimiter) AdmitFindMatch(ctx context.Context, userID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RateLimiter.AdmitFindMatch")
	defer span.End()

	allowed, err := l.store.Take(ctx, userID, ratelimit.OperationFindMatch, l.generalLimit, l.now().UTC())
	if err != nil {
		return fmt.Errorf("take general rate limit token: %w", err)
	}
	if !allowed {
		return fmt.Errorf("%w: %d requests per minute", ErrRateLimited, l.generalLimit)
	}

	return nil
}

// AllowModelCall checks the advisory model budget. Exhaustion denies
// the call; infrastructure failure fails open since the deterministic
// fallback makes a skipped check harmless.
func (l *RateLimiter) AllowModelCall(ctx context.Context, userID string) bool {
	ctx, span := startUsecaseSpan(ctx, "usecase.RateLimiter.AllowModelCall")
	defer span.End()

	allowed, err := l.store.Take(ctx, userID, ratelimit.OperationModelAssist, l.modelLimit, l.now().UTC())
	if err != nil {
		l.logger.WarnContext(ctx, "model budget check failed, failing open", "user_id", userID, "error", err)
		return true
	}

	return allowed
}
