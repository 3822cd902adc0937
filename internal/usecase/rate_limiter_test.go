package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/ringsidehq/matchfinder/internal/platform/logging"
)

func TestRateLimiter_AdmitFindMatch(t *testing.T) {
	store := &stubLimitStore{allow: true}
	limiter := NewRateLimiter(store, 20, 10, logging.NewNop())

	if err := limiter.AdmitFindMatch(context.Background(), "user-1"); err != nil {
		t.Fatalf("expected admission, got %v", err)
	}

	store.allow = false
	err := limiter.AdmitFindMatch(context.Background(), "user-1")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestRateLimiter_StoreFailureBlocksAdmission(t *testing.T) {
	store := &stubLimitStore{err: errors.New("db down")}
	limiter := NewRateLimiter(store, 20, 10, logging.NewNop())

	err := limiter.AdmitFindMatch(context.Background(), "user-1")
	if err == nil {
		t.Fatal("expected store failure to propagate")
	}
	if errors.Is(err, ErrRateLimited) {
		t.Fatalf("store failure must not masquerade as rate limiting: %v", err)
	}
}

func TestRateLimiter_ModelBudgetFailsOpen(t *testing.T) {
	store := &stubLimitStore{err: errors.New("db down")}
	limiter := NewRateLimiter(store, 20, 10, logging.NewNop())

	if !limiter.AllowModelCall(context.Background(), "user-1") {
		t.Fatal("expected model budget to fail open on store error")
	}

	store.err = nil
	store.allow = false
	if limiter.AllowModelCall(context.Background(), "user-1") {
		t.Fatal("expected exhausted budget to deny")
	}
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	limiter := NewRateLimiter(&stubLimitStore{allow: true}, 0, -1, nil)
	if limiter.generalLimit != 20 || limiter.modelLimit != 10 {
		t.Fatalf("defaults: got=%d/%d want=20/10", limiter.generalLimit, limiter.modelLimit)
	}
}
