package memory

import (
	"context"
	"testing"
	"time"

	"github.com/ringsidehq/matchfinder/internal/domain/boxer"
	"github.com/ringsidehq/matchfinder/internal/domain/ratelimit"
)

func TestBoxerRepository_ListActiveOrderingAndFilters(t *testing.T) {
	repo := NewBoxerRepository(SeedBoxers())

	items, err := repo.ListActive(context.Background(), boxer.Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, b := range items {
		if b.Status != boxer.StatusActive {
			t.Fatalf("inactive boxer returned: %s", b.ID)
		}
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].FullName() > items[i].FullName() {
			t.Fatalf("ordering broken at %d: %s > %s", i, items[i-1].FullName(), items[i].FullName())
		}
	}

	items, err = repo.ListActive(context.Background(), boxer.Filter{
		Gender:         boxer.GenderMale,
		ExcludeClubIDs: []string{ClubIDNorthside},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, b := range items {
		if b.Gender != boxer.GenderMale || b.ClubID == ClubIDNorthside {
			t.Fatalf("filter leak: %+v", b)
		}
	}
}

func TestBoxerRepository_ListByClubs(t *testing.T) {
	repo := NewBoxerRepository(SeedBoxers())

	items, err := repo.ListByClubs(context.Background(), []string{ClubIDNorthside, ClubIDRiverside})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 6 {
		t.Fatalf("roster size: got=%d want=6", len(items))
	}
	for _, b := range items {
		if b.ClubID == ClubIDSouthside {
			t.Fatalf("wrong club boxer returned: %s", b.ID)
		}
	}
}

func TestClubRepository_GetNamesByIDs(t *testing.T) {
	repo := NewClubRepository(SeedClubs())

	names, err := repo.GetNamesByIDs(context.Background(), []string{ClubIDNorthside, "unknown"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 1 || names[ClubIDNorthside] == "" {
		t.Fatalf("names: %v", names)
	}
}

func TestRateLimitStore_WindowPrunes(t *testing.T) {
	store := NewRateLimitStore()
	base := time.Date(2026, time.August, 24, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		ok, err := store.Take(context.Background(), "user-1", ratelimit.OperationFindMatch, 3, base.Add(time.Duration(i)*time.Second))
		if err != nil || !ok {
			t.Fatalf("take %d: ok=%t err=%v", i, ok, err)
		}
	}

	ok, err := store.Take(context.Background(), "user-1", ratelimit.OperationFindMatch, 3, base.Add(3*time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected fourth take inside the window to be rejected")
	}

	// Operations and users do not share windows.
	if ok, _ := store.Take(context.Background(), "user-1", ratelimit.OperationModelAssist, 3, base.Add(3*time.Second)); !ok {
		t.Fatal("model operation should have its own window")
	}
	if ok, _ := store.Take(context.Background(), "user-2", ratelimit.OperationFindMatch, 3, base.Add(3*time.Second)); !ok {
		t.Fatal("second user should have their own window")
	}

	// Once the first timestamps age out, capacity returns.
	if ok, _ := store.Take(context.Background(), "user-1", ratelimit.OperationFindMatch, 3, base.Add(61*time.Second)); !ok {
		t.Fatal("expected take after window expiry to succeed")
	}
}
