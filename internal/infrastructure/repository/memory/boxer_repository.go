package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ringsidehq/matchfinder/internal/domain/boxer"
)

type BoxerRepository struct {
	mu      sync.RWMutex
	boxers  []boxer.Boxer
	byID    map[string]boxer.Boxer
	byClub  map[string][]boxer.Boxer
}

func NewBoxerRepository(boxers []boxer.Boxer) *BoxerRepository {
	byID := make(map[string]boxer.Boxer, len(boxers))
	byClub := make(map[string][]boxer.Boxer)

	ordered := make([]boxer.Boxer, len(boxers))
	copy(ordered, boxers)
	sortBoxers(ordered)

	for _, b := range ordered {
		byID[b.ID] = b
		byClub[b.ClubID] = append(byClub[b.ClubID], b)
	}

	return &BoxerRepository{
		boxers: ordered,
		byID:   byID,
		byClub: byClub,
	}
}

// ListActive returns active boxers matching the filter, ordered by
// (name, id) so repeated calls rank ties identically.
func (r *BoxerRepository) ListActive(_ context.Context, filter boxer.Filter) ([]boxer.Boxer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	excluded := make(map[string]bool, len(filter.ExcludeClubIDs))
	for _, id := range filter.ExcludeClubIDs {
		excluded[id] = true
	}

	out := make([]boxer.Boxer, 0, len(r.boxers))
	for _, b := range r.boxers {
		if b.Status != boxer.StatusActive || excluded[b.ClubID] {
			continue
		}
		if filter.Gender != "" && b.Gender != filter.Gender {
			continue
		}
		if filter.Category != "" && b.Category != filter.Category {
			continue
		}
		if filter.Availability != "" && b.Availability != filter.Availability {
			continue
		}
		out = append(out, b)
	}

	return out, nil
}

func (r *BoxerRepository) GetByID(_ context.Context, id string) (boxer.Boxer, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	return b, ok, nil
}

func (r *BoxerRepository) ListByClubs(_ context.Context, clubIDs []string) ([]boxer.Boxer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]boxer.Boxer, 0)
	for _, clubID := range clubIDs {
		out = append(out, r.byClub[clubID]...)
	}
	sortBoxers(out)

	return out, nil
}

func sortBoxers(items []boxer.Boxer) {
	sort.SliceStable(items, func(i, j int) bool {
		a := strings.ToLower(items[i].FullName())
		b := strings.ToLower(items[j].FullName())
		if a != b {
			return a < b
		}
		return items[i].ID < items[j].ID
	})
}
