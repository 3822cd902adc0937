package memory

import (
	"context"
	"sync"

	"github.com/ringsidehq/matchfinder/internal/domain/club"
)

type ClubRepository struct {
	mu    sync.RWMutex
	clubs map[string]club.Club
}

func NewClubRepository(clubs []club.Club) *ClubRepository {
	index := make(map[string]club.Club, len(clubs))
	for _, c := range clubs {
		index[c.ID] = c
	}

	return &ClubRepository{clubs: index}
}

func (r *ClubRepository) GetNamesByIDs(_ context.Context, ids []string) (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if c, ok := r.clubs[id]; ok {
			out[id] = c.Name
		}
	}

	return out, nil
}
