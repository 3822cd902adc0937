package boxer

import "context"

// Filter narrows candidate retrieval with equality filters only. Weight
// ranges are filtered in memory by the caller since the store is not
// assumed to support multi-field range queries.
type Filter struct {
	Gender         Gender
	Category       Category
	Availability   Availability
	ExcludeClubIDs []string
}

// Repository describes roster persistence needs from use cases. The
// store is read-only from the matching core's perspective.
type Repository interface {
	// ListActive returns boxers in active status matching the filter,
	// ordered deterministically (name, then id).
	ListActive(ctx context.Context, filter Filter) ([]Boxer, error)
	GetByID(ctx context.Context, boxerID string) (Boxer, bool, error)
	// ListByClubs returns the full roster across the given clubs.
	ListByClubs(ctx context.Context, clubIDs []string) ([]Boxer, error)
}
