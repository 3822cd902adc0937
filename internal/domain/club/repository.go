package club

import "context"

// Repository describes club lookup needs from use cases.
type Repository interface {
	// GetNamesByIDs resolves display names for a batch of club ids.
	// Unknown ids are simply absent from the result.
	GetNamesByIDs(ctx context.Context, clubIDs []string) (map[string]string, error)
}
