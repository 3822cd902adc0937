package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	qb "github.com/ringsidehq/matchfinder/internal/platform/querybuilder"
)

type ClubRepository struct {
	db *sqlx.DB
}

func NewClubRepository(db *sqlx.DB) *ClubRepository {
	return &ClubRepository{db: db}
}

func (r *ClubRepository) GetNamesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	query, args, err := qb.Select("public_id", "name").From("clubs").
		Where(
			qb.In("public_id", stringSliceToAny(ids)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select club names query: %w", err)
	}

	var rows []struct {
		PublicID string `db:"public_id"`
		Name     string `db:"name"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select club names: %w", err)
	}

	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.PublicID] = row.Name
	}

	return out, nil
}
