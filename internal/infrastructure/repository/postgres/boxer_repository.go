package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ringsidehq/matchfinder/internal/domain/boxer"
	qb "github.com/ringsidehq/matchfinder/internal/platform/querybuilder"
)

type BoxerRepository struct {
	db *sqlx.DB
}

var boxerSelectColumns = []string{
	"id",
	"public_id",
	"club_public_id",
	"first_name",
	"last_name",
	"date_of_birth",
	"gender",
	"category",
	"weight_kg",
	"bout_count",
	"win_count",
	"loss_count",
	"availability",
	"status",
	"created_at",
	"updated_at",
	"deleted_at",
}

// Name ordering keeps equal compliance scores ranking identically
// between runs.
var boxerOrderBy = []string{"lower(first_name || ' ' || last_name)", "public_id"}

func NewBoxerRepository(db *sqlx.DB) *BoxerRepository {
	return &BoxerRepository{db: db}
}

func (r *BoxerRepository) ListActive(ctx context.Context, filter boxer.Filter) ([]boxer.Boxer, error) {
	conditions := []qb.Condition{
		qb.EqLiteral("status", string(boxer.StatusActive)),
		qb.IsNull("deleted_at"),
	}
	if filter.Gender != "" {
		conditions = append(conditions, qb.Eq("gender", string(filter.Gender)))
	}
	if filter.Category != "" {
		conditions = append(conditions, qb.Eq("category", string(filter.Category)))
	}
	if filter.Availability != "" {
		conditions = append(conditions, qb.Eq("availability", string(filter.Availability)))
	}
	if len(filter.ExcludeClubIDs) > 0 {
		conditions = append(conditions, qb.NotIn("club_public_id", stringSliceToAny(filter.ExcludeClubIDs)))
	}

	query, args, err := qb.Select(boxerSelectColumns...).From("boxers").
		Where(conditions...).
		OrderBy(boxerOrderBy...).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select active boxers query: %w", err)
	}

	var rows []boxerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select active boxers: %w", err)
	}

	return boxersFromRows(rows), nil
}

func (r *BoxerRepository) GetByID(ctx context.Context, id string) (boxer.Boxer, bool, error) {
	query, args, err := qb.Select(boxerSelectColumns...).From("boxers").
		Where(
			qb.Eq("public_id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return boxer.Boxer{}, false, fmt.Errorf("build select boxer query: %w", err)
	}

	var row boxerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return boxer.Boxer{}, false, nil
		}
		return boxer.Boxer{}, false, fmt.Errorf("select boxer: %w", err)
	}

	return boxerFromRow(row), true, nil
}

func (r *BoxerRepository) ListByClubs(ctx context.Context, clubIDs []string) ([]boxer.Boxer, error) {
	if len(clubIDs) == 0 {
		return []boxer.Boxer{}, nil
	}

	query, args, err := qb.Select(boxerSelectColumns...).From("boxers").
		Where(
			qb.In("club_public_id", stringSliceToAny(clubIDs)),
			qb.IsNull("deleted_at"),
		).
		OrderBy(boxerOrderBy...).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select boxers by clubs query: %w", err)
	}

	var rows []boxerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select boxers by clubs: %w", err)
	}

	return boxersFromRows(rows), nil
}

func boxersFromRows(rows []boxerTableModel) []boxer.Boxer {
	out := make([]boxer.Boxer, 0, len(rows))
	for _, row := range rows {
		out = append(out, boxerFromRow(row))
	}
	return out
}

func boxerFromRow(row boxerTableModel) boxer.Boxer {
	return boxer.Boxer{
		ID:           row.PublicID,
		ClubID:       row.ClubID,
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		DateOfBirth:  row.DateOfBirth,
		Gender:       boxer.Gender(row.Gender),
		Category:     boxer.Category(row.Category),
		WeightKG:     row.WeightKG,
		BoutCount:    row.BoutCount,
		WinCount:     row.WinCount,
		LossCount:    row.LossCount,
		Availability: boxer.Availability(row.Availability),
		Status:       boxer.Status(row.Status),
	}
}

func stringSliceToAny(items []string) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}
