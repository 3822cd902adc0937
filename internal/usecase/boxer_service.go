package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ringsidehq/matchfinder/internal/domain/boxer"
	"github.com/ringsidehq/matchfinder/internal/domain/club"
	"github.com/ringsidehq/matchfinder/internal/domain/user"
)

const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

type SearchBoxersInput struct {
	Query          string
	Gender         string
	Category       string
	Availability   string
	WeightMin      *float64
	WeightMax      *float64
	IncludeOwnClub bool
	Limit          int
	Offset         int
}

type SearchBoxersOutput struct {
	Boxers []boxer.Boxer
	// ClubNames carries display names for the clubs on the returned
	// page, keyed by club id.
	ClubNames map[string]string
	Total     int
	HasMore   bool
}

// BoxerService covers the roster read paths: directory search with
// filters and the single-boxer lookup.
type BoxerService struct {
	boxerRepo boxer.Repository
	clubRepo  club.Repository
}

func NewBoxerService(boxerRepo boxer.Repository, clubRepo club.Repository) *BoxerService {
	return &BoxerService{
		boxerRepo: boxerRepo,
		clubRepo:  clubRepo,
	}
}

// SearchBoxers lists active boxers across all clubs. A query narrows
// the list with the same fuzzy name matching the intent parsers use.
func (s *BoxerService) SearchBoxers(ctx context.Context, principal user.Principal, input SearchBoxersInput) (SearchBoxersOutput, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoxerService.SearchBoxers")
	defer span.End()

	if principal.UserID == "" {
		return SearchBoxersOutput{}, fmt.Errorf("%w: missing principal", ErrUnauthorized)
	}

	filter, err := searchFilter(input)
	if err != nil {
		return SearchBoxersOutput{}, err
	}
	if !input.IncludeOwnClub {
		filter.ExcludeClubIDs = principal.ClubIDs
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}
	offset := input.Offset
	if offset < 0 {
		return SearchBoxersOutput{}, fmt.Errorf("%w: offset must not be negative", ErrInvalidInput)
	}
	if input.WeightMin != nil && *input.WeightMin < 0 {
		return SearchBoxersOutput{}, fmt.Errorf("%w: weightMin must not be negative", ErrInvalidInput)
	}
	if input.WeightMin != nil && input.WeightMax != nil && *input.WeightMax < *input.WeightMin {
		return SearchBoxersOutput{}, fmt.Errorf("%w: weightMax is below weightMin", ErrInvalidInput)
	}

	items, err := s.boxerRepo.ListActive(ctx, filter)
	if err != nil {
		return SearchBoxersOutput{}, fmt.Errorf("list boxers: %w", err)
	}

	// Weight range is applied in memory; the store contract only
	// promises equality filters.
	if input.WeightMin != nil || input.WeightMax != nil {
		kept := make([]boxer.Boxer, 0, len(items))
		for _, b := range items {
			if input.WeightMin != nil && b.WeightKG < *input.WeightMin {
				continue
			}
			if input.WeightMax != nil && b.WeightKG > *input.WeightMax {
				continue
			}
			kept = append(kept, b)
		}
		items = kept
	}

	if query := strings.TrimSpace(input.Query); query != "" {
		matches := boxer.MatchName(query, items, boxer.DefaultNameMatchThreshold)
		items = make([]boxer.Boxer, 0, len(matches))
		for _, m := range matches {
			items = append(items, m.Boxer)
		}
	}

	output := SearchBoxersOutput{Total: len(items)}
	if offset >= len(items) {
		return output, nil
	}
	items = items[offset:]
	output.HasMore = len(items) > limit
	if len(items) > limit {
		items = items[:limit]
	}
	output.Boxers = items
	output.ClubNames = s.clubNamesFor(ctx, items)

	return output, nil
}

// clubNamesFor is best effort: a failed lookup returns an empty map and
// the page goes out without display names.
func (s *BoxerService) clubNamesFor(ctx context.Context, items []boxer.Boxer) map[string]string {
	if len(items) == 0 {
		return nil
	}

	seen := map[string]bool{}
	ids := make([]string, 0, len(items))
	for _, b := range items {
		if !seen[b.ClubID] {
			seen[b.ClubID] = true
			ids = append(ids, b.ClubID)
		}
	}

	names, err := s.clubRepo.GetNamesByIDs(ctx, ids)
	if err != nil {
		return nil
	}
	return names
}

type BoxerDetail struct {
	Boxer    boxer.Boxer
	ClubName string
	Age      int
}

// GetBoxer returns a single boxer with the club name resolved.
func (s *BoxerService) GetBoxer(ctx context.Context, principal user.Principal, boxerID string) (BoxerDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoxerService.GetBoxer")
	defer span.End()

	if principal.UserID == "" {
		return BoxerDetail{}, fmt.Errorf("%w: missing principal", ErrUnauthorized)
	}
	boxerID = strings.TrimSpace(boxerID)
	if boxerID == "" {
		return BoxerDetail{}, fmt.Errorf("%w: boxer id is required", ErrInvalidInput)
	}

	b, found, err := s.boxerRepo.GetByID(ctx, boxerID)
	if err != nil {
		return BoxerDetail{}, fmt.Errorf("get boxer: %w", err)
	}
	if !found {
		return BoxerDetail{}, fmt.Errorf("%w: boxer=%s", ErrNotFound, boxerID)
	}

	detail := BoxerDetail{
		Boxer: b,
		Age:   b.AgeAt(time.Now().UTC()),
	}

	names, err := s.clubRepo.GetNamesByIDs(ctx, []string{b.ClubID})
	if err == nil {
		detail.ClubName = names[b.ClubID]
	}

	return detail, nil
}

func searchFilter(input SearchBoxersInput) (boxer.Filter, error) {
	filter := boxer.Filter{}

	switch gender := boxer.Gender(strings.ToLower(strings.TrimSpace(input.Gender))); gender {
	case "", boxer.GenderMale, boxer.GenderFemale:
		filter.Gender = gender
	default:
		return boxer.Filter{}, fmt.Errorf("%w: unknown gender %q", ErrInvalidInput, input.Gender)
	}

	switch category := boxer.Category(strings.ToLower(strings.TrimSpace(input.Category))); category {
	case "", boxer.CategoryJunior, boxer.CategoryYouth, boxer.CategoryElite:
		filter.Category = category
	default:
		return boxer.Filter{}, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, input.Category)
	}

	switch availability := boxer.Availability(strings.ToLower(strings.TrimSpace(input.Availability))); availability {
	case "", boxer.AvailabilityAvailable, boxer.AvailabilityUnavailable, boxer.AvailabilityInjured:
		filter.Availability = availability
	default:
		return boxer.Filter{}, fmt.Errorf("%w: unknown availability %q", ErrInvalidInput, input.Availability)
	}

	return filter, nil
}
