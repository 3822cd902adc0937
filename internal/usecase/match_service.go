package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/ringsidehq/matchfinder/internal/domain/boxer"
	"github.com/ringsidehq/matchfinder/internal/domain/club"
	"github.com/ringsidehq/matchfinder/internal/domain/match"
	"github.com/ringsidehq/matchfinder/internal/domain/user"
	"github.com/ringsidehq/matchfinder/internal/platform/logging"
)

const (
	DefaultFindLimit = 10
	MaxFindLimit     = 100

	// Weight pre-filter window as a multiple of the class tolerance.
	// Candidates beyond it would score zero on weight anyway.
	weightWindowMultiple = 3

	// Rosters above this size are scored on a worker pool.
	parallelEvalThreshold = 32
	evalWorkerCount       = 8
)

type FindMatchInput struct {
	Query           string
	BoxerID         string
	ShowDate        *time.Time
	Limit           int
	SkipExplanation bool
}

type FindMatchOutput struct {
	Source      *boxer.Boxer
	Matches     []match.Candidate
	Explanation string
	Intent      match.ParsedIntent
	Total       int
	Filtered    int
	HasMore     bool
}

// MatchService is the find-a-match orchestration: admission, intent
// parsing, candidate retrieval, compliance scoring, ranking and the
// final summary.
type MatchService struct {
	boxerRepo boxer.Repository
	clubRepo  club.Repository
	parser    *AssistedIntentParser
	limiter   *RateLimiter
	explainer *ExplanationGenerator
	now       func() time.Time
	logger    *logging.Logger
}

func NewMatchService(
	boxerRepo boxer.Repository,
	clubRepo club.Repository,
	parser *AssistedIntentParser,
	limiter *RateLimiter,
	explainer *ExplanationGenerator,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		boxerRepo: boxerRepo,
		clubRepo:  clubRepo,
		parser:    parser,
		limiter:   limiter,
		explainer: explainer,
		now:       time.Now,
		logger:    logger,
	}
}

// FindMatch runs the full flow. An intent the parsers could not
// resolve is not an error: the output carries the intent with its
// message and ambiguous options so the caller can follow up.
func (s *MatchService) FindMatch(ctx context.Context, principal user.Principal, input FindMatchInput) (FindMatchOutput, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.FindMatch")
	defer span.End()

	query := strings.TrimSpace(input.Query)
	if query == "" {
		return FindMatchOutput{}, fmt.Errorf("%w: query is required", ErrInvalidInput)
	}
	boxerID := strings.TrimSpace(input.BoxerID)

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultFindLimit
	}
	if limit > MaxFindLimit {
		limit = MaxFindLimit
	}

	if principal.UserID == "" {
		return FindMatchOutput{}, fmt.Errorf("%w: missing principal", ErrUnauthorized)
	}
	if !principal.HasClub() {
		return FindMatchOutput{}, fmt.Errorf("%w: user=%s", ErrNoClubAffiliation, principal.UserID)
	}

	if err := s.limiter.AdmitFindMatch(ctx, principal.UserID); err != nil {
		return FindMatchOutput{}, err
	}

	intent, err := s.resolveIntent(ctx, principal, query, boxerID)
	if err != nil {
		return FindMatchOutput{}, err
	}
	if !intent.Resolved() {
		return FindMatchOutput{Intent: intent}, nil
	}

	source, found, err := s.boxerRepo.GetByID(ctx, intent.SourceBoxerID)
	if err != nil {
		return FindMatchOutput{}, fmt.Errorf("get source boxer: %w", err)
	}
	if !found {
		return FindMatchOutput{}, fmt.Errorf("%w: boxer=%s", ErrNotFound, intent.SourceBoxerID)
	}

	ref := s.now().UTC()
	if intent.ReferenceDate != nil {
		ref = *intent.ReferenceDate
	}
	if input.ShowDate != nil {
		ref = *input.ShowDate
	}

	// Compliance does the gender/category/availability screening, so
	// excluded candidates show up in the filtered count with their
	// reasons intact. Retrieval only scopes out the caller's clubs.
	retrieved, err := s.boxerRepo.ListActive(ctx, boxer.Filter{
		ExcludeClubIDs: principal.ClubIDs,
	})
	if err != nil {
		return FindMatchOutput{}, fmt.Errorf("list candidate opponents: %w", err)
	}

	output := FindMatchOutput{
		Source: &source,
		Intent: intent,
		Total:  len(retrieved),
	}

	targetWeight := source.WeightKG
	if intent.Target.WeightKG != nil {
		targetWeight = *intent.Target.WeightKG
	}
	window := weightWindowMultiple * match.WeightToleranceKG(targetWeight)

	candidates := make([]boxer.Boxer, 0, len(retrieved))
	for _, b := range retrieved {
		if math.Abs(b.WeightKG-targetWeight) <= window {
			candidates = append(candidates, b)
		}
	}

	eligible, err := s.scoreCandidates(ctx, source, candidates, ref)
	if err != nil {
		return FindMatchOutput{}, err
	}

	// Retrieval order is (name, id), so equal scores rank
	// alphabetically and a rerun gives the same list.
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Score > eligible[j].Score
	})

	output.Filtered = output.Total - len(eligible)
	// hasMore is computed over the pre-compliance candidate count, so a
	// heavily screened page still signals that the store holds more.
	output.HasMore = limit < output.Total
	if len(eligible) > limit {
		eligible = eligible[:limit]
	}

	s.attachClubNames(ctx, eligible)
	output.Matches = eligible
	if !input.SkipExplanation {
		output.Explanation = s.explainer.Generate(ctx, principal.UserID, source, eligible, output.Total)
	}

	return output, nil
}

// resolveIntent picks between the explicit-id shortcut and the text
// parsers. An explicit id must belong to one of the caller's clubs;
// ids outside them read as not found rather than confirming the boxer
// exists elsewhere.
func (s *MatchService) resolveIntent(ctx context.Context, principal user.Principal, query, boxerID string) (match.ParsedIntent, error) {
	if boxerID == "" {
		return s.parser.Parse(ctx, query, principal.UserID, principal.ClubIDs), nil
	}

	source, found, err := s.boxerRepo.GetByID(ctx, boxerID)
	if err != nil {
		return match.ParsedIntent{}, fmt.Errorf("get source boxer: %w", err)
	}
	if !found || !containsString(principal.ClubIDs, source.ClubID) {
		return match.ParsedIntent{}, fmt.Errorf("%w: boxer=%s", ErrNotFound, boxerID)
	}

	return match.ParsedIntent{
		SourceBoxerID:   source.ID,
		SourceBoxerName: source.FullName(),
		Target:          s.parser.det.ExtractCriteria(query),
		ReferenceDate:   extractDate(query, s.now()),
		Confidence:      match.ConfidenceHigh,
		ParserUsed:      match.ParserDeterministic,
	}, nil
}

// scoreCandidates evaluates compliance for every candidate and keeps
// the eligible ones, preserving input order.
func (s *MatchService) scoreCandidates(ctx context.Context, source boxer.Boxer, candidates []boxer.Boxer, ref time.Time) ([]match.Candidate, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	results := make([]match.Result, len(candidates))
	if len(candidates) <= parallelEvalThreshold {
		for i, b := range candidates {
			results[i] = match.Evaluate(source, b, ref)
		}
	} else {
		pool, err := ants.NewPool(evalWorkerCount)
		if err != nil {
			return nil, fmt.Errorf("create scoring pool: %w", err)
		}
		defer pool.Release()

		var workers sync.WaitGroup
		for i := range candidates {
			i := i
			workers.Add(1)
			if err := pool.Submit(func() {
				defer workers.Done()
				results[i] = match.Evaluate(source, candidates[i], ref)
			}); err != nil {
				workers.Done()
				return nil, fmt.Errorf("submit scoring task: %w", err)
			}
		}
		workers.Wait()
	}

	eligible := make([]match.Candidate, 0, len(candidates))
	for i, result := range results {
		if !result.IsCompliant {
			continue
		}
		eligible = append(eligible, match.Candidate{
			Boxer:      candidates[i],
			Score:      result.Score,
			Notes:      result.Notes(),
			Compliance: result,
		})
	}

	return eligible, nil
}

// attachClubNames is best effort: a missing name never fails the
// request.
func (s *MatchService) attachClubNames(ctx context.Context, candidates []match.Candidate) {
	if len(candidates) == 0 {
		return
	}

	seen := map[string]bool{}
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if !seen[c.Boxer.ClubID] {
			seen[c.Boxer.ClubID] = true
			ids = append(ids, c.Boxer.ClubID)
		}
	}

	names, err := s.clubRepo.GetNamesByIDs(ctx, ids)
	if err != nil {
		s.logger.WarnContext(ctx, "could not load club names", "error", err)
		return
	}

	for i := range candidates {
		candidates[i].ClubName = names[candidates[i].Boxer.ClubID]
	}
}
