package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ringsidehq/matchfinder/internal/domain/boxer"
	"github.com/ringsidehq/matchfinder/internal/domain/match"
	"github.com/ringsidehq/matchfinder/internal/domain/ratelimit"
	"github.com/ringsidehq/matchfinder/internal/domain/user"
	"github.com/ringsidehq/matchfinder/internal/platform/logging"
)

// slidingLimitStore is a real in-memory sliding window, used where the
// tests care about actual counting.
type slidingLimitStore struct {
	mu     sync.Mutex
	events map[string][]time.Time
}

func newSlidingLimitStore() *slidingLimitStore {
	return &slidingLimitStore{events: map[string][]time.Time{}}
}

func (s *slidingLimitStore) Take(_ context.Context, userID string, op ratelimit.Operation, limit int, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := userID + "/" + string(op)
	cutoff := now.Add(-ratelimit.Window)
	kept := s.events[key][:0]
	for _, ts := range s.events[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= limit {
		s.events[key] = kept
		return false, nil
	}
	s.events[key] = append(kept, now)
	return true, nil
}

type stubClubRepo struct {
	names map[string]string
	err   error
}

func (s *stubClubRepo) GetNamesByIDs(_ context.Context, ids []string) (map[string]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := map[string]string{}
	for _, id := range ids {
		if name, ok := s.names[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

func matchFixture(repo *stubBoxerRepo, store ratelimit.Store) *MatchService {
	if store == nil {
		store = newSlidingLimitStore()
	}
	limiter := NewRateLimiter(store, 20, 10, logging.NewNop())
	det := testParser(repo)
	parser := NewAssistedIntentParser(nil, det, limiter, time.Second, logging.NewNop())
	explainer := NewExplanationGenerator(nil, limiter, time.Second, logging.NewNop())
	clubs := &stubClubRepo{names: map[string]string{
		"club-1": "Northside Boxing",
		"club-2": "Southside Boxing",
	}}

	svc := NewMatchService(repo, clubs, parser, limiter, explainer, logging.NewNop())
	svc.now = func() time.Time {
		return time.Date(2026, time.August, 24, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func coach() user.Principal {
	return user.Principal{UserID: "user-1", ClubIDs: []string{"club-1"}}
}

func eliteBoxer(id, clubID, first, last string, gender boxer.Gender, kg float64, bouts int) boxer.Boxer {
	b := rosterBoxer(id, clubID, first, last)
	b.ClubID = clubID
	b.Gender = gender
	b.WeightKG = kg
	b.BoutCount = bouts
	b.WinCount = bouts / 2
	return b
}

func TestFindMatch_EndToEnd(t *testing.T) {
	repo := &stubBoxerRepo{boxers: []boxer.Boxer{
		eliteBoxer("src", "club-1", "Jake", "Thompson", boxer.GenderMale, 72, 10),
		eliteBoxer("opp-1", "club-2", "Marco", "Silva", boxer.GenderMale, 73, 12),
		eliteBoxer("opp-2", "club-2", "Ana", "Reyes", boxer.GenderFemale, 72, 10),
	}}
	svc := matchFixture(repo, nil)

	out, err := svc.FindMatch(context.Background(), coach(), FindMatchInput{
		Query: "Find a match for Jake, 72kg",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Source == nil || out.Source.ID != "src" {
		t.Fatalf("source: got=%+v want src", out.Source)
	}
	if out.Total != 2 {
		t.Fatalf("total: got=%d want=2", out.Total)
	}
	if out.Filtered != 1 {
		t.Fatalf("filtered: got=%d want=1", out.Filtered)
	}
	if len(out.Matches) != 1 || out.Matches[0].Boxer.ID != "opp-1" {
		t.Fatalf("matches: got=%+v want opp-1", out.Matches)
	}
	if !out.Matches[0].Compliance.IsCompliant {
		t.Fatal("expected compliant match")
	}
	if out.Matches[0].ClubName != "Southside Boxing" {
		t.Fatalf("club name: got=%q", out.Matches[0].ClubName)
	}
	if out.Explanation == "" {
		t.Fatal("expected explanation")
	}
	if out.Intent.SourceBoxerID != "src" || out.Intent.Confidence != match.ConfidenceHigh {
		t.Fatalf("intent: %+v", out.Intent)
	}
}

func TestFindMatch_GeneralLimitTwentyPerMinute(t *testing.T) {
	repo := &stubBoxerRepo{boxers: []boxer.Boxer{
		eliteBoxer("src", "club-1", "Jake", "Thompson", boxer.GenderMale, 72, 10),
	}}
	svc := matchFixture(repo, nil)
	input := FindMatchInput{Query: "Find a match for Jake", SkipExplanation: true}

	for i := 0; i < 20; i++ {
		if _, err := svc.FindMatch(context.Background(), coach(), input); err != nil {
			t.Fatalf("request %d: unexpected error %v", i+1, err)
		}
	}

	_, err := svc.FindMatch(context.Background(), coach(), input)
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("21st request: got=%v want ErrRateLimited", err)
	}
}

func TestFindMatch_RequiresClubAffiliation(t *testing.T) {
	svc := matchFixture(&stubBoxerRepo{}, nil)

	_, err := svc.FindMatch(context.Background(), user.Principal{UserID: "user-1"}, FindMatchInput{Query: "Find a match for Jake"})
	if !errors.Is(err, ErrNoClubAffiliation) {
		t.Fatalf("got=%v want ErrNoClubAffiliation", err)
	}
}

func TestFindMatch_EmptyQueryRejected(t *testing.T) {
	svc := matchFixture(&stubBoxerRepo{}, nil)

	_, err := svc.FindMatch(context.Background(), coach(), FindMatchInput{Query: "   "})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got=%v want ErrInvalidInput", err)
	}
}

func TestFindMatch_ExplicitBoxerID(t *testing.T) {
	repo := &stubBoxerRepo{boxers: []boxer.Boxer{
		eliteBoxer("src", "club-1", "Jake", "Thompson", boxer.GenderMale, 72, 10),
		eliteBoxer("opp-1", "club-2", "Marco", "Silva", boxer.GenderMale, 72, 10),
	}}
	svc := matchFixture(repo, nil)

	out, err := svc.FindMatch(context.Background(), coach(), FindMatchInput{
		Query:   "around 72kg",
		BoxerID: "src",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Intent.SourceBoxerID != "src" || out.Intent.Confidence != match.ConfidenceHigh {
		t.Fatalf("intent: %+v", out.Intent)
	}
	if len(out.Matches) != 1 {
		t.Fatalf("matches: got=%d want=1", len(out.Matches))
	}
}

func TestFindMatch_ForeignBoxerIDReadsAsNotFound(t *testing.T) {
	repo := &stubBoxerRepo{boxers: []boxer.Boxer{
		eliteBoxer("other", "club-2", "Marco", "Silva", boxer.GenderMale, 72, 10),
	}}
	svc := matchFixture(repo, nil)

	for _, id := range []string{"other", "missing"} {
		_, err := svc.FindMatch(context.Background(), coach(), FindMatchInput{Query: "72kg", BoxerID: id})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("boxerId=%s: got=%v want ErrNotFound", id, err)
		}
	}
}

func TestFindMatch_UnresolvedIntentIsNotAnError(t *testing.T) {
	repo := &stubBoxerRepo{boxers: []boxer.Boxer{
		eliteBoxer("src", "club-1", "Jake", "Thompson", boxer.GenderMale, 72, 10),
	}}
	svc := matchFixture(repo, nil)

	out, err := svc.FindMatch(context.Background(), coach(), FindMatchInput{Query: "Find a match for Zorro"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Intent.Resolved() {
		t.Fatal("expected unresolved intent")
	}
	if out.Intent.Error == "" || len(out.Matches) != 0 {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestFindMatch_PaginationHardCap(t *testing.T) {
	boxers := []boxer.Boxer{
		eliteBoxer("src", "club-1", "Jake", "Thompson", boxer.GenderMale, 72, 10),
	}
	for i := 0; i < 150; i++ {
		boxers = append(boxers, eliteBoxer(
			fmt.Sprintf("opp-%03d", i), "club-2",
			"Opp", fmt.Sprintf("Number%03d", i),
			boxer.GenderMale, 72, 10,
		))
	}
	svc := matchFixture(&stubBoxerRepo{boxers: boxers}, nil)

	out, err := svc.FindMatch(context.Background(), coach(), FindMatchInput{
		Query:           "Find a match for Jake",
		Limit:           200,
		SkipExplanation: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Total != 150 {
		t.Fatalf("total: got=%d want=150", out.Total)
	}
	if len(out.Matches) != 100 {
		t.Fatalf("matches: got=%d want=100", len(out.Matches))
	}
	if !out.HasMore {
		t.Fatal("expected hasMore")
	}
	if out.Filtered != 0 {
		t.Fatalf("filtered: got=%d want=0", out.Filtered)
	}
}

func TestFindMatch_HasMoreCountsPreComplianceCandidates(t *testing.T) {
	boxers := []boxer.Boxer{
		eliteBoxer("src", "club-1", "Jake", "Thompson", boxer.GenderMale, 72, 10),
	}
	// 10 of 12 retrieved candidates are screened out by compliance, so
	// the eligible page is short of the limit while the store holds
	// more than one page of candidates.
	for i := 0; i < 10; i++ {
		boxers = append(boxers, eliteBoxer(
			fmt.Sprintf("f-%02d", i), "club-2",
			"Mia", fmt.Sprintf("Blocked%02d", i),
			boxer.GenderFemale, 72, 10,
		))
	}
	boxers = append(boxers,
		eliteBoxer("opp-1", "club-2", "Marco", "Silva", boxer.GenderMale, 72, 10),
		eliteBoxer("opp-2", "club-2", "Leo", "Costa", boxer.GenderMale, 72, 10),
	)
	svc := matchFixture(&stubBoxerRepo{boxers: boxers}, nil)

	out, err := svc.FindMatch(context.Background(), coach(), FindMatchInput{
		Query:           "Find a match for Jake",
		SkipExplanation: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Total != 12 {
		t.Fatalf("total: got=%d want=12", out.Total)
	}
	if len(out.Matches) != 2 || out.Filtered != 10 {
		t.Fatalf("matches/filtered: got=%d/%d want=2/10", len(out.Matches), out.Filtered)
	}
	if !out.HasMore {
		t.Fatal("hasMore must reflect the pre-compliance candidate count")
	}
}

func TestFindMatch_RanksByScoreDescending(t *testing.T) {
	repo := &stubBoxerRepo{boxers: []boxer.Boxer{
		eliteBoxer("src", "club-1", "Jake", "Thompson", boxer.GenderMale, 72, 10),
		eliteBoxer("opp-far", "club-2", "Aaron", "Avery", boxer.GenderMale, 74, 10),
		eliteBoxer("opp-near", "club-2", "Zane", "Zeller", boxer.GenderMale, 72, 10),
	}}
	svc := matchFixture(repo, nil)

	out, err := svc.FindMatch(context.Background(), coach(), FindMatchInput{Query: "Find a match for Jake", SkipExplanation: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Matches) != 2 {
		t.Fatalf("matches: got=%d want=2", len(out.Matches))
	}
	if out.Matches[0].Boxer.ID != "opp-near" || out.Matches[1].Boxer.ID != "opp-far" {
		t.Fatalf("order: got=%s,%s", out.Matches[0].Boxer.ID, out.Matches[1].Boxer.ID)
	}
	if out.Matches[0].Score <= out.Matches[1].Score {
		t.Fatalf("scores not descending: %d vs %d", out.Matches[0].Score, out.Matches[1].Score)
	}
}

func TestFindMatch_NotesArePlainLanguage(t *testing.T) {
	repo := &stubBoxerRepo{boxers: []boxer.Boxer{
		eliteBoxer("src", "club-1", "Jake", "Thompson", boxer.GenderMale, 72, 10),
		eliteBoxer("opp-1", "club-2", "Marco", "Silva", boxer.GenderMale, 74, 13),
	}}
	svc := matchFixture(repo, nil)

	out, err := svc.FindMatch(context.Background(), coach(), FindMatchInput{Query: "Find a match for Jake", SkipExplanation: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Matches) != 1 {
		t.Fatalf("matches: got=%d want=1", len(out.Matches))
	}
	notes := strings.Join(out.Matches[0].Notes, " | ")
	if !strings.Contains(notes, "weight difference") || !strings.Contains(notes, "age difference") {
		t.Fatalf("unexpected notes: %q", notes)
	}
}

func TestFindMatch_SkipExplanation(t *testing.T) {
	repo := &stubBoxerRepo{boxers: []boxer.Boxer{
		eliteBoxer("src", "club-1", "Jake", "Thompson", boxer.GenderMale, 72, 10),
		eliteBoxer("opp-1", "club-2", "Marco", "Silva", boxer.GenderMale, 72, 10),
	}}
	svc := matchFixture(repo, nil)

	out, err := svc.FindMatch(context.Background(), coach(), FindMatchInput{Query: "Find a match for Jake", SkipExplanation: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Explanation != "" {
		t.Fatalf("expected no explanation, got %q", out.Explanation)
	}
}

func TestFindMatch_StoreFailureIsInternal(t *testing.T) {
	svc := matchFixture(&stubBoxerRepo{}, &stubLimitStore{err: errors.New("db down")})

	_, err := svc.FindMatch(context.Background(), coach(), FindMatchInput{Query: "Find a match for Jake"})
	if err == nil || errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected internal error, got %v", err)
	}
}
