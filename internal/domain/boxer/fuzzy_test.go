package boxer

import (
	"testing"
	"time"
)

func rosterForFuzzyTests() []Boxer {
	dob := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	return []Boxer{
		{ID: "bx-jake", FirstName: "Jake", LastName: "Smith", DateOfBirth: dob},
		{ID: "bx-jacob", FirstName: "Jacob", LastName: "Smithson", DateOfBirth: dob},
		{ID: "bx-maria", FirstName: "Maria", LastName: "Lopez", DateOfBirth: dob},
	}
}

func TestMatchName_ExactFullName(t *testing.T) {
	matches := MatchName("Jake Smith", rosterForFuzzyTests(), 0)
	if len(matches) == 0 {
		t.Fatal("expected at least one match")
	}
	if matches[0].Boxer.ID != "bx-jake" {
		t.Fatalf("unexpected top match: %s", matches[0].Boxer.ID)
	}
	if matches[0].Score != 1.0 {
		t.Fatalf("expected exact score 1.0, got %.2f", matches[0].Score)
	}
}

func TestMatchName_SubstringScoresHigherThanEditDistance(t *testing.T) {
	matches := MatchName("jake", rosterForFuzzyTests(), 0.4)
	if len(matches) != 2 {
		t.Fatalf("expected jake and jacob, got %d matches", len(matches))
	}
	if matches[0].Boxer.ID != "bx-jake" {
		t.Fatalf("expected exact first-name match first, got %s", matches[0].Boxer.ID)
	}
	if matches[1].Boxer.ID != "bx-jacob" {
		t.Fatalf("expected jacob second, got %s", matches[1].Boxer.ID)
	}
	if matches[0].Score <= matches[1].Score {
		t.Fatalf("expected descending scores: %.2f then %.2f", matches[0].Score, matches[1].Score)
	}
}

func TestMatchName_ThresholdFiltersWeakMatches(t *testing.T) {
	matches := MatchName("zzzz", rosterForFuzzyTests(), 0)
	if len(matches) != 0 {
		t.Fatalf("expected no matches above default threshold, got %d", len(matches))
	}
}

func TestMatchName_EmptyQuery(t *testing.T) {
	if matches := MatchName("   ", rosterForFuzzyTests(), 0); matches != nil {
		t.Fatalf("expected nil for empty query, got %v", matches)
	}
}

func TestMatchName_CaseInsensitive(t *testing.T) {
	matches := MatchName("SMITH", rosterForFuzzyTests(), 0.8)
	if len(matches) == 0 {
		t.Fatal("expected case-insensitive last-name match")
	}
	if matches[0].Boxer.ID != "bx-jake" {
		t.Fatalf("unexpected top match: %s", matches[0].Boxer.ID)
	}
}

func TestMatchName_PureAndDeterministic(t *testing.T) {
	roster := rosterForFuzzyTests()
	first := MatchName("jake", roster, 0.5)
	second := MatchName("jake", roster, 0.5)
	if len(first) != len(second) {
		t.Fatalf("match count drifted: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Boxer.ID != second[i].Boxer.ID || first[i].Score != second[i].Score {
			t.Fatalf("match %d drifted between calls", i)
		}
	}
}
