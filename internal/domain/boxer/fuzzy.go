package boxer

import (
	"sort"
	"strings"
)

// DefaultNameMatchThreshold keeps weak edit-distance matches out of
// roster resolution unless a caller opts into a looser cut.
const DefaultNameMatchThreshold = 0.6

// NameMatch pairs a roster boxer with its similarity to a query.
type NameMatch struct {
	Boxer Boxer
	Score float64
}

// MatchName scores every roster boxer against the query and returns
// those at or above the threshold, best first. A threshold <= 0 falls
// back to DefaultNameMatchThreshold. Pure function of its inputs.
func MatchName(query string, roster []Boxer, threshold float64) []NameMatch {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	if threshold <= 0 {
		threshold = DefaultNameMatchThreshold
	}

	matches := make([]NameMatch, 0, len(roster))
	for _, b := range roster {
		score := nameScore(query, strings.ToLower(b.FirstName))
		if s := nameScore(query, strings.ToLower(b.LastName)); s > score {
			score = s
		}
		if s := nameScore(query, strings.ToLower(b.FullName())); s > score {
			score = s
		}
		if score >= threshold {
			matches = append(matches, NameMatch{Boxer: b, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}

func nameScore(query, candidate string) float64 {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return 0
	}
	if query == candidate {
		return 1.0
	}
	if strings.Contains(candidate, query) || strings.Contains(query, candidate) {
		return 0.9
	}
	if strings.HasPrefix(candidate, query) || strings.HasPrefix(query, candidate) {
		return 0.85
	}

	longest := len(query)
	if len(candidate) > longest {
		longest = len(candidate)
	}
	score := 1 - float64(editDistance(query, candidate))/float64(longest)
	if score < 0 {
		score = 0
	}

	return score
}

func editDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

func minInt(values ...int) int {
	out := values[0]
	for _, v := range values[1:] {
		if v < out {
			out = v
		}
	}
	return out
}
