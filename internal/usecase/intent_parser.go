package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ringsidehq/matchfinder/internal/domain/boxer"
	"github.com/ringsidehq/matchfinder/internal/domain/match"
)

const (
	minParsableWeightKG = 40
	maxParsableWeightKG = 150

	// Matches within this distance of the top fuzzy score are treated
	// as rivals for disambiguation purposes.
	ambiguityBand = 0.1

	maxAmbiguousMatches = 5

	// Scores above this resolve with high confidence.
	highConfidenceScore = 0.9
)

// nameRule is one extraction attempt for the source boxer's name. The
// rules run in order; the first hit wins.
type nameRule struct {
	label string
	re    *regexp.Regexp
}

var nameRules = []nameRule{
	{label: "find_for", re: regexp.MustCompile(`(?i)\bfind\s+(?:a\s+|an\s+)?(?:[a-z]+\s+)?(?:match|opponent|bout)\s+for\s+([a-zA-Z][a-zA-Z'. -]*)`)},
	{label: "opponent_for", re: regexp.MustCompile(`(?i)\b(?:opponent|sparring(?:\s+partner)?)\s+for\s+([a-zA-Z][a-zA-Z'. -]*)`)},
	{label: "match_against", re: regexp.MustCompile(`(?i)\bmatch\s+([a-zA-Z][a-zA-Z'. -]*?)\s+(?:against|with)\b`)},
	{label: "needs_match", re: regexp.MustCompile(`(?i)\b([a-zA-Z][a-zA-Z'. -]*?)\s+(?:needs|wants|is looking for)\s+(?:a\s+)?(?:match|opponent|bout|fight)`)},
}

var (
	weightRule   = regexp.MustCompile(`(?i)\b(\d{2,3}(?:\.\d+)?)\s*(?:kg|kgs|kilo|kilos|kilogram|kilograms)\b`)
	numericDate  = regexp.MustCompile(`\b(\d{1,2})[/.-](\d{1,2})[/.-](\d{2,4})\b`)
	monthDate    = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(january|february|march|april|may|june|july|august|september|october|november|december)(?:\s+(\d{4}))?\b`)
	categoryRule = regexp.MustCompile(`(?i)\b(junior|youth|elite)\b`)
)

var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// Free-form descriptors worth carrying into the target criteria.
var criteriaKeywords = []string{"southpaw", "orthodox", "aggressive", "counterpuncher", "local", "experienced", "novice"}

// Filler words the greedy name capture tends to swallow from the tail
// of the phrase, e.g. "Sarah Connor around 65kg".
var trailingFiller = map[string]bool{
	"around": true, "about": true, "at": true, "on": true, "in": true,
	"for": true, "who": true, "weighing": true, "near": true,
	"approximately": true, "next": true, "this": true, "week": true,
	"weekend": true, "month": true, "tomorrow": true, "today": true,
	"the": true, "a": true, "an": true,
}

// IntentParser is the deterministic, regex-driven reading of a match
// request. It never returns an error: every failure mode is expressed
// inside the returned ParsedIntent.
type IntentParser struct {
	boxerRepo boxer.Repository
	threshold float64
	now       func() time.Time
}

func NewIntentParser(boxerRepo boxer.Repository) *IntentParser {
	return &IntentParser{
		boxerRepo: boxerRepo,
		threshold: boxer.DefaultNameMatchThreshold,
		now:       time.Now,
	}
}

// Parse extracts a structured intent from free text, resolving the
// boxer name against the caller's own roster.
func (p *IntentParser) Parse(ctx context.Context, query string, clubIDs []string) match.ParsedIntent {
	ctx, span := startUsecaseSpan(ctx, "usecase.IntentParser.Parse")
	defer span.End()

	roster, err := p.boxerRepo.ListByClubs(ctx, clubIDs)
	if err != nil {
		return match.ParsedIntent{
			Target:     p.ExtractCriteria(query),
			Confidence: match.ConfidenceLow,
			ParserUsed: match.ParserDeterministic,
			Error:      fmt.Sprintf("could not load roster: %v", err),
		}
	}

	return p.ParseWithRoster(ctx, query, roster)
}

// ParseWithRoster is Parse against an already-loaded roster. The
// assisted parser shares this path so both parsers resolve names with
// exactly the same rules.
func (p *IntentParser) ParseWithRoster(_ context.Context, query string, roster []boxer.Boxer) match.ParsedIntent {
	intent := match.ParsedIntent{
		Target:        p.ExtractCriteria(query),
		ReferenceDate: extractDate(query, p.now()),
		ParserUsed:    match.ParserDeterministic,
		Confidence:    match.ConfidenceLow,
	}

	name := extractName(query)
	if name == "" {
		intent.Error = "could not identify a boxer name in the request"
		return intent
	}

	return p.resolveName(intent, name, roster)
}

// resolveName runs the fuzzy roster lookup and fills the intent's
// resolution fields. Shared by the deterministic and assisted paths;
// the model proposes names but never resolves them itself.
func (p *IntentParser) resolveName(intent match.ParsedIntent, name string, roster []boxer.Boxer) match.ParsedIntent {
	matches := boxer.MatchName(name, roster, p.threshold)
	if len(matches) == 0 {
		intent.Error = fmt.Sprintf("no boxer matching %q found in your roster", name)
		return intent
	}

	top := matches[0]
	if len(matches) == 1 || top.Score > highConfidenceScore {
		intent.SourceBoxerID = top.Boxer.ID
		intent.SourceBoxerName = top.Boxer.FullName()
		intent.Confidence = match.ConfidenceMedium
		if top.Score > highConfidenceScore {
			intent.Confidence = match.ConfidenceHigh
		}
		return intent
	}

	rivals := matches[:1]
	for _, m := range matches[1:] {
		if top.Score-m.Score <= ambiguityBand {
			rivals = append(rivals, m)
		}
	}

	if len(rivals) > 1 {
		if len(rivals) > maxAmbiguousMatches {
			rivals = rivals[:maxAmbiguousMatches]
		}
		for _, m := range rivals {
			intent.AmbiguousMatches = append(intent.AmbiguousMatches, match.AmbiguousMatch{
				ID:   m.Boxer.ID,
				Name: m.Boxer.FullName(),
			})
		}
		intent.Error = fmt.Sprintf("%q matches %d boxers in your roster, please pick one", name, len(rivals))
		return intent
	}

	intent.SourceBoxerID = top.Boxer.ID
	intent.SourceBoxerName = top.Boxer.FullName()
	intent.Confidence = match.ConfidenceMedium

	return intent
}

// ExtractCriteria pulls the target constraints out of the text without
// touching name resolution. Used directly when an explicit boxer id
// bypasses name parsing.
func (p *IntentParser) ExtractCriteria(query string) match.TargetCriteria {
	target := match.TargetCriteria{}

	if m := weightRule.FindStringSubmatch(query); m != nil {
		if kg, err := strconv.ParseFloat(m[1], 64); err == nil && kg >= minParsableWeightKG && kg <= maxParsableWeightKG {
			target.WeightKG = &kg
		}
	}
	if m := categoryRule.FindStringSubmatch(query); m != nil {
		target.Category = boxer.Category(strings.ToLower(m[1]))
	}

	lower := strings.ToLower(query)
	for _, keyword := range criteriaKeywords {
		if strings.Contains(lower, keyword) {
			target.Criteria = append(target.Criteria, keyword)
		}
	}

	return target
}

func extractName(query string) string {
	for _, rule := range nameRules {
		m := rule.re.FindStringSubmatch(query)
		if m == nil {
			continue
		}
		if name := cleanName(m[1]); name != "" {
			return name
		}
	}

	return ""
}

// cleanName strips weight, date and category fragments that the name
// pattern may have swallowed, e.g. "Jake, 72kg next friday".
func cleanName(raw string) string {
	cleaned := weightRule.ReplaceAllString(raw, " ")
	cleaned = numericDate.ReplaceAllString(cleaned, " ")
	cleaned = monthDate.ReplaceAllString(cleaned, " ")
	cleaned = categoryRule.ReplaceAllString(cleaned, " ")

	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.Trim(cleaned, ",.-")

	// A trailing clause after a comma is criteria, not name.
	if idx := strings.IndexAny(cleaned, ","); idx >= 0 {
		cleaned = cleaned[:idx]
	}

	words := strings.Fields(cleaned)
	for len(words) > 0 && trailingFiller[strings.ToLower(words[len(words)-1])] {
		words = words[:len(words)-1]
	}

	return strings.Join(words, " ")
}

func extractDate(query string, now time.Time) *time.Time {
	if m := numericDate.FindStringSubmatch(query); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			if d.Day() == day {
				return &d
			}
		}
	}

	if m := monthDate.FindStringSubmatch(query); m != nil {
		day, _ := strconv.Atoi(m[1])
		month := monthsByName[strings.ToLower(m[2])]
		year := now.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		}
		if day >= 1 && day <= 31 {
			d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
			if d.Day() == day {
				if m[3] == "" && d.Before(now) {
					d = d.AddDate(1, 0, 0)
				}
				return &d
			}
		}
	}

	return nil
}
