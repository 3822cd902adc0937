package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/bytebufferpool"

	"github.com/ringsidehq/matchfinder/internal/domain/boxer"
	"github.com/ringsidehq/matchfinder/internal/domain/match"
	"github.com/ringsidehq/matchfinder/internal/platform/logging"
)

const (
	// Queries are clipped before they reach the model.
	maxQueryLength = 500

	DefaultModelTimeout = 10 * time.Second

	// Roster names listed in the intent prompt are capped to keep the
	// prompt size bounded.
	maxPromptRosterNames = 50
)

// TextGenerator produces a text completion for a prompt. The Gemini
// client implements it; tests stub it.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

var (
	roleMarker = regexp.MustCompile(`(?i)\b(?:system|assistant|user)\s*:`)
	markupTag  = regexp.MustCompile(`<[^>]*>`)
	fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
)

// AssistedIntentParser layers an optional language model over the
// deterministic parser. Every failure mode of the model path (missing
// client, exhausted budget, timeout, transport error, unparseable
// output, panic) degrades to the deterministic result, so Parse is
// total: it always returns a usable intent.
type AssistedIntentParser struct {
	generator TextGenerator
	det       *IntentParser
	limiter   *RateLimiter
	timeout   time.Duration
	logger    *logging.Logger
}

// NewAssistedIntentParser wires the assisted parser. generator may be
// nil, which disables the model path entirely.
func NewAssistedIntentParser(generator TextGenerator, det *IntentParser, limiter *RateLimiter, timeout time.Duration, logger *logging.Logger) *AssistedIntentParser {
	if timeout <= 0 {
		timeout = DefaultModelTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &AssistedIntentParser{
		generator: generator,
		det:       det,
		limiter:   limiter,
		timeout:   timeout,
		logger:    logger,
	}
}

// Parse reads a free-text match request. The model only ever proposes
// field values; name resolution always goes through the same fuzzy
// roster lookup as the deterministic path, so the model cannot invent
// a boxer that is not on the caller's roster.
func (p *AssistedIntentParser) Parse(ctx context.Context, query, userID string, clubIDs []string) (intent match.ParsedIntent) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AssistedIntentParser.Parse")
	defer span.End()

	roster, err := p.det.boxerRepo.ListByClubs(ctx, clubIDs)
	if err != nil {
		return match.ParsedIntent{
			Target:     p.det.ExtractCriteria(query),
			Confidence: match.ConfidenceLow,
			ParserUsed: match.ParserDeterministic,
			Error:      fmt.Sprintf("could not load roster: %v", err),
		}
	}

	// The fallback always sees the original text; only the model
	// prompt gets the sanitized form.
	fallback := p.det.ParseWithRoster(ctx, query, roster)

	if p.generator == nil {
		return fallback
	}
	if p.limiter != nil && !p.limiter.AllowModelCall(ctx, userID) {
		p.logger.InfoContext(ctx, "model budget exhausted, using deterministic parse", "user_id", userID)
		return fallback
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.ErrorContext(ctx, "assisted parse panicked", "panic", r)
			intent = fallback
		}
	}()

	raw, ok := p.generate(ctx, sanitizeQuery(query), roster)
	if !ok {
		return fallback
	}

	proposal, ok := decodeProposal(raw)
	if !ok {
		p.logger.WarnContext(ctx, "model returned unusable intent payload", "raw_len", len(raw))
		return fallback
	}

	return p.mergeProposal(ctx, fallback, proposal, roster)
}

// mergeProposal folds the model's proposal into the deterministic
// result. The intent is tagged as assisted only when the model's name
// proposal is what resolved the source boxer.
func (p *AssistedIntentParser) mergeProposal(ctx context.Context, fallback match.ParsedIntent, proposal modelProposal, roster []boxer.Boxer) match.ParsedIntent {
	merged := fallback

	if proposal.WeightKG != nil && *proposal.WeightKG >= minParsableWeightKG && *proposal.WeightKG <= maxParsableWeightKG {
		merged.Target.WeightKG = proposal.WeightKG
	}
	switch boxer.Category(strings.ToLower(proposal.Category)) {
	case boxer.CategoryJunior, boxer.CategoryYouth, boxer.CategoryElite:
		merged.Target.Category = boxer.Category(strings.ToLower(proposal.Category))
	}
	for _, c := range proposal.Criteria {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" || containsString(merged.Target.Criteria, c) {
			continue
		}
		merged.Target.Criteria = append(merged.Target.Criteria, c)
	}

	name := strings.TrimSpace(proposal.BoxerName)
	if merged.Resolved() || name == "" {
		return merged
	}

	resolved := p.det.resolveName(match.ParsedIntent{
		Target:        merged.Target,
		ReferenceDate: merged.ReferenceDate,
		Confidence:    match.ConfidenceLow,
		ParserUsed:    match.ParserAssisted,
	}, name, roster)
	if !resolved.Resolved() && len(resolved.AmbiguousMatches) == 0 {
		p.logger.InfoContext(ctx, "model name proposal did not resolve", "proposed", name)
		return merged
	}
	if !resolved.Resolved() {
		// Ambiguity is not a resolved name; the assisted tag is
		// reserved for intents the model actually pinned down.
		resolved.ParserUsed = match.ParserDeterministic
	}

	return resolved
}

func (p *AssistedIntentParser) generate(ctx context.Context, query string, roster []boxer.Boxer) (string, bool) {
	type outcome struct {
		text string
		err  error
	}

	// Buffered so a late completion after the timeout does not leak
	// the goroutine.
	ch := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{err: fmt.Errorf("model call panicked: %v", r)}
			}
		}()
		text, err := p.generator.GenerateText(ctx, buildIntentPrompt(query, roster))
		ch <- outcome{text: text, err: err}
	}()

	select {
	case out := <-ch:
		if out.err != nil {
			p.logger.WarnContext(ctx, "model call failed, using deterministic parse", "error", out.err)
			return "", false
		}
		return out.text, true
	case <-time.After(p.timeout):
		p.logger.WarnContext(ctx, "model call timed out, using deterministic parse", "timeout", p.timeout)
		return "", false
	case <-ctx.Done():
		return "", false
	}
}

func buildIntentPrompt(query string, roster []boxer.Boxer) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.WriteString("You extract structured matchmaking requests for a boxing club.\n")
	buf.WriteString("Reply with a single JSON object and nothing else, using this shape:\n")
	buf.WriteString(`{"boxer_name": "", "weight_kg": 0, "category": "", "criteria": []}` + "\n")
	buf.WriteString("boxer_name is the boxer a match is requested FOR, picked from the roster below. ")
	buf.WriteString("weight_kg is the desired opponent weight in kilograms, 0 if unspecified. ")
	buf.WriteString("category is junior, youth or elite, empty if unspecified. ")
	buf.WriteString("criteria lists any other requirements as short lowercase phrases.\n\n")

	buf.WriteString("Roster:")
	limit := len(roster)
	if limit > maxPromptRosterNames {
		limit = maxPromptRosterNames
	}
	for i := 0; i < limit; i++ {
		buf.WriteString(" ")
		buf.WriteString(roster[i].FullName())
		if i < limit-1 {
			buf.WriteString(";")
		}
	}
	buf.WriteString("\n\nRequest: ")
	buf.WriteString(query)

	return buf.String()
}

// sanitizeQuery strips prompt-steering markers and markup before the
// text is embedded in a model prompt, then clips it.
func sanitizeQuery(query string) string {
	cleaned := markupTag.ReplaceAllString(query, " ")
	cleaned = roleMarker.ReplaceAllString(cleaned, " ")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if len(cleaned) > maxQueryLength {
		cut := maxQueryLength
		// Clip on a rune boundary so the prompt stays valid UTF-8.
		for cut > 0 && !utf8.RuneStart(cleaned[cut]) {
			cut--
		}
		cleaned = cleaned[:cut]
	}

	return cleaned
}

type modelProposal struct {
	BoxerName string
	WeightKG  *float64
	Category  string
	Criteria  []string
}

// decodeProposal reads the model's reply leniently: fenced or bare
// JSON, numeric fields as numbers or strings.
func decodeProposal(raw string) (modelProposal, bool) {
	text := strings.TrimSpace(raw)
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	var fields map[string]any
	if err := jsoniter.UnmarshalFromString(text, &fields); err != nil {
		return modelProposal{}, false
	}

	proposal := modelProposal{}
	if v, ok := fields["boxer_name"].(string); ok {
		proposal.BoxerName = v
	}
	if kg, ok := coerceFloat(fields["weight_kg"]); ok && kg > 0 {
		proposal.WeightKG = &kg
	}
	if v, ok := fields["category"].(string); ok {
		proposal.Category = v
	}
	if items, ok := fields["criteria"].([]any); ok {
		for _, item := range items {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				proposal.Criteria = append(proposal.Criteria, s)
			}
		}
	}

	if proposal.BoxerName == "" && proposal.WeightKG == nil && proposal.Category == "" && len(proposal.Criteria) == 0 {
		return modelProposal{}, false
	}

	return proposal, true
}

func coerceFloat(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func containsString(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
