package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/bytebufferpool"

	"github.com/ringsidehq/matchfinder/internal/domain/boxer"
	"github.com/ringsidehq/matchfinder/internal/domain/match"
	"github.com/ringsidehq/matchfinder/internal/platform/logging"
)

// How many candidates the model prompt describes.
const explanationPromptCandidates = 3

// ExplanationGenerator turns a result set into a coach-readable
// summary. The template path always works; the model path is an
// optional polish that degrades to the template on any failure.
type ExplanationGenerator struct {
	generator TextGenerator
	limiter   *RateLimiter
	timeout   time.Duration
	logger    *logging.Logger
}

func NewExplanationGenerator(generator TextGenerator, limiter *RateLimiter, timeout time.Duration, logger *logging.Logger) *ExplanationGenerator {
	if timeout <= 0 {
		timeout = DefaultModelTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &ExplanationGenerator{
		generator: generator,
		limiter:   limiter,
		timeout:   timeout,
		logger:    logger,
	}
}

// Generate never fails: the worst case is the plain template text.
func (g *ExplanationGenerator) Generate(ctx context.Context, userID string, source boxer.Boxer, candidates []match.Candidate, total int) (out string) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExplanationGenerator.Generate")
	defer span.End()

	template := templateExplanation(source, candidates, total)

	if g.generator == nil || len(candidates) == 0 {
		return template
	}
	if g.limiter != nil && !g.limiter.AllowModelCall(ctx, userID) {
		return template
	}

	defer func() {
		if r := recover(); r != nil {
			g.logger.ErrorContext(ctx, "explanation generation panicked", "panic", r)
			out = template
		}
	}()

	type outcome struct {
		text string
		err  error
	}
	ch := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{err: fmt.Errorf("model call panicked: %v", r)}
			}
		}()
		text, err := g.generator.GenerateText(ctx, buildExplanationPrompt(source, candidates, total))
		ch <- outcome{text: text, err: err}
	}()

	select {
	case result := <-ch:
		if result.err != nil {
			g.logger.WarnContext(ctx, "explanation model call failed, using template", "error", result.err)
			return template
		}
		text := strings.TrimSpace(result.text)
		if text == "" {
			return template
		}
		return text
	case <-time.After(g.timeout):
		g.logger.WarnContext(ctx, "explanation model call timed out, using template", "timeout", g.timeout)
		return template
	case <-ctx.Done():
		return template
	}
}

func templateExplanation(source boxer.Boxer, candidates []match.Candidate, total int) string {
	name := source.FullName()

	if total == 0 {
		return fmt.Sprintf("No opponents found for %s. No active boxers outside their club matched the search filters.", name)
	}
	if len(candidates) == 0 {
		return fmt.Sprintf("Found %d potential opponents for %s, but none met the matching rules on weight, age and experience.", total, name)
	}

	best := candidates[0]
	summary := fmt.Sprintf("Found %d eligible opponents for %s, showing the top %d. Best match is %s", total, name, len(candidates), best.Boxer.FullName())
	if best.ClubName != "" {
		summary += fmt.Sprintf(" from %s", best.ClubName)
	}
	summary += fmt.Sprintf(" with a compliance score of %d/100.", best.Score)

	return summary
}

func buildExplanationPrompt(source boxer.Boxer, candidates []match.Candidate, total int) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.WriteString("You are summarizing opponent suggestions for a boxing coach.\n")
	buf.WriteString("Write two short plain sentences. No markdown, no lists, no scores beyond what is given.\n\n")
	fmt.Fprintf(buf, "Boxer: %s, %s, %.1fkg, %d bouts.\n", source.FullName(), source.Category, source.WeightKG, source.BoutCount)
	fmt.Fprintf(buf, "Eligible opponents found: %d of %d screened.\n", len(candidates), total)

	limit := len(candidates)
	if limit > explanationPromptCandidates {
		limit = explanationPromptCandidates
	}
	for i := 0; i < limit; i++ {
		c := candidates[i]
		fmt.Fprintf(buf, "%d. %s (%s), score %d/100", i+1, c.Boxer.FullName(), c.ClubName, c.Score)
		if len(c.Notes) > 0 {
			fmt.Fprintf(buf, ": %s", strings.Join(c.Notes, "; "))
		}
		buf.WriteString("\n")
	}

	return buf.String()
}
