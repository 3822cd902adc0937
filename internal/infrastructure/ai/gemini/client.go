package gemini

import (
	"context"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"google.golang.org/genai"

	"github.com/ringsidehq/matchfinder/internal/platform/resilience"
)

const (
	defaultModel = "gemini-2.5-flash"

	// Both intent extraction and explanations are short.
	defaultMaxOutputTokens = 500

	systemInstruction = "You assist an amateur boxing matchmaking service. " +
		"Follow the task in the user message exactly and add nothing else."
)

// contentCaller is the slice of the genai client the generator needs;
// tests substitute it.
type contentCaller interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator wraps the Google GenAI client behind the one-method text
// contract the parsers consume. A breaker keeps a flapping upstream
// from dragging every request through its timeout.
type Generator struct {
	models    contentCaller
	modelName string
	maxTokens int32
	breaker   *resilience.CircuitBreaker
}

func NewGenerator(ctx context.Context, apiKey, model string, breakerCfg resilience.CircuitBreakerConfig) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, crerr.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, crerr.Wrap(err, "create genai client")
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	var breaker *resilience.CircuitBreaker
	if breakerCfg.Enabled {
		breaker = resilience.NewCircuitBreaker(breakerCfg)
	}

	return &Generator{
		models:    client.Models,
		modelName: model,
		maxTokens: defaultMaxOutputTokens,
		breaker:   breaker,
	}, nil
}

// GenerateText sends one prompt and returns the concatenated candidate
// text. Callers treat any error as a fallback trigger, so an open
// breaker surfaces like any other upstream failure.
func (g *Generator) GenerateText(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", crerr.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", crerr.New("prompt must not be empty")
	}

	if g.breaker != nil {
		if err := g.breaker.Allow(); err != nil {
			return "", crerr.Wrap(err, "gemini unavailable")
		}
	}

	output, err := g.generate(ctx, prompt)
	if g.breaker != nil {
		if err != nil {
			g.breaker.RecordFailure()
		} else {
			g.breaker.RecordSuccess()
		}
	}

	return output, err
}

func (g *Generator) generate(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: g.maxTokens,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
	}

	resp, err := g.models.GenerateContent(ctx, g.modelName, genai.Text(prompt), cfg)
	if err != nil {
		return "", crerr.Wrap(err, "generate content")
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", crerr.New("gemini api returned empty response")
	}

	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}
