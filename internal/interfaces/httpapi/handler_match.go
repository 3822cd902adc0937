package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/ringsidehq/matchfinder/internal/domain/match"
	"github.com/ringsidehq/matchfinder/internal/usecase"
)

type findMatchRequest struct {
	Query           string `json:"query" validate:"required,max=500"`
	BoxerID         string `json:"boxerId"`
	ShowDate        string `json:"showDate"`
	Limit           int    `json:"limit" validate:"min=0,max=200"`
	SkipExplanation bool   `json:"skipExplanation"`
}

type findMatchResponse struct {
	Intent      intentDTO      `json:"intent"`
	Source      *boxerDTO      `json:"source,omitempty"`
	Matches     []candidateDTO `json:"matches"`
	Explanation string         `json:"explanation,omitempty"`
	Total       int            `json:"totalCandidates"`
	Filtered    int            `json:"filteredOut"`
	HasMore     bool           `json:"hasMore"`
}

type intentDTO struct {
	SourceBoxerID    string              `json:"sourceBoxerId,omitempty"`
	SourceBoxerName  string              `json:"sourceBoxerName,omitempty"`
	TargetWeightKG   *float64            `json:"targetWeightKg,omitempty"`
	TargetCategory   string              `json:"targetCategory,omitempty"`
	Criteria         []string            `json:"criteria,omitempty"`
	ReferenceDate    string              `json:"referenceDate,omitempty"`
	Confidence       string              `json:"confidence"`
	ParserUsed       string              `json:"parserUsed"`
	Error            string              `json:"error,omitempty"`
	AmbiguousMatches []ambiguousMatchDTO `json:"ambiguousMatches,omitempty"`
}

type ambiguousMatchDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type candidateDTO struct {
	Boxer    boxerDTO `json:"boxer"`
	ClubName string   `json:"clubName"`
	Score    int      `json:"complianceScore"`
	Notes    []string `json:"notes"`
}

// FindMatch runs the full matchmaking flow for a natural-language
// request. An unresolved intent is still a 200: the caller gets the
// intent back with its error or ambiguity candidates.
func (h *Handler) FindMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FindMatch")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req findMatchRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	showDate, err := parseShowDate(req.ShowDate)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	output, err := h.matchService.FindMatch(ctx, principal, usecase.FindMatchInput{
		Query:           req.Query,
		BoxerID:         strings.TrimSpace(req.BoxerID),
		ShowDate:        showDate,
		Limit:           req.Limit,
		SkipExplanation: req.SkipExplanation,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "find match failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, findMatchToResponse(output, h.now()))
}

func parseShowDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			parsed = parsed.UTC()
			return &parsed, nil
		}
	}

	return nil, fmt.Errorf("%w: showDate must be YYYY-MM-DD or RFC 3339", usecase.ErrInvalidInput)
}

func findMatchToResponse(output usecase.FindMatchOutput, ref time.Time) findMatchResponse {
	resp := findMatchResponse{
		Intent:      intentToDTO(output.Intent),
		Matches:     make([]candidateDTO, 0, len(output.Matches)),
		Explanation: output.Explanation,
		Total:       output.Total,
		Filtered:    output.Filtered,
		HasMore:     output.HasMore,
	}

	if output.Source != nil {
		dto := boxerToDTO(*output.Source, ref)
		resp.Source = &dto
	}
	for _, candidate := range output.Matches {
		resp.Matches = append(resp.Matches, candidateDTO{
			Boxer:    boxerToDTO(candidate.Boxer, ref),
			ClubName: candidate.ClubName,
			Score:    candidate.Score,
			Notes:    append([]string(nil), candidate.Notes...),
		})
	}

	return resp
}

func intentToDTO(intent match.ParsedIntent) intentDTO {
	dto := intentDTO{
		SourceBoxerID:   intent.SourceBoxerID,
		SourceBoxerName: intent.SourceBoxerName,
		TargetWeightKG:  intent.Target.WeightKG,
		TargetCategory:  string(intent.Target.Category),
		Criteria:        append([]string(nil), intent.Target.Criteria...),
		Confidence:      string(intent.Confidence),
		ParserUsed:      string(intent.ParserUsed),
		Error:           intent.Error,
	}
	if intent.ReferenceDate != nil {
		dto.ReferenceDate = intent.ReferenceDate.UTC().Format("2006-01-02")
	}
	for _, m := range intent.AmbiguousMatches {
		dto.AmbiguousMatches = append(dto.AmbiguousMatches, ambiguousMatchDTO{ID: m.ID, Name: m.Name})
	}

	return dto
}
