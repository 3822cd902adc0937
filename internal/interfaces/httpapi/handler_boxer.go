package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/ringsidehq/matchfinder/internal/usecase"
)

type searchBoxersRequest struct {
	Query          string   `json:"query" validate:"max=200"`
	Gender         string   `json:"gender" validate:"omitempty,oneof=male female"`
	Category       string   `json:"category" validate:"omitempty,oneof=junior youth elite"`
	Availability   string   `json:"availability" validate:"omitempty,oneof=available unavailable injured"`
	WeightMin      *float64 `json:"weightMin" validate:"omitempty,gt=0"`
	WeightMax      *float64 `json:"weightMax" validate:"omitempty,gt=0"`
	IncludeOwnClub bool     `json:"includeOwnClub"`
	Limit          int      `json:"limit" validate:"min=0,max=200"`
	Offset         int      `json:"offset" validate:"min=0"`
}

type searchBoxerItem struct {
	boxerDTO
	ClubName string `json:"clubName,omitempty"`
}

type searchBoxersResponse struct {
	Boxers  []searchBoxerItem `json:"boxers"`
	Total   int               `json:"total"`
	HasMore bool              `json:"hasMore"`
}

type boxerDetailResponse struct {
	Boxer    boxerDTO `json:"boxer"`
	ClubName string   `json:"clubName,omitempty"`
}

func (h *Handler) SearchBoxers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchBoxers")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req searchBoxersRequest
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

	output, err := h.boxerService.SearchBoxers(ctx, principal, usecase.SearchBoxersInput{
		Query:          req.Query,
		Gender:         req.Gender,
		Category:       req.Category,
		Availability:   req.Availability,
		WeightMin:      req.WeightMin,
		WeightMax:      req.WeightMax,
		IncludeOwnClub: req.IncludeOwnClub,
		Limit:          req.Limit,
		Offset:         req.Offset,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "search boxers failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	ref := h.now()
	items := make([]searchBoxerItem, 0, len(output.Boxers))
	for _, b := range output.Boxers {
		items = append(items, searchBoxerItem{
			boxerDTO: boxerToDTO(b, ref),
			ClubName: output.ClubNames[b.ClubID],
		})
	}

	writeSuccess(ctx, w, http.StatusOK, searchBoxersResponse{
		Boxers:  items,
		Total:   output.Total,
		HasMore: output.HasMore,
	})
}

func (h *Handler) GetBoxer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBoxer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	boxerID := strings.TrimSpace(r.PathValue("boxerID"))
	detail, err := h.boxerService.GetBoxer(ctx, principal, boxerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get boxer failed", "boxer_id", boxerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	dto := boxerToDTO(detail.Boxer, h.now())
	dto.Age = detail.Age

	writeSuccess(ctx, w, http.StatusOK, boxerDetailResponse{
		Boxer:    dto,
		ClubName: detail.ClubName,
	})
}
