package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ringsidehq/matchfinder/internal/domain/boxer"
	"github.com/ringsidehq/matchfinder/internal/platform/logging"
	"github.com/ringsidehq/matchfinder/internal/usecase"
)

type Handler struct {
	matchService *usecase.MatchService
	boxerService *usecase.BoxerService
	logger       *logging.Logger
	validator    *validator.Validate
	now          func() time.Time
}

func NewHandler(
	matchService *usecase.MatchService,
	boxerService *usecase.BoxerService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchService: matchService,
		boxerService: boxerService,
		logger:       logger,
		validator:    validator.New(),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type boxerDTO struct {
	ID           string  `json:"id"`
	ClubID       string  `json:"clubId"`
	Name         string  `json:"name"`
	Gender       string  `json:"gender"`
	Category     string  `json:"category"`
	WeightKG     float64 `json:"weightKg"`
	Age          int     `json:"age"`
	BoutCount    int     `json:"boutCount"`
	WinCount     int     `json:"winCount"`
	LossCount    int     `json:"lossCount"`
	Availability string  `json:"availability"`
}

func boxerToDTO(v boxer.Boxer, ref time.Time) boxerDTO {
	return boxerDTO{
		ID:           v.ID,
		ClubID:       v.ClubID,
		Name:         v.FullName(),
		Gender:       string(v.Gender),
		Category:     string(v.Category),
		WeightKG:     v.WeightKG,
		Age:          v.AgeAt(ref),
		BoutCount:    v.BoutCount,
		WinCount:     v.WinCount,
		LossCount:    v.LossCount,
		Availability: string(v.Availability),
	}
}
