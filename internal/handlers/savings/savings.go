package savings

import (
	"context"
	"net/http"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/internal/dto"
	"github.com/GlebRadaev/fortvest/internal/handlers/httpx"
	"github.com/GlebRadaev/fortvest/pkg/money"
	"github.com/GlebRadaev/fortvest/pkg/utils"
)

//go:generate mockgen -destination=mock_service.go -source=savings.go -package=savings
type Service interface {
	Create(ctx context.Context, userID int, title string, target money.Money, kind domain.SavingsPlanType) (*domain.SavingsPlan, error)
	List(ctx context.Context, userID int) ([]domain.SavingsPlan, error)
	TopUp(ctx context.Context, userID, planID int, amount money.Money) (*domain.SavingsPosting, error)
}

type SavingsHandler struct {
	savingsService Service
}

func New(savingsService Service) *SavingsHandler {
	return &SavingsHandler{
		savingsService: savingsService,
	}
}

// Create godoc
//
//	@Summary		Create a savings plan
//	@Description	Type defaults to FIXED. The interest rate comes from configuration.
//	@Tags			Savings
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateSavingsRequestDTO	true	"Savings plan"
//	@Success		201		{object}	dto.SavingsPlanResponseDTO
//	@Failure		400		{object}	utils.ErrorResponse	"Invalid request body"
//	@Failure		401		{object}	utils.ErrorResponse	"Unauthorized"
//	@Router			/api/savings [post]
func (h *SavingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserID(w, r)
	if !ok {
		return
	}
	var req dto.CreateSavingsRequestDTO
	if !httpx.Decode(w, r, &req) {
		return
	}
	plan, err := h.savingsService.Create(r.Context(), userID, req.Title, req.TargetAmount, domain.SavingsPlanType(req.Type))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewSavingsPlanResponse(plan))
}

// List godoc
//
//	@Summary	List my savings plans
//	@Tags		Savings
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}		dto.SavingsPlanResponseDTO
//	@Failure	401	{object}	utils.ErrorResponse	"Unauthorized"
//	@Router		/api/savings [get]
func (h *SavingsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserID(w, r)
	if !ok {
		return
	}
	plans, err := h.savingsService.List(r.Context(), userID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewSavingsPlansResponse(plans))
}

// TopUp godoc
//
//	@Summary		Top up a savings plan
//	@Description	Move money from the wallet into the plan
//	@Tags			Savings
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id				path		int						true	"Plan ID"
//	@Param			Idempotency-Key	header		string					false	"Idempotency key"
//	@Param			request			body		dto.AmountRequestDTO	true	"Amount in minor units"
//	@Success		200				{object}	dto.SavingsPostingResponseDTO
//	@Failure		400				{object}	utils.ErrorResponse	"Invalid amount"
//	@Failure		402				{object}	utils.ErrorResponse	"Insufficient funds"
//	@Failure		404				{object}	utils.ErrorResponse	"Plan not found"
//	@Router			/api/savings/{id}/topup [post]
func (h *SavingsHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserID(w, r)
	if !ok {
		return
	}
	planID, ok := httpx.PathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.AmountRequestDTO
	if !httpx.Decode(w, r, &req) {
		return
	}
	sp, err := h.savingsService.TopUp(r.Context(), userID, planID, req.Amount)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewSavingsPostingResponse(sp))
}
