package investments

import (
	"context"
	"net/http"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/internal/dto"
	"github.com/GlebRadaev/fortvest/internal/handlers/httpx"
	"github.com/GlebRadaev/fortvest/pkg/utils"
)

//go:generate mockgen -destination=mock_service.go -source=investments.go -package=investments
type Service interface {
	CreateOpportunity(ctx context.Context, adminID int, draft domain.InvestmentOpportunity) (*domain.InvestmentOpportunity, error)
	ListActive(ctx context.Context) ([]domain.InvestmentOpportunity, error)
	Invest(ctx context.Context, userID, opportunityID, units int) (*domain.InvestmentPosting, error)
	ListByUser(ctx context.Context, userID int) ([]domain.Holding, error)
}

type InvestmentsHandler struct {
	investmentService Service
}

func New(investmentService Service) *InvestmentsHandler {
	return &InvestmentsHandler{
		investmentService: investmentService,
	}
}

// ListActive godoc
//
//	@Summary	List open investment opportunities
//	@Tags		Investments
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}		dto.OpportunityResponseDTO
//	@Failure	401	{object}	utils.ErrorResponse	"Unauthorized"
//	@Router		/api/investments [get]
func (h *InvestmentsHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	opportunities, err := h.investmentService.ListActive(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewOpportunitiesResponse(opportunities))
}

// CreateOpportunity godoc
//
//	@Summary	Publish an investment opportunity
//	@Tags		Investments
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dto.CreateOpportunityRequestDTO	true	"Opportunity"
//	@Success	201		{object}	dto.OpportunityResponseDTO
//	@Failure	400		{object}	utils.ErrorResponse	"Invalid request body"
//	@Failure	403		{object}	utils.ErrorResponse	"Admins only"
//	@Router		/api/investments [post]
func (h *InvestmentsHandler) CreateOpportunity(w http.ResponseWriter, r *http.Request) {
	adminID, ok := httpx.UserID(w, r)
	if !ok {
		return
	}
	var req dto.CreateOpportunityRequestDTO
	if !httpx.Decode(w, r, &req) {
		return
	}
	opp, err := h.investmentService.CreateOpportunity(r.Context(), adminID, req.Draft())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewOpportunityResponse(opp))
}

// Invest godoc
//
//	@Summary		Buy units of an opportunity
//	@Description	Debit the wallet by units × unit price and record the holding
//	@Tags			Investments
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id				path		int						true	"Opportunity ID"
//	@Param			Idempotency-Key	header		string					false	"Idempotency key"
//	@Param			request			body		dto.InvestRequestDTO	true	"Units"
//	@Success		201				{object}	dto.InvestmentPostingResponseDTO
//	@Failure		400				{object}	utils.ErrorResponse	"Invalid units"
//	@Failure		402				{object}	utils.ErrorResponse	"Insufficient funds"
//	@Failure		404				{object}	utils.ErrorResponse	"Opportunity not found"
//	@Failure		409				{object}	utils.ErrorResponse	"Opportunity closed"
//	@Router			/api/investments/{id}/invest [post]
func (h *InvestmentsHandler) Invest(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserID(w, r)
	if !ok {
		return
	}
	oppID, ok := httpx.PathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.InvestRequestDTO
	if !httpx.Decode(w, r, &req) {
		return
	}
	ip, err := h.investmentService.Invest(r.Context(), userID, oppID, req.Units)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewInvestmentPostingResponse(ip))
}

// ListByUser godoc
//
//	@Summary	List my investments
//	@Tags		Investments
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}		dto.HoldingResponseDTO
//	@Failure	401	{object}	utils.ErrorResponse	"Unauthorized"
//	@Router		/api/investments/my-investments [get]
func (h *InvestmentsHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserID(w, r)
	if !ok {
		return
	}
	holdings, err := h.investmentService.ListByUser(r.Context(), userID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewHoldingsResponse(holdings))
}
