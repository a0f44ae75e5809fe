package loans

import (
	"context"
	"net/http"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/internal/dto"
	"github.com/GlebRadaev/fortvest/internal/handlers/httpx"
	"github.com/GlebRadaev/fortvest/pkg/money"
	"github.com/GlebRadaev/fortvest/pkg/utils"
)

//go:generate mockgen -destination=mock_service.go -source=loans.go -package=loans
type Service interface {
	Apply(ctx context.Context, userID int, principal money.Money, months int) (*domain.Loan, error)
	ListByUser(ctx context.Context, userID int) ([]domain.Loan, error)
	Repay(ctx context.Context, userID, loanID int, amount money.Money) (*domain.LoanPosting, error)
}

type LoansHandler struct {
	loanService Service
}

func New(loanService Service) *LoansHandler {
	return &LoansHandler{
		loanService: loanService,
	}
}

// Apply godoc
//
//	@Summary		Apply for a loan
//	@Description	Create a PENDING loan priced at the configured flat rate
//	@Tags			Loans
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.ApplyLoanRequestDTO	true	"Loan application"
//	@Success		201		{object}	dto.LoanResponseDTO
//	@Failure		400		{object}	utils.ErrorResponse	"Invalid request body"
//	@Failure		401		{object}	utils.ErrorResponse	"Unauthorized"
//	@Failure		422		{object}	utils.ErrorResponse	"Fractional amount"
//	@Router			/api/loans/apply [post]
func (h *LoansHandler) Apply(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserID(w, r)
	if !ok {
		return
	}
	var req dto.ApplyLoanRequestDTO
	if !httpx.Decode(w, r, &req) {
		return
	}
	loan, err := h.loanService.Apply(r.Context(), userID, req.PrincipalAmount, req.DurationMonths)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewLoanResponse(loan))
}

// ListByUser godoc
//
//	@Summary		List my loans
//	@Tags			Loans
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.LoanResponseDTO
//	@Failure		401	{object}	utils.ErrorResponse	"Unauthorized"
//	@Router			/api/loans/my-loans [get]
func (h *LoansHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserID(w, r)
	if !ok {
		return
	}
	loans, err := h.loanService.ListByUser(r.Context(), userID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewLoansResponse(loans))
}

// Repay godoc
//
//	@Summary		Repay a loan
//	@Description	Debit the wallet by min(amount, outstanding). The loan becomes PAID once nothing is owed.
//	@Tags			Loans
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id				path		int						true	"Loan ID"
//	@Param			Idempotency-Key	header		string					false	"Idempotency key"
//	@Param			request			body		dto.AmountRequestDTO	true	"Amount in minor units"
//	@Success		200				{object}	dto.LoanPostingResponseDTO
//	@Failure		400				{object}	utils.ErrorResponse	"Invalid amount"
//	@Failure		402				{object}	utils.ErrorResponse	"Insufficient funds"
//	@Failure		404				{object}	utils.ErrorResponse	"Loan not found"
//	@Failure		409				{object}	utils.ErrorResponse	"Loan is not active"
//	@Router			/api/loans/{id}/repay [post]
func (h *LoansHandler) Repay(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserID(w, r)
	if !ok {
		return
	}
	loanID, ok := httpx.PathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.AmountRequestDTO
	if !httpx.Decode(w, r, &req) {
		return
	}
	lp, err := h.loanService.Repay(r.Context(), userID, loanID, req.Amount)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewLoanPostingResponse(lp))
}
