package admin

import (
	"context"
	"net/http"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/internal/dto"
	"github.com/GlebRadaev/fortvest/internal/handlers/httpx"
	"github.com/GlebRadaev/fortvest/pkg/utils"
)

//go:generate mockgen -destination=mock_service.go -source=admin.go -package=admin
type LoanService interface {
	Approve(ctx context.Context, adminID, loanID int) (*domain.LoanPosting, error)
	Reject(ctx context.Context, adminID, loanID int) (*domain.Loan, error)
}

type Auditor interface {
	Audit(ctx context.Context, adminID, userID int) (*domain.Reconciliation, error)
}

// AdminHandler serves the back-office routes. Every service call re-checks the caller's admin flag.
type AdminHandler struct {
	loanService LoanService
	auditor     Auditor
}

func New(loanService LoanService, auditor Auditor) *AdminHandler {
	return &AdminHandler{
		loanService: loanService,
		auditor:     auditor,
	}
}

// ApproveLoan godoc
//
//	@Summary		Approve a pending loan
//	@Description	Activates the loan and credits the principal to the borrower's wallet
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id				path		int		true	"Loan ID"
//	@Param			Idempotency-Key	header		string	false	"Idempotency key"
//	@Success		200				{object}	dto.LoanPostingResponseDTO
//	@Failure		403				{object}	utils.ErrorResponse	"Admins only"
//	@Failure		404				{object}	utils.ErrorResponse	"Loan not found"
//	@Failure		409				{object}	utils.ErrorResponse	"Loan is not pending"
//	@Router			/api/admin/loans/{id}/approve [patch]
func (h *AdminHandler) ApproveLoan(w http.ResponseWriter, r *http.Request) {
	adminID, ok := httpx.UserID(w, r)
	if !ok {
		return
	}
	loanID, ok := httpx.PathID(w, r, "id")
	if !ok {
		return
	}
	lp, err := h.loanService.Approve(r.Context(), adminID, loanID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewLoanPostingResponse(lp))
}

// RejectLoan godoc
//
//	@Summary	Reject a pending loan
//	@Tags		Admin
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		int	true	"Loan ID"
//	@Success	200	{object}	dto.LoanResponseDTO
//	@Failure	403	{object}	utils.ErrorResponse	"Admins only"
//	@Failure	404	{object}	utils.ErrorResponse	"Loan not found"
//	@Failure	409	{object}	utils.ErrorResponse	"Loan is not pending"
//	@Router		/api/admin/loans/{id}/reject [patch]
func (h *AdminHandler) RejectLoan(w http.ResponseWriter, r *http.Request) {
	adminID, ok := httpx.UserID(w, r)
	if !ok {
		return
	}
	loanID, ok := httpx.PathID(w, r, "id")
	if !ok {
		return
	}
	loan, err := h.loanService.Reject(r.Context(), adminID, loanID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewLoanResponse(loan))
}

// Reconcile godoc
//
//	@Summary		Reconcile a user's wallet
//	@Description	Compares the wallet balance with the sum of the user's ledger entries
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			userID	path		int	true	"User ID"
//	@Success		200		{object}	dto.ReconciliationResponseDTO
//	@Failure		403		{object}	utils.ErrorResponse	"Admins only"
//	@Failure		404		{object}	utils.ErrorResponse	"Wallet not found"
//	@Router			/api/admin/reconciliation/{userID} [get]
func (h *AdminHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	adminID, ok := httpx.UserID(w, r)
	if !ok {
		return
	}
	userID, ok := httpx.PathID(w, r, "userID")
	if !ok {
		return
	}
	rec, err := h.auditor.Audit(r.Context(), adminID, userID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewReconciliationResponse(rec))
}
