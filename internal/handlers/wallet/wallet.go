package wallet

import (
	"context"
	"net/http"
	"strconv"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/internal/dto"
	"github.com/GlebRadaev/fortvest/internal/handlers/httpx"
	"github.com/GlebRadaev/fortvest/pkg/money"
	"github.com/GlebRadaev/fortvest/pkg/utils"
)

//go:generate mockgen -destination=mock_service.go -source=wallet.go -package=wallet
type Service interface {
	Fund(ctx context.Context, userID int, amount money.Money) (*domain.Posting, error)
	GetBalance(ctx context.Context, userID int) (*domain.Wallet, error)
	ListTransactions(ctx context.Context, userID, limit int) ([]domain.Transaction, error)
}

type WalletHandler struct {
	walletService Service
}

func New(walletService Service) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

// Fund godoc
//
//	@Summary		Fund wallet
//	@Description	Credit the caller's wallet and record a WALLET_FUNDING entry
//	@Tags			Wallet
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			Idempotency-Key	header		string					false	"Idempotency key"
//	@Param			request			body		dto.AmountRequestDTO	true	"Amount in minor units"
//	@Success		200				{object}	dto.PostingResponseDTO
//	@Failure		400				{object}	utils.ErrorResponse	"Invalid amount"
//	@Failure		401				{object}	utils.ErrorResponse	"Unauthorized"
//	@Failure		422				{object}	utils.ErrorResponse	"Fractional amount"
//	@Failure		503				{object}	utils.ErrorResponse	"Storage failure"
//	@Router			/api/wallet/fund [post]
func (h *WalletHandler) Fund(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserID(w, r)
	if !ok {
		return
	}
	var req dto.AmountRequestDTO
	if !httpx.Decode(w, r, &req) {
		return
	}
	posting, err := h.walletService.Fund(r.Context(), userID, req.Amount)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewPostingResponse(posting))
}

// GetBalance godoc
//
//	@Summary		Get wallet balance
//	@Tags			Wallet
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.WalletResponseDTO
//	@Failure		401	{object}	utils.ErrorResponse	"Unauthorized"
//	@Failure		404	{object}	utils.ErrorResponse	"Wallet not found"
//	@Router			/api/wallet/balance [get]
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserID(w, r)
	if !ok {
		return
	}
	wallet, err := h.walletService.GetBalance(r.Context(), userID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewWalletResponse(wallet))
}

// ListTransactions godoc
//
//	@Summary		Wallet statement
//	@Description	Ledger entries of the caller, newest first
//	@Tags			Wallet
//	@Security		BearerAuth
//	@Produce		json
//	@Param			limit	query		int	false	"Maximum number of entries"
//	@Success		200		{array}		dto.TransactionResponseDTO
//	@Failure		400		{object}	utils.ErrorResponse	"Invalid limit"
//	@Failure		401		{object}	utils.ErrorResponse	"Unauthorized"
//	@Router			/api/wallet/transactions [get]
func (h *WalletHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserID(w, r)
	if !ok {
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httpx.Error(w, domain.Validation("limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	txns, err := h.walletService.ListTransactions(r.Context(), userID, limit)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewTransactionsResponse(txns))
}
