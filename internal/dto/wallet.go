package dto

import (
	"time"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/pkg/money"
)

// AmountRequestDTO carries an amount in minor units. Fractions are rejected while decoding.
type AmountRequestDTO struct {
	Amount money.Money `json:"amount" validate:"gt=0" swaggertype:"integer" example:"500000"`
}

type WalletResponseDTO struct {
	ID       int         `json:"id" example:"1"`
	Balance  money.Money `json:"balance" swaggertype:"integer" example:"500000"`
	Currency string      `json:"currency" example:"NGN"`
}

func NewWalletResponse(w *domain.Wallet) WalletResponseDTO {
	return WalletResponseDTO{ID: w.ID, Balance: w.Balance, Currency: w.Currency}
}

type TransactionResponseDTO struct {
	ID        int         `json:"id" example:"12"`
	Amount    money.Money `json:"amount" swaggertype:"integer" example:"500000"`
	Type      string      `json:"type" example:"CREDIT"`
	Category  string      `json:"category" example:"WALLET_FUNDING"`
	Status    string      `json:"status" example:"SUCCESS"`
	Reference string      `json:"reference" example:"FUND-3f1c2a9e-8d1b-4c55-a0b6-2e5d7f1e9c10"`
	CreatedAt time.Time   `json:"created_at" example:"2024-12-09T16:09:57Z"`
}

func NewTransactionResponse(t *domain.Transaction) TransactionResponseDTO {
	return TransactionResponseDTO{
		ID:        t.ID,
		Amount:    t.Amount,
		Type:      string(t.Direction),
		Category:  string(t.Category),
		Status:    string(t.Status),
		Reference: t.Reference,
		CreatedAt: t.CreatedAt,
	}
}

func NewTransactionsResponse(txns []domain.Transaction) []TransactionResponseDTO {
	out := make([]TransactionResponseDTO, 0, len(txns))
	for i := range txns {
		out = append(out, NewTransactionResponse(&txns[i]))
	}
	return out
}

type PostingResponseDTO struct {
	Transaction TransactionResponseDTO `json:"transaction"`
	Balance     money.Money            `json:"balance" swaggertype:"integer" example:"500000"`
}

func NewPostingResponse(p *domain.Posting) PostingResponseDTO {
	return PostingResponseDTO{Transaction: NewTransactionResponse(&p.Transaction), Balance: p.Balance}
}
