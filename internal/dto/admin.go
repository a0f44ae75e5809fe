package dto

import (
	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/pkg/money"
)

type ReconciliationResponseDTO struct {
	UserID   int         `json:"user_id" example:"7"`
	Balance  money.Money `json:"balance" swaggertype:"integer" example:"170000"`
	Credits  money.Money `json:"credits" swaggertype:"integer" example:"800000"`
	Debits   money.Money `json:"debits" swaggertype:"integer" example:"630000"`
	Balanced bool        `json:"balanced" example:"true"`
}

func NewReconciliationResponse(r *domain.Reconciliation) ReconciliationResponseDTO {
	return ReconciliationResponseDTO{
		UserID:   r.UserID,
		Balance:  r.Balance,
		Credits:  r.Totals.Credits,
		Debits:   r.Totals.Debits,
		Balanced: r.Balanced,
	}
}
