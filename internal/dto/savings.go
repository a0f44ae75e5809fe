package dto

import (
	"time"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/pkg/money"
	"github.com/shopspring/decimal"
)

type CreateSavingsRequestDTO struct {
	Title        string      `json:"title" validate:"required,max=100" example:"Rent"`
	TargetAmount money.Money `json:"target_amount" validate:"gt=0" swaggertype:"integer" example:"1200000"`
	Type         string      `json:"type" validate:"omitempty,oneof=FIXED FLEXIBLE TARGET" example:"FIXED"`
}

type SavingsPlanResponseDTO struct {
	ID             int             `json:"id" example:"2"`
	Title          string          `json:"title" example:"Rent"`
	TargetAmount   money.Money     `json:"target_amount" swaggertype:"integer" example:"1200000"`
	CurrentBalance money.Money     `json:"current_balance" swaggertype:"integer" example:"40000"`
	Type           string          `json:"type" example:"FIXED"`
	InterestRate   decimal.Decimal `json:"interest_rate" swaggertype:"string" example:"5"`
	Reached        bool            `json:"reached" example:"false"`
	CreatedAt      time.Time       `json:"created_at" example:"2024-12-09T16:09:57Z"`
}

func NewSavingsPlanResponse(p *domain.SavingsPlan) SavingsPlanResponseDTO {
	return SavingsPlanResponseDTO{
		ID:             p.ID,
		Title:          p.Title,
		TargetAmount:   p.TargetAmount,
		CurrentBalance: p.CurrentBalance,
		Type:           string(p.Type),
		InterestRate:   p.InterestRate,
		Reached:        p.Reached(),
		CreatedAt:      p.CreatedAt,
	}
}

func NewSavingsPlansResponse(plans []domain.SavingsPlan) []SavingsPlanResponseDTO {
	out := make([]SavingsPlanResponseDTO, 0, len(plans))
	for i := range plans {
		out = append(out, NewSavingsPlanResponse(&plans[i]))
	}
	return out
}

type SavingsPostingResponseDTO struct {
	Plan    SavingsPlanResponseDTO `json:"plan"`
	Posting PostingResponseDTO     `json:"posting"`
}

func NewSavingsPostingResponse(sp *domain.SavingsPosting) SavingsPostingResponseDTO {
	return SavingsPostingResponseDTO{Plan: NewSavingsPlanResponse(&sp.Plan), Posting: NewPostingResponse(&sp.Posting)}
}
