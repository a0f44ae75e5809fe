package dto

import (
	"time"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/pkg/money"
	"github.com/shopspring/decimal"
)

type ApplyLoanRequestDTO struct {
	PrincipalAmount money.Money `json:"principal_amount" validate:"gt=0" swaggertype:"integer" example:"300000"`
	DurationMonths  int         `json:"duration_months" validate:"gte=1,lte=360" example:"6"`
}

type LoanResponseDTO struct {
	ID              int             `json:"id" example:"4"`
	PrincipalAmount money.Money     `json:"principal_amount" swaggertype:"integer" example:"300000"`
	InterestRate    decimal.Decimal `json:"interest_rate" swaggertype:"string" example:"10"`
	DurationMonths  int             `json:"duration_months" example:"6"`
	RepaymentAmount money.Money     `json:"repayment_amount" swaggertype:"integer" example:"330000"`
	Status          string          `json:"status" example:"PENDING"`
	DueDate         *time.Time      `json:"due_date,omitempty" example:"2025-06-09T16:09:57Z"`
	CreatedAt       time.Time       `json:"created_at" example:"2024-12-09T16:09:57Z"`
}

func NewLoanResponse(l *domain.Loan) LoanResponseDTO {
	return LoanResponseDTO{
		ID:              l.ID,
		PrincipalAmount: l.PrincipalAmount,
		InterestRate:    l.InterestRate,
		DurationMonths:  l.DurationMonths,
		RepaymentAmount: l.RepaymentAmount,
		Status:          string(l.Status),
		DueDate:         l.DueDate,
		CreatedAt:       l.CreatedAt,
	}
}

func NewLoansResponse(loans []domain.Loan) []LoanResponseDTO {
	out := make([]LoanResponseDTO, 0, len(loans))
	for i := range loans {
		out = append(out, NewLoanResponse(&loans[i]))
	}
	return out
}

type LoanPostingResponseDTO struct {
	Loan    LoanResponseDTO    `json:"loan"`
	Posting PostingResponseDTO `json:"posting"`
}

func NewLoanPostingResponse(lp *domain.LoanPosting) LoanPostingResponseDTO {
	return LoanPostingResponseDTO{Loan: NewLoanResponse(&lp.Loan), Posting: NewPostingResponse(&lp.Posting)}
}
