package dto

import (
	"time"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/pkg/money"
	"github.com/shopspring/decimal"
)

type CreateOpportunityRequestDTO struct {
	Title          string          `json:"title" validate:"required,max=150" example:"Cassava farm"`
	Description    string          `json:"description" validate:"max=2000" example:"Twelve month farm cycle in Ogun"`
	UnitPrice      money.Money     `json:"unit_price" validate:"gt=0" swaggertype:"integer" example:"50000"`
	ROIPercentage  decimal.Decimal `json:"roi_percentage" swaggertype:"string" example:"12.5"`
	DurationMonths int             `json:"duration_months" validate:"gte=0,lte=600" example:"12"`
}

func (r CreateOpportunityRequestDTO) Draft() domain.InvestmentOpportunity {
	return domain.InvestmentOpportunity{
		Title:          r.Title,
		Description:    r.Description,
		UnitPrice:      r.UnitPrice,
		ROIPercentage:  r.ROIPercentage,
		DurationMonths: r.DurationMonths,
	}
}

type InvestRequestDTO struct {
	Units int `json:"units" validate:"gte=1" example:"3"`
}

type OpportunityResponseDTO struct {
	ID             int             `json:"id" example:"1"`
	Title          string          `json:"title" example:"Cassava farm"`
	Description    string          `json:"description" example:"Twelve month farm cycle in Ogun"`
	UnitPrice      money.Money     `json:"unit_price" swaggertype:"integer" example:"50000"`
	ROIPercentage  decimal.Decimal `json:"roi_percentage" swaggertype:"string" example:"12.5"`
	DurationMonths int             `json:"duration_months" example:"12"`
	IsActive       bool            `json:"is_active" example:"true"`
	CreatedAt      time.Time       `json:"created_at" example:"2024-12-09T16:09:57Z"`
}

func NewOpportunityResponse(o *domain.InvestmentOpportunity) OpportunityResponseDTO {
	return OpportunityResponseDTO{
		ID:             o.ID,
		Title:          o.Title,
		Description:    o.Description,
		UnitPrice:      o.UnitPrice,
		ROIPercentage:  o.ROIPercentage,
		DurationMonths: o.DurationMonths,
		IsActive:       o.IsActive,
		CreatedAt:      o.CreatedAt,
	}
}

func NewOpportunitiesResponse(items []domain.InvestmentOpportunity) []OpportunityResponseDTO {
	out := make([]OpportunityResponseDTO, 0, len(items))
	for i := range items {
		out = append(out, NewOpportunityResponse(&items[i]))
	}
	return out
}

type InvestmentResponseDTO struct {
	ID             int         `json:"id" example:"9"`
	InvestmentID   int         `json:"investment_id" example:"1"`
	UnitsOwned     int         `json:"units_owned" example:"2"`
	AmountInvested money.Money `json:"amount_invested" swaggertype:"integer" example:"100000"`
	CreatedAt      time.Time   `json:"created_at" example:"2024-12-09T16:09:57Z"`
}

func NewInvestmentResponse(inv *domain.UserInvestment) InvestmentResponseDTO {
	return InvestmentResponseDTO{
		ID:             inv.ID,
		InvestmentID:   inv.InvestmentID,
		UnitsOwned:     inv.UnitsOwned,
		AmountInvested: inv.AmountInvested,
		CreatedAt:      inv.CreatedAt,
	}
}

type HoldingResponseDTO struct {
	InvestmentResponseDTO
	Title          string          `json:"title" example:"Cassava farm"`
	ROIPercentage  decimal.Decimal `json:"roi_percentage" swaggertype:"string" example:"12.5"`
	ExpectedReturn money.Money     `json:"expected_return" swaggertype:"integer" example:"112500"`
}

func NewHoldingsResponse(items []domain.Holding) []HoldingResponseDTO {
	out := make([]HoldingResponseDTO, 0, len(items))
	for i := range items {
		h := items[i]
		out = append(out, HoldingResponseDTO{
			InvestmentResponseDTO: NewInvestmentResponse(&h.UserInvestment),
			Title:                 h.Title,
			ROIPercentage:         h.ROIPercentage,
			ExpectedReturn:        h.ExpectedReturn(),
		})
	}
	return out
}

type InvestmentPostingResponseDTO struct {
	Investment InvestmentResponseDTO `json:"investment"`
	Posting    PostingResponseDTO    `json:"posting"`
}

func NewInvestmentPostingResponse(ip *domain.InvestmentPosting) InvestmentPostingResponseDTO {
	return InvestmentPostingResponseDTO{
		Investment: NewInvestmentResponse(&ip.Investment),
		Posting:    NewPostingResponse(&ip.Posting),
	}
}
