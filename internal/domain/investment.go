package domain

import (
	"strings"

	"github.com/GlebRadaev/fortvest/pkg/money"
	"github.com/shopspring/decimal"
)

func NewInvestmentOpportunity(title, description string, unitPrice money.Money, roi decimal.Decimal, months int) (InvestmentOpportunity, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return InvestmentOpportunity{}, ErrTitleRequired
	}
	if !unitPrice.IsPositive() {
		return InvestmentOpportunity{}, ErrInvalidAmount
	}
	if !roi.IsPositive() || !ValidRate(roi) {
		return InvestmentOpportunity{}, ErrInvalidROI
	}
	if months < 0 {
		return InvestmentOpportunity{}, ErrInvalidTerm
	}
	return InvestmentOpportunity{
		Title:          title,
		Description:    description,
		UnitPrice:      unitPrice,
		ROIPercentage:  roi,
		DurationMonths: months,
		IsActive:       true,
	}, nil
}

// Purchase prices units of the opportunity for a user. The returned row is not yet persisted.
func (o InvestmentOpportunity) Purchase(userID, units int) (UserInvestment, error) {
	if units < 1 {
		return UserInvestment{}, ErrInvalidUnits
	}
	if !o.IsActive {
		return UserInvestment{}, ErrOpportunityClosed
	}
	total, err := o.UnitPrice.MulInt(int64(units))
	if err != nil {
		return UserInvestment{}, ErrAmountTooLarge
	}
	return UserInvestment{
		UserID:         userID,
		InvestmentID:   o.ID,
		UnitsOwned:     units,
		AmountInvested: total,
	}, nil
}

type InvestmentPosting struct {
	Investment UserInvestment
	Posting    Posting
}
