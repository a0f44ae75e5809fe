package domain

import (
	"strings"

	"github.com/GlebRadaev/fortvest/pkg/money"
	"github.com/shopspring/decimal"
)

func (t SavingsPlanType) Valid() bool {
	switch t {
	case SavingsFixed, SavingsFlexible, SavingsTarget:
		return true
	}
	return false
}

// NewSavingsPlan builds an empty plan. An empty type defaults to FIXED.
func NewSavingsPlan(userID int, title string, target money.Money, kind SavingsPlanType, rate decimal.Decimal) (SavingsPlan, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return SavingsPlan{}, ErrTitleRequired
	}
	if !target.IsPositive() {
		return SavingsPlan{}, ErrInvalidAmount
	}
	if kind == "" {
		kind = SavingsFixed
	}
	if !kind.Valid() {
		return SavingsPlan{}, ErrInvalidPlanKind
	}
	if !ValidRate(rate) {
		return SavingsPlan{}, ErrInvalidRate
	}
	return SavingsPlan{
		UserID:         userID,
		Title:          title,
		TargetAmount:   target,
		CurrentBalance: money.Zero,
		Type:           kind,
		InterestRate:   rate,
	}, nil
}

// TopUp adds amount to the plan balance.
func (p SavingsPlan) TopUp(amount money.Money) (SavingsPlan, error) {
	if !amount.IsPositive() {
		return p, ErrInvalidAmount
	}
	balance, err := p.CurrentBalance.AddChecked(amount)
	if err != nil {
		return p, ErrAmountTooLarge
	}
	p.CurrentBalance = balance
	return p, nil
}

// Reached reports whether the plan has met its target.
func (p SavingsPlan) Reached() bool {
	return p.CurrentBalance.Cmp(p.TargetAmount) >= 0
}

type SavingsPosting struct {
	Plan    SavingsPlan
	Posting Posting
}
