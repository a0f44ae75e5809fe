package domain

import (
	"time"

	"github.com/GlebRadaev/fortvest/pkg/money"
	"github.com/shopspring/decimal"
)

type LoanStatus string

const (
	LoanPending  LoanStatus = "PENDING"
	LoanActive   LoanStatus = "ACTIVE"
	LoanPaid     LoanStatus = "PAID"
	LoanRejected LoanStatus = "REJECTED"
)

var loanTransitions = map[LoanStatus][]LoanStatus{
	LoanPending: {LoanActive, LoanRejected},
	LoanActive:  {LoanPaid},
}

func (s LoanStatus) Valid() bool {
	switch s {
	case LoanPending, LoanActive, LoanPaid, LoanRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s LoanStatus) CanTransitionTo(next LoanStatus) bool {
	for _, allowed := range loanTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal statuses never change again.
func (s LoanStatus) Terminal() bool {
	return len(loanTransitions[s]) == 0
}

var maxRate = decimal.RequireFromString("999.99")

// ValidRate reports whether a percentage fits the stored NUMERIC(5,2) rate columns.
func ValidRate(rate decimal.Decimal) bool {
	return !rate.IsNegative() && rate.LessThanOrEqual(maxRate) && rate.Equal(rate.Round(2))
}

type Loan struct {
	ID              int             `db:"id"`
	UserID          int             `db:"user_id"`
	PrincipalAmount money.Money     `db:"principal_amount"`
	InterestRate    decimal.Decimal `db:"interest_rate"`
	DurationMonths  int             `db:"duration_months"`
	RepaymentAmount money.Money     `db:"repayment_amount"`
	Status          LoanStatus      `db:"status"`
	DueDate         *time.Time      `db:"due_date"`
	CreatedAt       time.Time       `db:"created_at"`
}

// NewLoan prices a loan application with flat interest: principal + floor(principal × rate / 100).
func NewLoan(userID int, principal money.Money, rate decimal.Decimal, months int) (Loan, error) {
	if !principal.IsPositive() {
		return Loan{}, ErrInvalidAmount
	}
	if months < 1 {
		return Loan{}, ErrInvalidTerm
	}
	if !ValidRate(rate) {
		return Loan{}, ErrInvalidRate
	}
	interest, err := principal.PercentChecked(rate)
	if err != nil {
		return Loan{}, ErrAmountTooLarge
	}
	owed, err := principal.AddChecked(interest)
	if err != nil {
		return Loan{}, ErrAmountTooLarge
	}
	return Loan{
		UserID:          userID,
		PrincipalAmount: principal,
		InterestRate:    rate,
		DurationMonths:  months,
		RepaymentAmount: owed,
		Status:          LoanPending,
	}, nil
}

func (l Loan) transition(next LoanStatus) (Loan, error) {
	if !l.Status.CanTransitionTo(next) {
		return l, ErrIllegalTransition
	}
	l.Status = next
	return l, nil
}

// Approve activates a pending loan and sets its due date.
func (l Loan) Approve(now time.Time) (Loan, error) {
	if l.Status != LoanPending {
		return l, ErrLoanNotPending
	}
	next, err := l.transition(LoanActive)
	if err != nil {
		return l, err
	}
	due := now.AddDate(0, l.DurationMonths, 0)
	next.DueDate = &due
	return next, nil
}

func (l Loan) Reject() (Loan, error) {
	if l.Status != LoanPending {
		return l, ErrLoanNotPending
	}
	return l.transition(LoanRejected)
}

// Repay applies a payment clamped to the outstanding balance. It returns the
// next loan row and the amount actually charged.
func (l Loan) Repay(amount money.Money) (Loan, money.Money, error) {
	if !amount.IsPositive() {
		return l, money.Zero, ErrInvalidAmount
	}
	switch l.Status {
	case LoanPaid:
		return l, money.Zero, ErrLoanAlreadyPaid
	case LoanActive:
	default:
		return l, money.Zero, ErrLoanNotActive
	}

	if !l.RepaymentAmount.IsPositive() {
		return l, money.Zero, ErrNothingOwed
	}

	paid := money.Min(amount, l.RepaymentAmount)
	next := l
	next.RepaymentAmount = l.RepaymentAmount.Sub(paid)
	if next.RepaymentAmount.IsZero() {
		var err error
		if next, err = next.transition(LoanPaid); err != nil {
			return l, money.Zero, err
		}
	}
	return next, paid, nil
}

// LoanPosting is a loan row together with the wallet movement it caused.
type LoanPosting struct {
	Loan    Loan
	Posting Posting
}
