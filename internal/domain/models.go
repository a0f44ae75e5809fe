package domain

import (
	"time"

	"github.com/GlebRadaev/fortvest/pkg/money"
	"github.com/shopspring/decimal"
)

type User struct {
	ID           int       `db:"id"`
	FullName     string    `db:"full_name"`
	Email        string    `db:"email"`
	PhoneNumber  string    `db:"phone_number"`
	PasswordHash string    `db:"password_hash"`
	IsAdmin      bool      `db:"is_admin"`
	IsVerified   bool      `db:"is_verified"`
	CreatedAt    time.Time `db:"created_at"`
}

// Registration is the sign-up input before the password is hashed.
type Registration struct {
	FullName    string
	Email       string
	Password    string
	PhoneNumber string
}

type Wallet struct {
	ID        int         `db:"id"`
	UserID    int         `db:"user_id"`
	Balance   money.Money `db:"balance"`
	Currency  string      `db:"currency"`
	CreatedAt time.Time   `db:"created_at"`
}

// Profile is a user together with their wallet.
type Profile struct {
	User   User
	Wallet Wallet
}

type Direction string

const (
	Credit Direction = "CREDIT"
	Debit  Direction = "DEBIT"
)

type Category string

const (
	CategoryWalletFunding      Category = "WALLET_FUNDING"
	CategoryLoanDisbursement   Category = "LOAN_DISBURSEMENT"
	CategoryLoanRepayment      Category = "LOAN_REPAYMENT"
	CategorySavingsTopUp       Category = "SAVINGS_TOPUP"
	CategoryInvestmentPurchase Category = "INVESTMENT_PURCHASE"
)

var referencePrefixes = map[Category]string{
	CategoryWalletFunding:      "FUND",
	CategoryLoanDisbursement:   "LOAN-DISB",
	CategoryLoanRepayment:      "LOAN-REPAY",
	CategorySavingsTopUp:       "SAVE-TOPUP",
	CategoryInvestmentPurchase: "INV-BUY",
}

// ReferencePrefix is the human-readable prefix for ledger references of this category.
func (c Category) ReferencePrefix() string {
	if p, ok := referencePrefixes[c]; ok {
		return p
	}
	return "TXN"
}

func (c Category) Valid() bool {
	_, ok := referencePrefixes[c]
	return ok
}

type TransactionStatus string

const (
	TransactionSuccess TransactionStatus = "SUCCESS"
	TransactionPending TransactionStatus = "PENDING"
	TransactionFailed  TransactionStatus = "FAILED"
)

// Transaction is an immutable ledger entry.
type Transaction struct {
	ID        int               `db:"id"`
	UserID    int               `db:"user_id"`
	Amount    money.Money       `db:"amount"`
	Direction Direction         `db:"type"`
	Category  Category          `db:"category"`
	Status    TransactionStatus `db:"status"`
	Reference string            `db:"reference"`
	CreatedAt time.Time         `db:"created_at"`
}

// Signed returns the entry's effect on the wallet balance.
func (t Transaction) Signed() money.Money {
	if t.Direction == Debit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Posting is the outcome of one balance mutation and its ledger entry.
type Posting struct {
	Transaction Transaction
	Balance     money.Money
}

// LedgerTotals are the settled sums of a user's ledger.
type LedgerTotals struct {
	Credits money.Money
	Debits  money.Money
}

func (t LedgerTotals) Net() money.Money {
	return t.Credits.Sub(t.Debits)
}

type Reconciliation struct {
	UserID   int
	Balance  money.Money
	Totals   LedgerTotals
	Balanced bool
}

type SavingsPlanType string

const (
	SavingsFixed    SavingsPlanType = "FIXED"
	SavingsFlexible SavingsPlanType = "FLEXIBLE"
	SavingsTarget   SavingsPlanType = "TARGET"
)

type SavingsPlan struct {
	ID             int             `db:"id"`
	UserID         int             `db:"user_id"`
	Title          string          `db:"title"`
	TargetAmount   money.Money     `db:"target_amount"`
	CurrentBalance money.Money     `db:"current_balance"`
	Type           SavingsPlanType `db:"type"`
	InterestRate   decimal.Decimal `db:"interest_rate"`
	CreatedAt      time.Time       `db:"created_at"`
}

type InvestmentOpportunity struct {
	ID             int             `db:"id"`
	Title          string          `db:"title"`
	Description    string          `db:"description"`
	UnitPrice      money.Money     `db:"unit_price"`
	ROIPercentage  decimal.Decimal `db:"roi_percentage"`
	DurationMonths int             `db:"duration_months"`
	IsActive       bool            `db:"is_active"`
	CreatedAt      time.Time       `db:"created_at"`
}

type UserInvestment struct {
	ID             int         `db:"id"`
	UserID         int         `db:"user_id"`
	InvestmentID   int         `db:"investment_id"`
	UnitsOwned     int         `db:"units_owned"`
	AmountInvested money.Money `db:"amount_invested"`
	CreatedAt      time.Time   `db:"created_at"`
}

// Holding is a purchase joined with the opportunity it was made in.
type Holding struct {
	UserInvestment
	Title         string          `db:"title"`
	ROIPercentage decimal.Decimal `db:"roi_percentage"`
}

// ExpectedReturn is the flat payout at maturity: principal plus ROI, floored.
func (h Holding) ExpectedReturn() money.Money {
	return h.AmountInvested.Add(h.AmountInvested.Percent(h.ROIPercentage))
}
