package domain

import (
	"errors"
	"fmt"

	"github.com/GlebRadaev/fortvest/pkg/money"
)

// Kind is the stable category of a failure reported to callers.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindUnauthorized
	KindNotFound
	KindForbidden
	KindInvalidState
	KindInsufficientFunds
	KindConflict
	KindStorage
)

var kindCodes = map[Kind]string{
	KindUnknown:           "UNKNOWN",
	KindValidation:        "VALIDATION_ERROR",
	KindUnauthorized:      "UNAUTHORIZED",
	KindNotFound:          "NOT_FOUND",
	KindForbidden:         "FORBIDDEN",
	KindInvalidState:      "INVALID_STATE",
	KindInsufficientFunds: "INSUFFICIENT_FUNDS",
	KindConflict:          "CONFLICT",
	KindStorage:           "STORAGE_FAILURE",
}

func (k Kind) String() string {
	return kindCodes[k]
}

// Retryable reports whether resubmitting the same request may succeed.
func (k Kind) Retryable() bool {
	return k == KindStorage
}

// Error carries a Kind and a message that is safe to show to the caller.
// Err holds the underlying cause and is never exposed over the wire.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Validation(msg string) *Error { return NewError(KindValidation, msg) }

// Storage wraps an infrastructure fault.
func Storage(err error) *Error {
	return &Error{Kind: KindStorage, Msg: "storage failure, please retry", Err: err}
}

// Conflict wraps a uniqueness violation.
func Conflict(msg string, err error) *Error {
	return &Error{Kind: KindConflict, Msg: msg, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Classify passes typed errors through and turns anything else into a storage failure.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != KindUnknown {
		return err
	}
	return Storage(err)
}

var (
	ErrUnauthorized       = NewError(KindUnauthorized, "unauthorized")
	ErrInvalidCredentials = NewError(KindUnauthorized, "invalid credentials")
	ErrForbidden          = NewError(KindForbidden, "access denied, admins only")

	ErrInvalidAmount   = Validation("amount must be greater than zero")
	ErrInvalidUnits    = Validation("units must be at least 1")
	ErrInvalidRate     = Validation("rate must be between 0 and 999.99 with at most two decimals")
	ErrInvalidROI      = Validation("roi percentage must be greater than 0 and at most 999.99 with two decimals")
	ErrAmountTooLarge  = &Error{Kind: KindValidation, Msg: "amount is too large", Err: money.ErrOverflow}
	ErrInvalidTerm     = Validation("duration must be at least 1 month")
	ErrTitleRequired   = Validation("title is required")
	ErrInvalidPlanKind = Validation("unsupported savings plan type")

	ErrUserNotFound        = NewError(KindNotFound, "user not found")
	ErrWalletNotFound      = NewError(KindNotFound, "wallet not found")
	ErrLoanNotFound        = NewError(KindNotFound, "loan not found")
	ErrPlanNotFound        = NewError(KindNotFound, "savings plan not found")
	ErrOpportunityNotFound = NewError(KindNotFound, "investment opportunity not found")

	ErrLoanNotPending    = NewError(KindInvalidState, "loan is not in pending status")
	ErrLoanNotActive     = NewError(KindInvalidState, "loan is not active")
	ErrLoanAlreadyPaid   = NewError(KindInvalidState, "loan is already paid")
	ErrNothingOwed       = NewError(KindInvalidState, "loan has no outstanding balance")
	ErrIllegalTransition = NewError(KindInvalidState, "illegal loan status transition")
	ErrOpportunityClosed = NewError(KindInvalidState, "investment opportunity is closed")

	ErrInsufficientFunds = NewError(KindInsufficientFunds, "insufficient funds in wallet")

	ErrEmailTaken         = NewError(KindConflict, "user already exists")
	ErrDuplicateReference = NewError(KindConflict, "duplicate ledger reference")
)
