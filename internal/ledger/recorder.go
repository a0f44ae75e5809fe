package ledger

import (
	"context"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/pkg/money"
	"github.com/google/uuid"
)

// ReferenceFunc builds a ledger reference for a category.
type ReferenceFunc func(domain.Category) string

func NewReference(c domain.Category) string {
	return c.ReferencePrefix() + "-" + uuid.NewString()
}

type Recorder struct {
	txns      TransactionRepo
	reference ReferenceFunc
}

func NewRecorder(txns TransactionRepo) *Recorder {
	return &Recorder{txns: txns, reference: NewReference}
}

// WithReference swaps the reference generator.
func (r *Recorder) WithReference(fn ReferenceFunc) *Recorder {
	r.reference = fn
	return r
}

// Record appends one ledger entry. The entry becomes visible when the caller's unit commits.
func (r *Recorder) Record(
	ctx context.Context,
	userID int,
	amount money.Money,
	direction domain.Direction,
	category domain.Category,
	status domain.TransactionStatus,
) (*domain.Transaction, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	return r.txns.Create(ctx, &domain.Transaction{
		UserID:    userID,
		Amount:    amount,
		Direction: direction,
		Category:  category,
		Status:    status,
		Reference: r.reference(category),
	})
}
