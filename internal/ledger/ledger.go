// Package ledger owns every change to a wallet balance. A balance never moves
// without the matching ledger entry being appended in the same unit of work.
package ledger

import (
	"context"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/pkg/money"
	"go.uber.org/zap"
)

//go:generate mockgen -destination=mock_ledger.go -source=ledger.go -package=ledger

type WalletRepo interface {
	LockByID(ctx context.Context, walletID int) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, walletID int, balance money.Money) error
}

type TransactionRepo interface {
	Create(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error)
}

type Ledger struct {
	mutator  *Mutator
	recorder *Recorder
}

func New(wallets WalletRepo, txns TransactionRepo) *Ledger {
	return &Ledger{
		mutator:  NewMutator(wallets),
		recorder: NewRecorder(txns),
	}
}

func (l *Ledger) WithReference(fn ReferenceFunc) *Ledger {
	l.recorder.WithReference(fn)
	return l
}

// Post applies a signed delta to the wallet and appends the ledger entry for it.
// It must run inside the caller's unit of work.
func (l *Ledger) Post(ctx context.Context, wallet *domain.Wallet, delta money.Money, category domain.Category) (*domain.Posting, error) {
	if delta.IsZero() {
		return nil, domain.ErrInvalidAmount
	}

	balance, err := l.mutator.AdjustBalance(ctx, wallet.ID, delta)
	if err != nil {
		return nil, err
	}

	direction := domain.Credit
	if delta.IsNegative() {
		direction = domain.Debit
	}
	txn, err := l.recorder.Record(ctx, wallet.UserID, delta.Abs(), direction, category, domain.TransactionSuccess)
	if err != nil {
		return nil, err
	}

	zap.L().Info("ledger posting",
		zap.Int("user_id", wallet.UserID),
		zap.String("category", string(category)),
		zap.Int64("delta", delta.Int64()),
		zap.String("reference", txn.Reference),
	)
	return &domain.Posting{Transaction: *txn, Balance: balance}, nil
}
