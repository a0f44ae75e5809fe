package ledger

import (
	"context"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/pkg/money"
)

// Mutator changes wallet balances. It never opens a transaction of its own and
// writes no ledger entries.
type Mutator struct {
	wallets WalletRepo
}

func NewMutator(wallets WalletRepo) *Mutator {
	return &Mutator{wallets: wallets}
}

// AdjustBalance locks the wallet row and stores balance+delta, failing with
// ErrInsufficientFunds when the result would be negative and ErrAmountTooLarge
// when it does not fit in Money.
func (m *Mutator) AdjustBalance(ctx context.Context, walletID int, delta money.Money) (money.Money, error) {
	wallet, err := m.wallets.LockByID(ctx, walletID)
	if err != nil {
		return money.Zero, err
	}
	if wallet == nil {
		return money.Zero, domain.ErrWalletNotFound
	}

	next, err := wallet.Balance.AddChecked(delta)
	if err != nil {
		return wallet.Balance, domain.ErrAmountTooLarge
	}
	if next.IsNegative() {
		return wallet.Balance, domain.ErrInsufficientFunds
	}
	if err := m.wallets.UpdateBalance(ctx, walletID, next); err != nil {
		return wallet.Balance, err
	}
	return next, nil
}
