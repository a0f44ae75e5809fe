package memrepo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/internal/pg"
	"github.com/GlebRadaev/fortvest/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedWallet(t *testing.T, s *Store, email string) *domain.Wallet {
	t.Helper()
	u, err := s.Users().Create(context.Background(), &domain.User{Email: email})
	require.NoError(t, err)
	w, err := s.Wallets().Create(context.Background(), u.ID, "NGN")
	require.NoError(t, err)
	return w
}

func TestStore_CommitAndRollback(t *testing.T) {
	s := New()
	w := seedWallet(t, s, "a@example.com")
	ctx := context.Background()

	err := s.TxManager().Begin(ctx, func(ctx context.Context) error {
		require.NoError(t, s.Wallets().UpdateBalance(ctx, w.ID, 100))

		outside, err := s.Wallets().GetByUserID(context.Background(), w.UserID)
		require.NoError(t, err)
		assert.Equal(t, money.Zero, outside.Balance)
		return nil
	})
	require.NoError(t, err)

	got, _ := s.Wallets().GetByUserID(ctx, w.UserID)
	assert.Equal(t, money.Money(100), got.Balance)

	errBoom := errors.New("boom")
	err = s.TxManager().Begin(ctx, func(ctx context.Context) error {
		require.NoError(t, s.Wallets().UpdateBalance(ctx, w.ID, 999))
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	got, _ = s.Wallets().GetByUserID(ctx, w.UserID)
	assert.Equal(t, money.Money(100), got.Balance)
}

func TestStore_LockRequiresTx(t *testing.T) {
	s := New()
	_, err := s.Wallets().LockByUserID(context.Background(), 1)
	assert.ErrorIs(t, err, pg.ErrNoTx)
	_, err = s.Users().IsAdmin(context.Background(), 1)
	assert.ErrorIs(t, err, pg.ErrNoTx)
}

func TestStore_LockBlocksUntilCommit(t *testing.T) {
	s := New()
	w := seedWallet(t, s, "a@example.com")
	ctx := context.Background()

	locked := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.TxManager().Begin(ctx, func(ctx context.Context) error {
			_, err := s.Wallets().LockByID(ctx, w.ID)
			assert.NoError(t, err)
			close(locked)
			<-release
			return s.Wallets().UpdateBalance(ctx, w.ID, 50)
		})
	}()
	<-locked

	seen := make(chan money.Money, 1)
	go func() {
		_ = s.TxManager().Begin(ctx, func(ctx context.Context) error {
			wallet, err := s.Wallets().LockByID(ctx, w.ID)
			if err != nil {
				return err
			}
			seen <- wallet.Balance
			return nil
		})
	}()

	select {
	case <-seen:
		t.Fatal("second unit acquired a held lock")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	wg.Wait()
	assert.Equal(t, money.Money(50), <-seen)
}

func TestStore_FailOn(t *testing.T) {
	s := New()
	errBoom := errors.New("boom")
	s.FailOn("users.Create", errBoom)

	_, err := s.Users().Create(context.Background(), &domain.User{Email: "a@example.com"})
	assert.ErrorIs(t, err, errBoom)

	s.FailOn("users.Create", nil)
	_, err = s.Users().Create(context.Background(), &domain.User{Email: "a@example.com"})
	assert.NoError(t, err)

	_, err = s.Users().Create(context.Background(), &domain.User{Email: "a@example.com"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestStore_NegativeBalanceRejected(t *testing.T) {
	s := New()
	w := seedWallet(t, s, "a@example.com")
	assert.ErrorIs(t, s.Wallets().UpdateBalance(context.Background(), w.ID, -1), ErrNegativeBalance)
}
