package walletservice

import (
	"context"
	"errors"
	"testing"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/internal/pg"
	"github.com/GlebRadaev/fortvest/pkg/money"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Service, *pg.MockTXManager, *MockWalletRepo, *MockTransactionRepo, *MockLedger) {
	ctrl := gomock.NewController(t)
	txManager := pg.NewMockTXManager(ctrl)
	walletRepo := NewMockWalletRepo(ctrl)
	transactionRepo := NewMockTransactionRepo(ctrl)
	ledger := NewMockLedger(ctrl)
	service := New(txManager, walletRepo, transactionRepo, ledger)
	return service, txManager, walletRepo, transactionRepo, ledger
}

func TestFund(t *testing.T) {
	service, txManager, walletRepo, _, ledger := NewMock(t)
	wallet := &domain.Wallet{ID: 10, UserID: 1, Balance: 100}

	inline := func() {
		txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error {
			return fn(ctx)
		})
	}

	tests := []struct {
		name            string
		amount          money.Money
		prepareMock     func()
		expectedPosting *domain.Posting
		expectedError   error
		expectedKind    domain.Kind
	}{
		{
			name:   "Credits the wallet",
			amount: 500,
			prepareMock: func() {
				inline()
				walletRepo.EXPECT().LockByUserID(gomock.Any(), 1).Return(wallet, nil)
				ledger.EXPECT().Post(gomock.Any(), wallet, money.Money(500), domain.CategoryWalletFunding).Return(&domain.Posting{
					Transaction: domain.Transaction{Reference: "FUND-1", Amount: 500, Direction: domain.Credit},
					Balance:     600,
				}, nil)
			},
			expectedPosting: &domain.Posting{
				Transaction: domain.Transaction{Reference: "FUND-1", Amount: 500, Direction: domain.Credit},
				Balance:     600,
			},
		},
		{
			name:          "Zero amount",
			amount:        0,
			prepareMock:   func() {},
			expectedError: domain.ErrInvalidAmount,
		},
		{
			name:          "Negative amount",
			amount:        -5,
			prepareMock:   func() {},
			expectedError: domain.ErrInvalidAmount,
		},
		{
			name:   "Missing wallet",
			amount: 500,
			prepareMock: func() {
				inline()
				walletRepo.EXPECT().LockByUserID(gomock.Any(), 1).Return(nil, nil)
			},
			expectedError: domain.ErrWalletNotFound,
		},
		{
			name:   "Ledger failure",
			amount: 500,
			prepareMock: func() {
				inline()
				walletRepo.EXPECT().LockByUserID(gomock.Any(), 1).Return(wallet, nil)
				ledger.EXPECT().Post(gomock.Any(), wallet, money.Money(500), domain.CategoryWalletFunding).Return(nil, errors.New("connection reset"))
			},
			expectedKind: domain.KindStorage,
		},
		{
			name:   "Commit failure",
			amount: 500,
			prepareMock: func() {
				txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).Return(errors.New("commit failed"))
			},
			expectedKind: domain.KindStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			posting, err := service.Fund(context.Background(), 1, tt.amount)
			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, posting)
			case tt.expectedKind != domain.KindUnknown:
				assert.Equal(t, tt.expectedKind, domain.KindOf(err))
				assert.Nil(t, posting)
			default:
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedPosting, posting)
			}
		})
	}
}

func TestGetBalance(t *testing.T) {
	service, _, walletRepo, _, _ := NewMock(t)

	tests := []struct {
		name           string
		prepareMock    func()
		expectedWallet *domain.Wallet
		expectedError  error
	}{
		{
			name: "Retrieve balance successfully",
			prepareMock: func() {
				walletRepo.EXPECT().GetByUserID(gomock.Any(), 1).Return(&domain.Wallet{ID: 10, UserID: 1, Balance: 900, Currency: "NGN"}, nil)
			},
			expectedWallet: &domain.Wallet{ID: 10, UserID: 1, Balance: 900, Currency: "NGN"},
		},
		{
			name: "Wallet not found",
			prepareMock: func() {
				walletRepo.EXPECT().GetByUserID(gomock.Any(), 1).Return(nil, nil)
			},
			expectedError: domain.ErrWalletNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			wallet, err := service.GetBalance(context.Background(), 1)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedWallet, wallet)
			}
		})
	}
}

func TestListTransactions(t *testing.T) {
	service, _, _, transactionRepo, _ := NewMock(t)

	tests := []struct {
		name          string
		limit         int
		expectedLimit int
	}{
		{name: "Default limit", limit: 0, expectedLimit: DefaultStatementLimit},
		{name: "Requested limit", limit: 10, expectedLimit: 10},
		{name: "Capped limit", limit: 5000, expectedLimit: MaxStatementLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transactionRepo.EXPECT().ListByUserID(gomock.Any(), 1, tt.expectedLimit).Return([]domain.Transaction{{ID: 1}}, nil)

			txns, err := service.ListTransactions(context.Background(), 1, tt.limit)
			assert.NoError(t, err)
			assert.Len(t, txns, 1)
		})
	}

	t.Run("Store error", func(t *testing.T) {
		transactionRepo.EXPECT().ListByUserID(gomock.Any(), 1, DefaultStatementLimit).Return(nil, errors.New("db error"))

		_, err := service.ListTransactions(context.Background(), 1, 0)
		assert.Equal(t, domain.KindStorage, domain.KindOf(err))
	})
}
