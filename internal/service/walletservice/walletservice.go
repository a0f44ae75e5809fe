package walletservice

import (
	"context"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/internal/pg"
	"github.com/GlebRadaev/fortvest/pkg/money"
	"go.uber.org/zap"
)

//go:generate mockgen -destination=mock_repo.go -source=walletservice.go -package=walletservice

type WalletRepo interface {
	GetByUserID(ctx context.Context, userID int) (*domain.Wallet, error)
	LockByUserID(ctx context.Context, userID int) (*domain.Wallet, error)
}

type TransactionRepo interface {
	ListByUserID(ctx context.Context, userID, limit int) ([]domain.Transaction, error)
}

type Ledger interface {
	Post(ctx context.Context, wallet *domain.Wallet, delta money.Money, category domain.Category) (*domain.Posting, error)
}

const (
	DefaultStatementLimit = 50
	MaxStatementLimit     = 200
)

type Service struct {
	txManager       pg.TXManager
	walletRepo      WalletRepo
	transactionRepo TransactionRepo
	ledger          Ledger
}

func New(txManager pg.TXManager, walletRepo WalletRepo, transactionRepo TransactionRepo, ledger Ledger) *Service {
	return &Service{
		txManager:       txManager,
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		ledger:          ledger,
	}
}

// Fund credits the caller's wallet. Funding is self-declared and settles synchronously.
func (s *Service) Fund(ctx context.Context, userID int, amount money.Money) (*domain.Posting, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	var posting *domain.Posting
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		wallet, err := s.walletRepo.LockByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if wallet == nil {
			return domain.ErrWalletNotFound
		}
		posting, err = s.ledger.Post(ctx, wallet, amount, domain.CategoryWalletFunding)
		return err
	})
	if err != nil {
		zap.L().Error("failed to fund wallet", zap.Int("user_id", userID), zap.Error(err))
		return nil, domain.Classify(err)
	}
	return posting, nil
}

func (s *Service) GetBalance(ctx context.Context, userID int) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get wallet", zap.Error(err))
		return nil, domain.Classify(err)
	}
	if wallet == nil {
		return nil, domain.ErrWalletNotFound
	}
	return wallet, nil
}

// ListTransactions returns the caller's ledger statement, newest first.
func (s *Service) ListTransactions(ctx context.Context, userID, limit int) ([]domain.Transaction, error) {
	switch {
	case limit <= 0:
		limit = DefaultStatementLimit
	case limit > MaxStatementLimit:
		limit = MaxStatementLimit
	}
	txns, err := s.transactionRepo.ListByUserID(ctx, userID, limit)
	if err != nil {
		zap.L().Error("failed to fetch transactions", zap.Error(err))
		return nil, domain.Classify(err)
	}
	return txns, nil
}
