package savingsservice

import (
	"context"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/internal/pg"
	"github.com/GlebRadaev/fortvest/pkg/money"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repo interface {
	Create(ctx context.Context, plan *domain.SavingsPlan) (*domain.SavingsPlan, error)
	ListByUserID(ctx context.Context, userID int) ([]domain.SavingsPlan, error)
	LockByID(ctx context.Context, planID int) (*domain.SavingsPlan, error)
	UpdateBalance(ctx context.Context, planID int, balance money.Money) error
}

type WalletRepo interface {
	LockByUserID(ctx context.Context, userID int) (*domain.Wallet, error)
}

type Ledger interface {
	Post(ctx context.Context, wallet *domain.Wallet, delta money.Money, category domain.Category) (*domain.Posting, error)
}

type Service struct {
	txManager  pg.TXManager
	repo       Repo
	walletRepo WalletRepo
	ledger     Ledger
	rate       decimal.Decimal
}

func New(txManager pg.TXManager, repo Repo, walletRepo WalletRepo, ledger Ledger, rate decimal.Decimal) *Service {
	return &Service{
		txManager:  txManager,
		repo:       repo,
		walletRepo: walletRepo,
		ledger:     ledger,
		rate:       rate,
	}
}

func (s *Service) Create(ctx context.Context, userID int, title string, target money.Money, kind domain.SavingsPlanType) (*domain.SavingsPlan, error) {
	plan, err := domain.NewSavingsPlan(userID, title, target, kind, s.rate)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, &plan)
	if err != nil {
		zap.L().Error("can't save savings plan", zap.Error(err))
		return nil, domain.Classify(err)
	}
	return created, nil
}

func (s *Service) List(ctx context.Context, userID int) ([]domain.SavingsPlan, error) {
	plans, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get savings plans", zap.Error(err))
		return nil, domain.Classify(err)
	}
	return plans, nil
}

// TopUp moves amount from the caller's wallet into one of their plans.
func (s *Service) TopUp(ctx context.Context, userID, planID int, amount money.Money) (*domain.SavingsPosting, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	var result domain.SavingsPosting
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		plan, err := s.repo.LockByID(ctx, planID)
		if err != nil {
			return err
		}
		if plan == nil || plan.UserID != userID {
			return domain.ErrPlanNotFound
		}
		wallet, err := s.walletRepo.LockByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if wallet == nil {
			return domain.ErrWalletNotFound
		}
		if wallet.Balance.LessThan(amount) {
			return domain.ErrInsufficientFunds
		}
		next, err := plan.TopUp(amount)
		if err != nil {
			return err
		}
		if err := s.repo.UpdateBalance(ctx, next.ID, next.CurrentBalance); err != nil {
			return err
		}
		posting, err := s.ledger.Post(ctx, wallet, amount.Neg(), domain.CategorySavingsTopUp)
		if err != nil {
			return err
		}
		result = domain.SavingsPosting{Plan: next, Posting: *posting}
		return nil
	})
	if err != nil {
		zap.L().Error("failed to top up savings plan", zap.Int("plan_id", planID), zap.Int("user_id", userID), zap.Error(err))
		return nil, domain.Classify(err)
	}
	if result.Plan.Reached() {
		zap.L().Info("savings target reached", zap.Int("plan_id", planID), zap.Int("user_id", userID))
	}
	return &result, nil
}
