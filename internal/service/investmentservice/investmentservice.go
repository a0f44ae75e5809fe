package investmentservice

import (
	"context"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/internal/pg"
	"github.com/GlebRadaev/fortvest/pkg/money"
	"go.uber.org/zap"
)

type Repo interface {
	CreateOpportunity(ctx context.Context, o *domain.InvestmentOpportunity) (*domain.InvestmentOpportunity, error)
	ListActive(ctx context.Context) ([]domain.InvestmentOpportunity, error)
	ShareOpportunity(ctx context.Context, id int) (*domain.InvestmentOpportunity, error)
	CreateHolding(ctx context.Context, inv *domain.UserInvestment) (*domain.UserInvestment, error)
	ListHoldings(ctx context.Context, userID int) ([]domain.Holding, error)
}

type UserRepo interface {
	IsAdmin(ctx context.Context, userID int) (bool, error)
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
	userRepo   UserRepo
	walletRepo WalletRepo
	ledger     Ledger
}

func New(txManager pg.TXManager, repo Repo, userRepo UserRepo, walletRepo WalletRepo, ledger Ledger) *Service {
	return &Service{
		txManager:  txManager,
		repo:       repo,
		userRepo:   userRepo,
		walletRepo: walletRepo,
		ledger:     ledger,
	}
}

// CreateOpportunity publishes a new opportunity. Only admins may call it.
func (s *Service) CreateOpportunity(ctx context.Context, adminID int, draft domain.InvestmentOpportunity) (*domain.InvestmentOpportunity, error) {
	opportunity, err := domain.NewInvestmentOpportunity(draft.Title, draft.Description, draft.UnitPrice, draft.ROIPercentage, draft.DurationMonths)
	if err != nil {
		return nil, err
	}

	var created *domain.InvestmentOpportunity
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		isAdmin, err := s.userRepo.IsAdmin(ctx, adminID)
		if err != nil {
			return err
		}
		if !isAdmin {
			return domain.ErrForbidden
		}
		created, err = s.repo.CreateOpportunity(ctx, &opportunity)
		return err
	})
	if err != nil {
		zap.L().Error("failed to create investment opportunity", zap.Int("admin_id", adminID), zap.Error(err))
		return nil, domain.Classify(err)
	}
	zap.L().Info("investment opportunity published", zap.Int("opportunity_id", created.ID))
	return created, nil
}

func (s *Service) ListActive(ctx context.Context) ([]domain.InvestmentOpportunity, error) {
	opportunities, err := s.repo.ListActive(ctx)
	if err != nil {
		zap.L().Error("failed to get investment opportunities", zap.Error(err))
		return nil, domain.Classify(err)
	}
	return opportunities, nil
}

// Invest buys units of an active opportunity with funds from the caller's wallet.
func (s *Service) Invest(ctx context.Context, userID, opportunityID, units int) (*domain.InvestmentPosting, error) {
	if units < 1 {
		return nil, domain.ErrInvalidUnits
	}

	var result domain.InvestmentPosting
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		opportunity, err := s.repo.ShareOpportunity(ctx, opportunityID)
		if err != nil {
			return err
		}
		if opportunity == nil {
			return domain.ErrOpportunityNotFound
		}
		purchase, err := opportunity.Purchase(userID, units)
		if err != nil {
			return err
		}
		wallet, err := s.walletRepo.LockByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if wallet == nil {
			return domain.ErrWalletNotFound
		}
		if wallet.Balance.LessThan(purchase.AmountInvested) {
			return domain.ErrInsufficientFunds
		}
		posting, err := s.ledger.Post(ctx, wallet, purchase.AmountInvested.Neg(), domain.CategoryInvestmentPurchase)
		if err != nil {
			return err
		}
		holding, err := s.repo.CreateHolding(ctx, &purchase)
		if err != nil {
			return err
		}
		result = domain.InvestmentPosting{Investment: *holding, Posting: *posting}
		return nil
	})
	if err != nil {
		zap.L().Error("failed to invest",
			zap.Int("opportunity_id", opportunityID),
			zap.Int("user_id", userID),
			zap.Int("units", units),
			zap.Error(err),
		)
		return nil, domain.Classify(err)
	}
	return &result, nil
}

func (s *Service) ListByUser(ctx context.Context, userID int) ([]domain.Holding, error) {
	holdings, err := s.repo.ListHoldings(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get holdings", zap.Error(err))
		return nil, domain.Classify(err)
	}
	return holdings, nil
}
