package loanservice

import (
	"context"
	"time"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/internal/pg"
	"github.com/GlebRadaev/fortvest/pkg/money"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repo interface {
	Create(ctx context.Context, loan *domain.Loan) (*domain.Loan, error)
	ListByUserID(ctx context.Context, userID int) ([]domain.Loan, error)
	LockByID(ctx context.Context, loanID int) (*domain.Loan, error)
	Update(ctx context.Context, loan *domain.Loan) error
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
	rate       decimal.Decimal
	now        func() time.Time
}

func New(txManager pg.TXManager, repo Repo, userRepo UserRepo, walletRepo WalletRepo, ledger Ledger, rate decimal.Decimal) *Service {
	return &Service{
		txManager:  txManager,
		repo:       repo,
		userRepo:   userRepo,
		walletRepo: walletRepo,
		ledger:     ledger,
		rate:       rate,
		now:        time.Now,
	}
}

// Apply files a pending loan priced at the configured flat rate.
func (s *Service) Apply(ctx context.Context, userID int, principal money.Money, months int) (*domain.Loan, error) {
	loan, err := domain.NewLoan(userID, principal, s.rate, months)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, &loan)
	if err != nil {
		zap.L().Error("can't save loan", zap.Error(err))
		return nil, domain.Classify(err)
	}
	zap.L().Info("loan application received",
		zap.Int("user_id", userID),
		zap.Int("loan_id", created.ID),
		zap.Int64("principal", principal.Int64()),
	)
	return created, nil
}

func (s *Service) ListByUser(ctx context.Context, userID int) ([]domain.Loan, error) {
	loans, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get loans", zap.Error(err))
		return nil, domain.Classify(err)
	}
	return loans, nil
}

func (s *Service) requireAdmin(ctx context.Context, userID int) error {
	isAdmin, err := s.userRepo.IsAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return domain.ErrForbidden
	}
	return nil
}

// Approve activates a pending loan and disburses the principal to the borrower.
func (s *Service) Approve(ctx context.Context, adminID, loanID int) (*domain.LoanPosting, error) {
	var result domain.LoanPosting
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		if err := s.requireAdmin(ctx, adminID); err != nil {
			return err
		}
		loan, err := s.repo.LockByID(ctx, loanID)
		if err != nil {
			return err
		}
		if loan == nil {
			return domain.ErrLoanNotFound
		}
		next, err := loan.Approve(s.now())
		if err != nil {
			return err
		}
		wallet, err := s.walletRepo.LockByUserID(ctx, next.UserID)
		if err != nil {
			return err
		}
		if wallet == nil {
			return domain.ErrWalletNotFound
		}
		if err := s.repo.Update(ctx, &next); err != nil {
			return err
		}
		posting, err := s.ledger.Post(ctx, wallet, next.PrincipalAmount, domain.CategoryLoanDisbursement)
		if err != nil {
			return err
		}
		result = domain.LoanPosting{Loan: next, Posting: *posting}
		return nil
	})
	if err != nil {
		zap.L().Error("failed to approve loan", zap.Int("loan_id", loanID), zap.Int("admin_id", adminID), zap.Error(err))
		return nil, domain.Classify(err)
	}
	return &result, nil
}

// Reject closes a pending loan. No money moves.
func (s *Service) Reject(ctx context.Context, adminID, loanID int) (*domain.Loan, error) {
	var result domain.Loan
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		if err := s.requireAdmin(ctx, adminID); err != nil {
			return err
		}
		loan, err := s.repo.LockByID(ctx, loanID)
		if err != nil {
			return err
		}
		if loan == nil {
			return domain.ErrLoanNotFound
		}
		next, err := loan.Reject()
		if err != nil {
			return err
		}
		if err := s.repo.Update(ctx, &next); err != nil {
			return err
		}
		result = next
		return nil
	})
	if err != nil {
		zap.L().Error("failed to reject loan", zap.Int("loan_id", loanID), zap.Error(err))
		return nil, domain.Classify(err)
	}
	zap.L().Info("loan rejected", zap.Int("loan_id", loanID), zap.Int("admin_id", adminID))
	return &result, nil
}

// Repay debits the caller's wallet by min(amount, outstanding) and reduces the loan balance.
func (s *Service) Repay(ctx context.Context, userID, loanID int, amount money.Money) (*domain.LoanPosting, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	var result domain.LoanPosting
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		loan, err := s.repo.LockByID(ctx, loanID)
		if err != nil {
			return err
		}
		if loan == nil || loan.UserID != userID {
			return domain.ErrLoanNotFound
		}
		wallet, err := s.walletRepo.LockByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if wallet == nil {
			return domain.ErrWalletNotFound
		}
		next, paid, err := loan.Repay(amount)
		if err != nil {
			return err
		}
		if wallet.Balance.LessThan(paid) {
			return domain.ErrInsufficientFunds
		}
		if err := s.repo.Update(ctx, &next); err != nil {
			return err
		}
		posting, err := s.ledger.Post(ctx, wallet, paid.Neg(), domain.CategoryLoanRepayment)
		if err != nil {
			return err
		}
		result = domain.LoanPosting{Loan: next, Posting: *posting}
		return nil
	})
	if err != nil {
		zap.L().Error("failed to repay loan", zap.Int("loan_id", loanID), zap.Int("user_id", userID), zap.Error(err))
		return nil, domain.Classify(err)
	}
	if result.Loan.Status == domain.LoanPaid {
		zap.L().Info("loan fully repaid", zap.Int("loan_id", loanID), zap.Int("user_id", userID))
	}
	return &result, nil
}
