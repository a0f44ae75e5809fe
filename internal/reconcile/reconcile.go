// Package reconcile checks that every wallet balance equals the net of its settled ledger.
// Mismatches are reported, never repaired.
package reconcile

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/internal/pg"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type UserRepo interface {
	IsAdmin(ctx context.Context, userID int) (bool, error)
	ListIDs(ctx context.Context, afterID, limit int) ([]int, error)
}

type WalletRepo interface {
	LockByUserID(ctx context.Context, userID int) (*domain.Wallet, error)
}

type TransactionRepo interface {
	Totals(ctx context.Context, userID int) (domain.LedgerTotals, error)
}

const defaultPageSize = 500

type Report struct {
	Checked    int
	Mismatched int
	Failed     int
}

type Service struct {
	txManager       pg.TXManager
	userRepo        UserRepo
	walletRepo      WalletRepo
	transactionRepo TransactionRepo
	workerPool      WorkerPoolI
	interval        time.Duration
	pageSize        int
	inFlight        sync.Map
}

func New(txManager pg.TXManager, userRepo UserRepo, walletRepo WalletRepo, transactionRepo TransactionRepo, interval time.Duration, workers int) *Service {
	return &Service{
		txManager:       txManager,
		userRepo:        userRepo,
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		workerPool:      NewWorkerPool(workers),
		interval:        interval,
		pageSize:        defaultPageSize,
	}
}

// Run sweeps every interval and blocks until ctx is done and the current sweep
// has finished. A non-positive interval disables it and Run returns at once.
func (s *Service) Run(ctx context.Context) {
	if s.interval <= 0 {
		zap.L().Info("reconciliation disabled")
		return
	}
	zap.L().Info("reconciliation started", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer s.workerPool.Close()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("context canceled, stopping reconciliation")
			return
		case <-ticker.C:
			report, err := s.Sweep(ctx)
			if err != nil {
				zap.L().Error("reconciliation sweep failed", zap.Error(err))
				continue
			}
			zap.L().Info("reconciliation sweep finished",
				zap.Int("checked", report.Checked),
				zap.Int("mismatched", report.Mismatched),
				zap.Int("failed", report.Failed),
			)
		}
	}
}

// Sweep checks every user once, paging through ids in ascending order.
func (s *Service) Sweep(ctx context.Context) (Report, error) {
	var checked, mismatched, failed atomic.Int64

	afterID := 0
	for {
		ids, err := s.userRepo.ListIDs(ctx, afterID, s.pageSize)
		if err != nil {
			return Report{}, err
		}
		if len(ids) == 0 {
			break
		}

		var g errgroup.Group
		for _, userID := range ids {
			if _, loaded := s.inFlight.LoadOrStore(userID, struct{}{}); loaded {
				continue
			}
			g.Go(func() error {
				defer s.inFlight.Delete(userID)
				return s.workerPool.AddTask(ctx, func() error {
					rec, err := s.Check(ctx, userID)
					if err != nil {
						failed.Add(1)
						return err
					}
					checked.Add(1)
					if !rec.Balanced {
						mismatched.Add(1)
					}
					return nil
				})
			})
		}
		if err := g.Wait(); err != nil {
			zap.L().Error("error reconciling wallets", zap.Error(err))
		}
		if ctx.Err() != nil {
			return Report{}, ctx.Err()
		}

		afterID = ids[len(ids)-1]
		if len(ids) < s.pageSize {
			break
		}
	}

	return Report{
		Checked:    int(checked.Load()),
		Mismatched: int(mismatched.Load()),
		Failed:     int(failed.Load()),
	}, nil
}

// Check compares one wallet with its ledger while holding the wallet row lock,
// so no posting can land between the two reads.
func (s *Service) Check(ctx context.Context, userID int) (*domain.Reconciliation, error) {
	var rec domain.Reconciliation
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		wallet, err := s.walletRepo.LockByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if wallet == nil {
			return domain.ErrWalletNotFound
		}
		totals, err := s.transactionRepo.Totals(ctx, userID)
		if err != nil {
			return err
		}
		rec = domain.Reconciliation{
			UserID:   userID,
			Balance:  wallet.Balance,
			Totals:   totals,
			Balanced: totals.Net() == wallet.Balance,
		}
		return nil
	})
	if err != nil {
		return nil, domain.Classify(err)
	}
	if !rec.Balanced {
		zap.L().Error("wallet does not match ledger",
			zap.Int("user_id", userID),
			zap.Int64("balance", rec.Balance.Int64()),
			zap.Int64("credits", rec.Totals.Credits.Int64()),
			zap.Int64("debits", rec.Totals.Debits.Int64()),
		)
	}
	return &rec, nil
}

// Audit runs Check on behalf of an admin.
func (s *Service) Audit(ctx context.Context, adminID, userID int) (*domain.Reconciliation, error) {
	var rec *domain.Reconciliation
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		isAdmin, err := s.userRepo.IsAdmin(ctx, adminID)
		if err != nil {
			return err
		}
		if !isAdmin {
			return domain.ErrForbidden
		}
		rec, err = s.Check(ctx, userID)
		return err
	})
	if err != nil {
		return nil, domain.Classify(err)
	}
	return rec, nil
}
