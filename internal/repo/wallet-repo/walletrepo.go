package walletrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/internal/pg"
	"github.com/GlebRadaev/fortvest/pkg/money"
	"go.uber.org/zap"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var wallet domain.Wallet
	err := row.Scan(&wallet.ID, &wallet.UserID, &wallet.Balance, &wallet.Currency, &wallet.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *Repository) GetByUserID(ctx context.Context, userID int) (*domain.Wallet, error) {
	query := `
        SELECT id, user_id, balance, currency, created_at
        FROM wallets
        WHERE user_id = $1
    `
	wallet, err := scanWallet(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("failed to get wallet", zap.Error(err))
		return nil, err
	}
	return wallet, nil
}

func (r *Repository) Create(ctx context.Context, userID int, currency string) (*domain.Wallet, error) {
	query := `
        INSERT INTO wallets (user_id, balance, currency)
        VALUES ($1, 0, $2)
        RETURNING id, user_id, balance, currency, created_at
    `
	wallet, err := scanWallet(r.db.QueryRow(ctx, query, userID, currency))
	if err != nil {
		if pg.IsUniqueViolation(err) {
			return nil, domain.Conflict("wallet already exists", err)
		}
		zap.L().Error("failed to create wallet", zap.Error(err))
		return nil, err
	}
	return wallet, nil
}

// LockByUserID reads the user's wallet with an exclusive row lock held until the unit ends.
func (r *Repository) LockByUserID(ctx context.Context, userID int) (*domain.Wallet, error) {
	return r.lock(ctx, "user_id", userID)
}

func (r *Repository) LockByID(ctx context.Context, walletID int) (*domain.Wallet, error) {
	return r.lock(ctx, "id", walletID)
}

func (r *Repository) lock(ctx context.Context, column string, value int) (*domain.Wallet, error) {
	if err := pg.RequireTx(ctx); err != nil {
		return nil, err
	}
	query := `
        SELECT id, user_id, balance, currency, created_at
        FROM wallets
        WHERE ` + column + ` = $1
        FOR UPDATE
    `
	wallet, err := scanWallet(r.db.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("failed to lock wallet", zap.String("by", column), zap.Error(err))
		return nil, err
	}
	return wallet, nil
}

func (r *Repository) UpdateBalance(ctx context.Context, walletID int, balance money.Money) error {
	query := `
		UPDATE wallets
		SET balance = $1
		WHERE id = $2
	`
	tag, err := r.db.Exec(ctx, query, balance, walletID)
	if err != nil {
		zap.L().Error("failed to update wallet balance", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWalletNotFound
	}
	return nil
}
