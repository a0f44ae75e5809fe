package transactionrepo

import (
	"context"
	"errors"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/internal/pg"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const transactionColumns = `id, user_id, amount, type, category, status, reference, created_at`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanTransaction(row pgx.Row, txn *domain.Transaction) error {
	return row.Scan(&txn.ID, &txn.UserID, &txn.Amount, &txn.Direction, &txn.Category, &txn.Status, &txn.Reference, &txn.CreatedAt)
}

// Create appends a ledger entry. Entries are never updated or deleted.
func (r *Repository) Create(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, amount, type, category, status, reference)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, txn.UserID, txn.Amount, txn.Direction, txn.Category, txn.Status, txn.Reference).
		Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		if pg.IsUniqueViolation(err) {
			return nil, domain.ErrDuplicateReference
		}
		zap.L().Error("can't save transaction", zap.Error(err))
		return nil, err
	}
	return txn, nil
}

func (r *Repository) ListByUserID(ctx context.Context, userID, limit int) ([]domain.Transaction, error) {
	query := `
        SELECT ` + transactionColumns + `
        FROM transactions
        WHERE user_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		zap.L().Error("failed to fetch transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var txn domain.Transaction
		if err := scanTransaction(rows, &txn); err != nil {
			zap.L().Error("failed to scan transaction row", zap.Error(err))
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

func (r *Repository) FindByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	var txn domain.Transaction
	err := scanTransaction(r.db.QueryRow(ctx, "SELECT "+transactionColumns+" FROM transactions WHERE reference = $1", reference), &txn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("failed to find transaction", zap.Error(err))
		return nil, err
	}
	return &txn, nil
}

// Totals sums the user's settled credits and debits.
func (r *Repository) Totals(ctx context.Context, userID int) (domain.LedgerTotals, error) {
	query := `
        SELECT
            COALESCE(SUM(amount) FILTER (WHERE type = 'CREDIT'), 0),
            COALESCE(SUM(amount) FILTER (WHERE type = 'DEBIT'), 0)
        FROM transactions
        WHERE user_id = $1 AND status = 'SUCCESS'
    `
	var totals domain.LedgerTotals
	if err := r.db.QueryRow(ctx, query, userID).Scan(&totals.Credits, &totals.Debits); err != nil {
		zap.L().Error("failed to sum transactions", zap.Error(err))
		return domain.LedgerTotals{}, err
	}
	return totals, nil
}
