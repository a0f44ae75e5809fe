package loanrepo

import (
	"context"
	"errors"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/internal/pg"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const loanColumns = `id, user_id, principal_amount, interest_rate, duration_months, repayment_amount, status, due_date, created_at`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanLoan(row pgx.Row, loan *domain.Loan) error {
	return row.Scan(&loan.ID, &loan.UserID, &loan.PrincipalAmount, &loan.InterestRate, &loan.DurationMonths,
		&loan.RepaymentAmount, &loan.Status, &loan.DueDate, &loan.CreatedAt)
}

func (r *Repository) Create(ctx context.Context, loan *domain.Loan) (*domain.Loan, error) {
	query := `
        INSERT INTO loans (user_id, principal_amount, interest_rate, duration_months, repayment_amount, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query, loan.UserID, loan.PrincipalAmount, loan.InterestRate, loan.DurationMonths,
		loan.RepaymentAmount, loan.Status).Scan(&loan.ID, &loan.CreatedAt)
	if err != nil {
		zap.L().Error("can't save loan", zap.Error(err))
		return nil, err
	}
	return loan, nil
}

func (r *Repository) ListByUserID(ctx context.Context, userID int) ([]domain.Loan, error) {
	query := `
        SELECT ` + loanColumns + `
        FROM loans
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get loans", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		var loan domain.Loan
		if err := scanLoan(rows, &loan); err != nil {
			zap.L().Error("can't scan loan row", zap.Error(err))
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

// LockByID reads a loan with an exclusive row lock held until the unit ends.
func (r *Repository) LockByID(ctx context.Context, loanID int) (*domain.Loan, error) {
	if err := pg.RequireTx(ctx); err != nil {
		return nil, err
	}
	query := `
        SELECT ` + loanColumns + `
        FROM loans
        WHERE id = $1
        FOR UPDATE
    `
	var loan domain.Loan
	if err := scanLoan(r.db.QueryRow(ctx, query, loanID), &loan); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't lock loan", zap.Error(err))
		return nil, err
	}
	return &loan, nil
}

func (r *Repository) Update(ctx context.Context, loan *domain.Loan) error {
	query := `
        UPDATE loans
        SET status = $1, repayment_amount = $2, due_date = $3
        WHERE id = $4
    `
	tag, err := r.db.Exec(ctx, query, loan.Status, loan.RepaymentAmount, loan.DueDate, loan.ID)
	if err != nil {
		zap.L().Error("failed to update loan", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLoanNotFound
	}
	return nil
}
