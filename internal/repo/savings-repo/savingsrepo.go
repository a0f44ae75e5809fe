package savingsrepo

import (
	"context"
	"errors"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/internal/pg"
	"github.com/GlebRadaev/fortvest/pkg/money"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const planColumns = `id, user_id, title, target_amount, current_balance, type, interest_rate, created_at`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanPlan(row pgx.Row, plan *domain.SavingsPlan) error {
	return row.Scan(&plan.ID, &plan.UserID, &plan.Title, &plan.TargetAmount, &plan.CurrentBalance, &plan.Type,
		&plan.InterestRate, &plan.CreatedAt)
}

func (r *Repository) Create(ctx context.Context, plan *domain.SavingsPlan) (*domain.SavingsPlan, error) {
	query := `
        INSERT INTO savings_plans (user_id, title, target_amount, current_balance, type, interest_rate)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query, plan.UserID, plan.Title, plan.TargetAmount, plan.CurrentBalance, plan.Type,
		plan.InterestRate).Scan(&plan.ID, &plan.CreatedAt)
	if err != nil {
		zap.L().Error("can't save savings plan", zap.Error(err))
		return nil, err
	}
	return plan, nil
}

func (r *Repository) ListByUserID(ctx context.Context, userID int) ([]domain.SavingsPlan, error) {
	query := `
        SELECT ` + planColumns + `
        FROM savings_plans
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get savings plans", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var plans []domain.SavingsPlan
	for rows.Next() {
		var plan domain.SavingsPlan
		if err := scanPlan(rows, &plan); err != nil {
			zap.L().Error("can't scan savings plan row", zap.Error(err))
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func (r *Repository) LockByID(ctx context.Context, planID int) (*domain.SavingsPlan, error) {
	if err := pg.RequireTx(ctx); err != nil {
		return nil, err
	}
	query := `
        SELECT ` + planColumns + `
        FROM savings_plans
        WHERE id = $1
        FOR UPDATE
    `
	var plan domain.SavingsPlan
	if err := scanPlan(r.db.QueryRow(ctx, query, planID), &plan); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't lock savings plan", zap.Error(err))
		return nil, err
	}
	return &plan, nil
}

func (r *Repository) UpdateBalance(ctx context.Context, planID int, balance money.Money) error {
	tag, err := r.db.Exec(ctx, `UPDATE savings_plans SET current_balance = $1 WHERE id = $2`, balance, planID)
	if err != nil {
		zap.L().Error("failed to update savings plan", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlanNotFound
	}
	return nil
}
