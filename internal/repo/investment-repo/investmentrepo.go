package investmentrepo

import (
	"context"
	"errors"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/internal/pg"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const opportunityColumns = `id, title, description, unit_price, roi_percentage, duration_months, is_active, created_at`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanOpportunity(row pgx.Row, o *domain.InvestmentOpportunity) error {
	return row.Scan(&o.ID, &o.Title, &o.Description, &o.UnitPrice, &o.ROIPercentage, &o.DurationMonths, &o.IsActive, &o.CreatedAt)
}

func (r *Repository) CreateOpportunity(ctx context.Context, o *domain.InvestmentOpportunity) (*domain.InvestmentOpportunity, error) {
	query := `
        INSERT INTO investment_opportunities (title, description, unit_price, roi_percentage, duration_months, is_active)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query, o.Title, o.Description, o.UnitPrice, o.ROIPercentage, o.DurationMonths, o.IsActive).
		Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		zap.L().Error("can't save investment opportunity", zap.Error(err))
		return nil, err
	}
	return o, nil
}

func (r *Repository) ListActive(ctx context.Context) ([]domain.InvestmentOpportunity, error) {
	query := `
        SELECT ` + opportunityColumns + `
        FROM investment_opportunities
        WHERE is_active = TRUE
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zap.L().Error("can't get investment opportunities", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var opportunities []domain.InvestmentOpportunity
	for rows.Next() {
		var o domain.InvestmentOpportunity
		if err := scanOpportunity(rows, &o); err != nil {
			zap.L().Error("can't scan investment opportunity row", zap.Error(err))
			return nil, err
		}
		opportunities = append(opportunities, o)
	}
	return opportunities, rows.Err()
}

// ShareOpportunity reads an opportunity under a shared lock so its price and
// status stay fixed while a purchase is priced against it.
func (r *Repository) ShareOpportunity(ctx context.Context, id int) (*domain.InvestmentOpportunity, error) {
	if err := pg.RequireTx(ctx); err != nil {
		return nil, err
	}
	query := `
        SELECT ` + opportunityColumns + `
        FROM investment_opportunities
        WHERE id = $1
        FOR SHARE
    `
	var o domain.InvestmentOpportunity
	if err := scanOpportunity(r.db.QueryRow(ctx, query, id), &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't read investment opportunity", zap.Error(err))
		return nil, err
	}
	return &o, nil
}

func (r *Repository) CreateHolding(ctx context.Context, inv *domain.UserInvestment) (*domain.UserInvestment, error) {
	query := `
        INSERT INTO user_investments (user_id, investment_id, units_owned, amount_invested)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query, inv.UserID, inv.InvestmentID, inv.UnitsOwned, inv.AmountInvested).
		Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		zap.L().Error("can't save user investment", zap.Error(err))
		return nil, err
	}
	return inv, nil
}

func (r *Repository) ListHoldings(ctx context.Context, userID int) ([]domain.Holding, error) {
	query := `
        SELECT ui.id, ui.user_id, ui.investment_id, ui.units_owned, ui.amount_invested, ui.created_at,
               io.title, io.roi_percentage
        FROM user_investments ui
        JOIN investment_opportunities io ON io.id = ui.investment_id
        WHERE ui.user_id = $1
        ORDER BY ui.created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get user investments", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var holdings []domain.Holding
	for rows.Next() {
		var h domain.Holding
		err := rows.Scan(&h.ID, &h.UserID, &h.InvestmentID, &h.UnitsOwned, &h.AmountInvested, &h.CreatedAt,
			&h.Title, &h.ROIPercentage)
		if err != nil {
			zap.L().Error("can't scan user investment row", zap.Error(err))
			return nil, err
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}
