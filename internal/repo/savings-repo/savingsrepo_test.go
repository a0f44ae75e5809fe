package savingsrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/internal/pg"
	"github.com/GlebRadaev/fortvest/pkg/money"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)
	return New(mockDB), mockDB
}

var (
	createdAt = time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)
	rate      = decimal.NewFromInt(10)
)

func planRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "user_id", "title", "target_amount", "current_balance", "type", "interest_rate", "created_at"})
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`
        INSERT INTO savings_plans (user_id, title, target_amount, current_balance, type, interest_rate)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`)

	plan, err := domain.NewSavingsPlan(1, "Rent", 1200000, "", rate)
	require.NoError(t, err)

	mock.ExpectQuery(query).
		WithArgs(1, "Rent", money.Money(1200000), money.Zero, domain.SavingsFixed, rate).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(9, createdAt))

	result, err := repo.Create(context.Background(), &plan)
	require.NoError(t, err)
	assert.Equal(t, 9, result.ID)

	mock.ExpectQuery(query).
		WithArgs(1, "Rent", money.Money(1200000), money.Zero, domain.SavingsFixed, rate).
		WillReturnError(errors.New("database error"))
	result, err = repo.Create(context.Background(), &plan)
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestRepository_ListByUserID(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + planColumns + ` FROM savings_plans WHERE user_id = $1 ORDER BY created_at DESC`)).
		WithArgs(1).
		WillReturnRows(planRows().
			AddRow(2, 1, "Car", money.Money(5000000), money.Money(0), domain.SavingsTarget, rate, createdAt).
			AddRow(1, 1, "Rent", money.Money(1200000), money.Money(300), domain.SavingsFixed, rate, createdAt))

	plans, err := repo.ListByUserID(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "Car", plans[0].Title)
	assert.Equal(t, money.Money(300), plans[1].CurrentBalance)
}

func TestRepository_LockByID(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`SELECT ` + planColumns + ` FROM savings_plans WHERE id = $1 FOR UPDATE`)

	_, err := repo.LockByID(context.Background(), 1)
	require.ErrorIs(t, err, pg.ErrNoTx)

	mock.ExpectBegin()
	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)
	ctx := pg.WithTx(context.Background(), tx)

	mock.ExpectQuery(query).WithArgs(3).WillReturnError(pgx.ErrNoRows)
	plan, err := repo.LockByID(ctx, 3)
	assert.NoError(t, err)
	assert.Nil(t, plan)

	mock.ExpectQuery(query).WithArgs(4).WillReturnError(errors.New("database error"))
	_, err = repo.LockByID(ctx, 4)
	assert.Error(t, err)
}

func TestRepository_UpdateBalance(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`UPDATE savings_plans SET current_balance = $1 WHERE id = $2`)

	mock.ExpectExec(query).WithArgs(money.Money(700), 1).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	assert.NoError(t, repo.UpdateBalance(context.Background(), 1, 700))

	mock.ExpectExec(query).WithArgs(money.Money(700), 2).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	assert.ErrorIs(t, repo.UpdateBalance(context.Background(), 2, 700), domain.ErrPlanNotFound)
}
