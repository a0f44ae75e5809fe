package loanrepo

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

func loanRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "user_id", "principal_amount", "interest_rate", "duration_months",
		"repayment_amount", "status", "due_date", "created_at"})
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`
        INSERT INTO loans (user_id, principal_amount, interest_rate, duration_months, repayment_amount, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Saves pending loan",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(1, money.Money(300000), rate, 6, money.Money(330000), domain.LoanPending).
					WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(5, createdAt))
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(1, money.Money(300000), rate, 6, money.Money(330000), domain.LoanPending).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			loan, err := domain.NewLoan(1, 300000, rate, 6)
			require.NoError(t, err)

			result, err := repo.Create(context.Background(), &loan)
			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 5, result.ID)
			assert.Equal(t, createdAt, result.CreatedAt)
		})
	}
}

func TestRepository_ListByUserID(t *testing.T) {
	repo, mock := NewMock(t)
	due := createdAt.AddDate(0, 6, 0)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + loanColumns + ` FROM loans WHERE user_id = $1 ORDER BY created_at DESC`)).
		WithArgs(1).
		WillReturnRows(loanRows().
			AddRow(2, 1, money.Money(1000), rate, 3, money.Money(1100), domain.LoanPending, (*time.Time)(nil), createdAt).
			AddRow(1, 1, money.Money(300000), rate, 6, money.Money(0), domain.LoanPaid, &due, createdAt))

	loans, err := repo.ListByUserID(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, loans, 2)
	assert.Nil(t, loans[0].DueDate)
	assert.Equal(t, domain.LoanPaid, loans[1].Status)
	assert.Equal(t, due, *loans[1].DueDate)
}

func TestRepository_LockByID(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`SELECT ` + loanColumns + ` FROM loans WHERE id = $1 FOR UPDATE`)

	_, err := repo.LockByID(context.Background(), 1)
	require.ErrorIs(t, err, pg.ErrNoTx)

	mock.ExpectBegin()
	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)
	ctx := pg.WithTx(context.Background(), tx)

	mock.ExpectQuery(query).
		WithArgs(1).
		WillReturnRows(loanRows().AddRow(1, 4, money.Money(300000), rate, 6, money.Money(330000), domain.LoanActive, (*time.Time)(nil), createdAt))
	loan, err := repo.LockByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, loan.UserID)
	assert.Equal(t, domain.LoanActive, loan.Status)

	mock.ExpectQuery(query).WithArgs(2).WillReturnError(pgx.ErrNoRows)
	loan, err = repo.LockByID(ctx, 2)
	assert.NoError(t, err)
	assert.Nil(t, loan)
}

func TestRepository_Update(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`UPDATE loans SET status = $1, repayment_amount = $2, due_date = $3 WHERE id = $4`)
	due := createdAt.AddDate(0, 6, 0)
	loan := &domain.Loan{ID: 1, Status: domain.LoanActive, RepaymentAmount: 330000, DueDate: &due}

	tests := []struct {
		name      string
		mockSetup func()
		expectErr error
	}{
		{
			name: "Updates loan",
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs(domain.LoanActive, money.Money(330000), &due, 1).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "Missing loan",
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs(domain.LoanActive, money.Money(330000), &due, 1).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			expectErr: domain.ErrLoanNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := repo.Update(context.Background(), loan)
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
