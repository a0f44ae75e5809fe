package userrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/internal/pg"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)
	return New(mockDB), mockDB
}

func txContext(t *testing.T, mock pgxmock.PgxPoolIface) context.Context {
	mock.ExpectBegin()
	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)
	return pg.WithTx(context.Background(), tx)
}

var createdAt = time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)

func userRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "full_name", "email", "phone_number", "password_hash", "is_admin", "is_verified", "created_at"})
}

func TestRepository_FindByEmail(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta("SELECT " + userColumns + " FROM users WHERE email = $1")

	tests := []struct {
		name      string
		email     string
		mockSetup func()
		expectErr bool
		result    *domain.User
	}{
		{
			name:  "User found",
			email: "ada@example.com",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs("ada@example.com").
					WillReturnRows(userRows().AddRow(1, "Ada Obi", "ada@example.com", "0800", "hashed", false, false, createdAt))
			},
			result: &domain.User{
				ID:           1,
				FullName:     "Ada Obi",
				Email:        "ada@example.com",
				PhoneNumber:  "0800",
				PasswordHash: "hashed",
				CreatedAt:    createdAt,
			},
		},
		{
			name:  "User not found",
			email: "ghost@example.com",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs("ghost@example.com").
					WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name:  "Database error",
			email: "ada@example.com",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs("ada@example.com").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByEmail(context.Background(), tt.email)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
		})
	}
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta("SELECT " + userColumns + " FROM users WHERE id = $1")

	mock.ExpectQuery(query).
		WithArgs(7).
		WillReturnRows(userRows().AddRow(7, "Admin", "root@example.com", "", "hashed", true, true, createdAt))
	user, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
	assert.Equal(t, 7, user.ID)

	mock.ExpectQuery(query).WithArgs(8).WillReturnError(pgx.ErrNoRows)
	user, err = repo.GetByID(context.Background(), 8)
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`
		INSERT INTO users (full_name, email, phone_number, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_admin, is_verified, created_at
	`)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr error
		result    *domain.User
	}{
		{
			name: "Create user successfully",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs("Ada Obi", "ada@example.com", "0800", "hashed").
					WillReturnRows(pgxmock.NewRows([]string{"id", "is_admin", "is_verified", "created_at"}).
						AddRow(1, false, false, createdAt))
			},
			result: &domain.User{
				ID:           1,
				FullName:     "Ada Obi",
				Email:        "ada@example.com",
				PhoneNumber:  "0800",
				PasswordHash: "hashed",
				CreatedAt:    createdAt,
			},
		},
		{
			name: "Duplicate email",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs("Ada Obi", "ada@example.com", "0800", "hashed").
					WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
			},
			expectErr: domain.ErrEmailTaken,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs("Ada Obi", "ada@example.com", "0800", "hashed").
					WillReturnError(errors.New("database error"))
			},
			expectErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			user := &domain.User{FullName: "Ada Obi", Email: "ada@example.com", PhoneNumber: "0800", PasswordHash: "hashed"}
			result, err := repo.Create(context.Background(), user)
			if tt.expectErr != nil {
				assert.EqualError(t, err, tt.expectErr.Error())
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
		})
	}
}

func TestRepository_IsAdmin(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta("SELECT is_admin FROM users WHERE id = $1 FOR SHARE")

	_, err := repo.IsAdmin(context.Background(), 1)
	assert.ErrorIs(t, err, pg.ErrNoTx)

	ctx := txContext(t, mock)

	mock.ExpectQuery(query).WithArgs(1).WillReturnRows(pgxmock.NewRows([]string{"is_admin"}).AddRow(true))
	ok, err := repo.IsAdmin(ctx, 1)
	assert.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectQuery(query).WithArgs(2).WillReturnError(pgx.ErrNoRows)
	ok, err = repo.IsAdmin(ctx, 2)
	assert.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectQuery(query).WithArgs(3).WillReturnError(errors.New("database error"))
	_, err = repo.IsAdmin(ctx, 3)
	assert.Error(t, err)
}

func TestRepository_ListIDs(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE id > $1 ORDER BY id ASC LIMIT $2")).
		WithArgs(10, 3).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(11).AddRow(12).AddRow(15))

	ids, err := repo.ListIDs(context.Background(), 10, 3)
	assert.NoError(t, err)
	assert.Equal(t, []int{11, 12, 15}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
