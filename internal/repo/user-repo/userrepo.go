package userrepo

import (
	"context"
	"errors"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/internal/pg"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const userColumns = `id, full_name, email, phone_number, password_hash, is_admin, is_verified, created_at`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanUser(row pgx.Row, user *domain.User) error {
	return row.Scan(&user.ID, &user.FullName, &user.Email, &user.PhoneNumber, &user.PasswordHash,
		&user.IsAdmin, &user.IsVerified, &user.CreatedAt)
}

func (repo *Repository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := scanUser(repo.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email), &user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find user", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (repo *Repository) GetByID(ctx context.Context, id int) (*domain.User, error) {
	var user domain.User
	err := scanUser(repo.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id), &user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't get user", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (repo *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (full_name, email, phone_number, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_admin, is_verified, created_at
	`
	err := repo.db.QueryRow(ctx, query, user.FullName, user.Email, user.PhoneNumber, user.PasswordHash).
		Scan(&user.ID, &user.IsAdmin, &user.IsVerified, &user.CreatedAt)
	if err != nil {
		if pg.IsUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		zap.L().Error("can't save user", zap.Error(err))
		return nil, err
	}
	return user, nil
}

// IsAdmin re-reads the privilege flag under a shared row lock, so a concurrent
// demotion cannot interleave with the caller's unit of work.
func (repo *Repository) IsAdmin(ctx context.Context, userID int) (bool, error) {
	if err := pg.RequireTx(ctx); err != nil {
		return false, err
	}
	var isAdmin bool
	err := repo.db.QueryRow(ctx, "SELECT is_admin FROM users WHERE id = $1 FOR SHARE", userID).Scan(&isAdmin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		zap.L().Error("can't read admin flag", zap.Error(err))
		return false, err
	}
	return isAdmin, nil
}

// ListIDs pages through user ids in ascending order starting after afterID.
func (repo *Repository) ListIDs(ctx context.Context, afterID, limit int) ([]int, error) {
	rows, err := repo.db.Query(ctx, "SELECT id FROM users WHERE id > $1 ORDER BY id ASC LIMIT $2", afterID, limit)
	if err != nil {
		zap.L().Error("can't list users", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			zap.L().Error("can't scan user id", zap.Error(err))
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
