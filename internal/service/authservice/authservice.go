package authservice

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/internal/pg"
	"github.com/GlebRadaev/fortvest/pkg/auth"
	"go.uber.org/zap"
)

//go:generate mockgen -destination=mock_repo.go -source=authservice.go -package=authservice

type Repo interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

type WalletRepo interface {
	Create(ctx context.Context, userID int, currency string) (*domain.Wallet, error)
	GetByUserID(ctx context.Context, userID int) (*domain.Wallet, error)
}

type Service struct {
	txManager   pg.TXManager
	userRepo    Repo
	walletRepo  WalletRepo
	hashService auth.HashServiceInterface
	jwtService  auth.JWTServiceInterface
	currency    string
	tokenTTL    time.Duration
}

func New(
	txManager pg.TXManager,
	repo Repo,
	walletRepo WalletRepo,
	hashService auth.HashServiceInterface,
	jwtService auth.JWTServiceInterface,
	currency string,
	tokenTTL time.Duration,
) *Service {
	return &Service{
		txManager:   txManager,
		userRepo:    repo,
		walletRepo:  walletRepo,
		hashService: hashService,
		jwtService:  jwtService,
		currency:    currency,
		tokenTTL:    tokenTTL,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates the user and their empty wallet in one unit.
func (s *Service) Register(ctx context.Context, reg domain.Registration) (*domain.Profile, error) {
	email := normalizeEmail(reg.Email)
	fullName := strings.TrimSpace(reg.FullName)
	if email == "" {
		return nil, domain.Validation("email is required")
	}
	if fullName == "" {
		return nil, domain.Validation("full name is required")
	}

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		zap.L().Error("can't find user", zap.Error(err))
		return nil, domain.Classify(err)
	}
	if existingUser != nil {
		zap.L().Info("user already exists", zap.String("email", email))
		return nil, domain.ErrEmailTaken
	}

	hashedPassword, err := s.hashService.HashPassword(reg.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmptyPassword) || errors.Is(err, auth.ErrShortPassword) {
			return nil, domain.Validation(err.Error())
		}
		zap.L().Error("can't hash password", zap.Error(err))
		return nil, domain.Classify(err)
	}

	var profile domain.Profile
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.Create(ctx, &domain.User{
			FullName:     fullName,
			Email:        email,
			PhoneNumber:  strings.TrimSpace(reg.PhoneNumber),
			PasswordHash: hashedPassword,
		})
		if err != nil {
			return err
		}
		wallet, err := s.walletRepo.Create(ctx, user.ID, s.currency)
		if err != nil {
			return err
		}
		profile = domain.Profile{User: *user, Wallet: *wallet}
		return nil
	})
	if err != nil {
		zap.L().Error("can't register user", zap.String("email", email), zap.Error(err))
		return nil, domain.Classify(err)
	}

	zap.L().Info("user successfully registered", zap.Int("user_id", profile.User.ID), zap.String("email", email))
	return &profile, nil
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		zap.L().Error("can't find user", zap.Error(err))
		return nil, domain.Classify(err)
	}
	if user == nil || !s.hashService.ComparePassword(user.PasswordHash, password) {
		zap.L().Info("invalid credentials", zap.String("email", email))
		return nil, domain.ErrInvalidCredentials
	}
	zap.L().Info("user successfully authenticated", zap.Int("user_id", user.ID))
	return user, nil
}

func (s *Service) GenerateToken(userID int) (string, error) {
	token, err := s.jwtService.GenerateJWT(userID, time.Now().Add(s.tokenTTL))
	if err != nil {
		zap.L().Error("can't generate token", zap.Error(err))
		return "", domain.Classify(err)
	}
	return token, nil
}

func (s *Service) Profile(ctx context.Context, userID int) (*domain.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.Classify(err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, domain.Classify(err)
	}
	if wallet == nil {
		return nil, domain.ErrWalletNotFound
	}
	return &domain.Profile{User: *user, Wallet: *wallet}, nil
}
