package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -destination=mock_hash.go -source=hash.go -package=auth

type HashServiceInterface interface {
	HashPassword(password string) (string, error)
	ComparePassword(hashedPassword, password string) bool
}

const MinPasswordLength = 6

var (
	ErrEmptyPassword = errors.New("password cannot be empty")
	ErrShortPassword = errors.New("password is too short")
)

type HashService struct {
	cost int
}

// NewHashService returns a bcrypt hasher. A cost of 0 selects bcrypt.DefaultCost.
func NewHashService(cost int) *HashService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &HashService{cost: cost}
}

func (b *HashService) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if len(password) < MinPasswordLength {
		return "", ErrShortPassword
	}

	cost := b.cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (b *HashService) ComparePassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
