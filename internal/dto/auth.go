package dto

import (
	"time"

	"github.com/GlebRadaev/fortvest/internal/domain"
)

type RegisterRequestDTO struct {
	FullName    string `json:"full_name" validate:"required,max=100" example:"Ada Obi"`
	Email       string `json:"email" validate:"required,email,max=255" example:"ada@example.com"`
	Password    string `json:"password" validate:"required,min=6,max=72" example:"s3cret-pass"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=20" example:"+2348012345678"`
}

type LoginRequestDTO struct {
	Email    string `json:"email" validate:"required,email" example:"ada@example.com"`
	Password string `json:"password" validate:"required" example:"s3cret-pass"`
}

type TokenResponseDTO struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
}

type ProfileResponseDTO struct {
	ID          int               `json:"id" example:"1"`
	FullName    string            `json:"full_name" example:"Ada Obi"`
	Email       string            `json:"email" example:"ada@example.com"`
	PhoneNumber string            `json:"phone_number" example:"+2348012345678"`
	IsAdmin     bool              `json:"is_admin" example:"false"`
	IsVerified  bool              `json:"is_verified" example:"false"`
	CreatedAt   time.Time         `json:"created_at" example:"2024-12-09T16:09:57Z"`
	Wallet      WalletResponseDTO `json:"wallet"`
}

func NewProfileResponse(p *domain.Profile) ProfileResponseDTO {
	return ProfileResponseDTO{
		ID:          p.User.ID,
		FullName:    p.User.FullName,
		Email:       p.User.Email,
		PhoneNumber: p.User.PhoneNumber,
		IsAdmin:     p.User.IsAdmin,
		IsVerified:  p.User.IsVerified,
		CreatedAt:   p.User.CreatedAt,
		Wallet:      NewWalletResponse(&p.Wallet),
	}
}
