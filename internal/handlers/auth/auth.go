package auth

import (
	"context"
	"net/http"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/internal/dto"
	"github.com/GlebRadaev/fortvest/internal/handlers/httpx"
	"github.com/GlebRadaev/fortvest/pkg/utils"
)

//go:generate mockgen -destination=mock_service.go -source=auth.go -package=auth
type Service interface {
	Register(ctx context.Context, reg domain.Registration) (*domain.Profile, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GenerateToken(userID int) (string, error)
	Profile(ctx context.Context, userID int) (*domain.Profile, error)
}

type AuthHandler struct {
	authService Service
}

func New(authService Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register godoc
//
//	@Summary		Register a new user
//	@Description	Create a user account together with an empty wallet
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.RegisterRequestDTO	true	"Register request body"
//	@Success		201		{object}	dto.ProfileResponseDTO
//	@Failure		400		{object}	utils.ErrorResponse	"Invalid request body"
//	@Failure		409		{object}	utils.ErrorResponse	"User already exists"
//	@Failure		503		{object}	utils.ErrorResponse	"Storage failure"
//	@Router			/api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequestDTO
	if !httpx.Decode(w, r, &req) {
		return
	}
	profile, err := h.authService.Register(r.Context(), domain.Registration{
		FullName:    req.FullName,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewProfileResponse(profile))
}

// Login godoc
//
//	@Summary		Authenticate user
//	@Description	Log in with email and password and get a JWT token
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.LoginRequestDTO	true	"Login request body"
//	@Success		200		{object}	dto.TokenResponseDTO
//	@Failure		400		{object}	utils.ErrorResponse	"Invalid request body"
//	@Failure		401		{object}	utils.ErrorResponse	"Invalid credentials"
//	@Failure		500		{object}	utils.ErrorResponse	"Internal server error"
//	@Router			/api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequestDTO
	if !httpx.Decode(w, r, &req) {
		return
	}
	user, err := h.authService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	token, err := h.authService.GenerateToken(user.ID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "error generating token")
		return
	}
	w.Header().Set("Authorization", "Bearer "+token)
	utils.RespondWithJSON(w, http.StatusOK, dto.TokenResponseDTO{Token: token})
}

// Profile godoc
//
//	@Summary		Current user profile
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.ProfileResponseDTO
//	@Failure		401	{object}	utils.ErrorResponse	"Unauthorized"
//	@Failure		404	{object}	utils.ErrorResponse	"User not found"
//	@Router			/api/auth/profile [get]
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserID(w, r)
	if !ok {
		return
	}
	profile, err := h.authService.Profile(r.Context(), userID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewProfileResponse(profile))
}
