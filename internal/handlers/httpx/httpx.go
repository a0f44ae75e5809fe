// Package httpx holds the request decoding and error mapping shared by the HTTP handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/pkg/auth"
	"github.com/GlebRadaev/fortvest/pkg/money"
	"github.com/GlebRadaev/fortvest/pkg/utils"
	"github.com/GlebRadaev/fortvest/pkg/validate"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var statuses = map[domain.Kind]int{
	domain.KindValidation:        http.StatusBadRequest,
	domain.KindUnauthorized:      http.StatusUnauthorized,
	domain.KindForbidden:         http.StatusForbidden,
	domain.KindNotFound:          http.StatusNotFound,
	domain.KindConflict:          http.StatusConflict,
	domain.KindInvalidState:      http.StatusConflict,
	domain.KindInsufficientFunds: http.StatusPaymentRequired,
	domain.KindStorage:           http.StatusServiceUnavailable,
}

func Status(kind domain.Kind) int {
	if status, ok := statuses[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Error writes err as {"error", "kind"}. Wrapped causes are logged, never sent.
func Error(w http.ResponseWriter, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		zap.L().Error("unclassified error", zap.Error(err))
		utils.RespondWithKind(w, http.StatusInternalServerError, domain.KindUnknown.String(), "internal server error")
		return
	}
	if de.Err != nil {
		zap.L().Error(de.Msg, zap.String("kind", de.Kind.String()), zap.Error(de.Err))
	}
	utils.RespondWithKind(w, Status(de.Kind), de.Kind.String(), de.Msg)
}

// Decode reads a JSON body into dst and validates it. On failure it writes the response and returns false.
func Decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, money.ErrNotIntegral) || errors.Is(err, money.ErrOverflow) {
			utils.RespondWithKind(w, http.StatusUnprocessableEntity, domain.KindValidation.String(), err.Error())
			return false
		}
		utils.RespondWithKind(w, http.StatusBadRequest, domain.KindValidation.String(), "invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		utils.RespondWithKind(w, http.StatusBadRequest, domain.KindValidation.String(), err.Error())
		return false
	}
	return true
}

// UserID returns the authenticated caller. It writes 401 when the context has none.
func UserID(w http.ResponseWriter, r *http.Request) (int, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		Error(w, domain.ErrUnauthorized)
	}
	return userID, ok
}

// PathID parses a positive integer URL parameter.
func PathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id < 1 {
		utils.RespondWithKind(w, http.StatusBadRequest, domain.KindValidation.String(), "invalid "+name)
		return 0, false
	}
	return id, true
}
