// Package respond holds the request and response plumbing shared by the admin handlers.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/investadmin/internal/domain"
	"github.com/GlebRadaev/investadmin/pkg/auth"
	"github.com/GlebRadaev/investadmin/pkg/utils"
	"github.com/GlebRadaev/investadmin/pkg/validate"
)

// Status maps a domain error to its HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrConcurrencyConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

func Error(w http.ResponseWriter, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		zap.L().Error("request failed", zap.Error(err))
		utils.RespondWithError(w, status, "Internal server error")
		return
	}
	utils.RespondWithError(w, status, err.Error())
}

func Actor(r *http.Request) (domain.Actor, bool) {
	id, ok := auth.AdminID(r.Context())
	if !ok {
		return domain.Actor{}, false
	}
	return domain.Actor{ID: id}, true
}

func PathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Decode reads a JSON body into dst and validates it. An empty body is accepted when dst
// has no required fields.
func Decode(r *http.Request, dst any) error {
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return errors.New("invalid request body")
		}
	}
	return validate.Struct(dst)
}
