package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/diewo77/offermaster/httpx"
	"github.com/diewo77/offermaster/i18n"
	"github.com/diewo77/offermaster/internal/logger"
	"github.com/diewo77/offermaster/internal/middleware"
	"github.com/diewo77/offermaster/internal/services"
	"github.com/diewo77/offermaster/validation"
)

// writeError maps service errors onto the JSON error envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	lang := middleware.LangFrom(r)
	var verr *services.ValidationError
	var cerr *services.ConflictError
	var rerr *services.ReferenceError
	switch {
	case errors.As(err, &verr):
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", verr.Violations)
	case errors.As(err, &rerr):
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", validation.Violations{rerr.Field: rerr.Code})
	case errors.As(err, &cerr):
		httpx.JSONError(w, http.StatusConflict, "conflict", httpx.Message(i18n.T(lang, cerr.Code)))
	case errors.Is(err, services.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, services.ErrForbidden):
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
	case errors.Is(err, services.ErrUnauthenticated):
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
	case errors.Is(err, services.ErrBadCredentials):
		httpx.JSONError(w, http.StatusUnauthorized, "bad_credentials", httpx.Message(i18n.T(lang, "bad_credentials")))
	case errors.Is(err, services.ErrInvalidToken):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_token", httpx.Message(i18n.T(lang, "invalid_token")))
	case errors.Is(err, services.ErrTokenExpired):
		httpx.JSONError(w, http.StatusBadRequest, "token_expired", httpx.Message(i18n.T(lang, "token_expired")))
	default:
		logger.FromContext(r.Context()).Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

func invalidJSON(w http.ResponseWriter) {
	httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return 0, false
	}
	return id, true
}
