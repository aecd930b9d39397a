package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/diewo77/offermaster/httpx"
	"github.com/diewo77/offermaster/i18n"
	"github.com/diewo77/offermaster/internal/logger"
	"github.com/diewo77/offermaster/internal/metrics"
	"github.com/diewo77/offermaster/internal/middleware"
	"github.com/diewo77/offermaster/internal/services"
)

type AuthHandler struct {
	Users   *services.UserService
	Metrics *metrics.Registry
}

func NewAuthHandler(svc *services.UserService, m *metrics.Registry) *AuthHandler {
	return &AuthHandler{Users: svc, Metrics: m}
}

// Register registers the public auth routes on mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/register", h.SignUp)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/forgot-password", h.ForgotPassword)
	mux.HandleFunc("POST /api/auth/reset-password", h.ResetPassword)
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := httpx.Decode(r, &in); err != nil {
		invalidJSON(w)
		return
	}
	res, err := h.Users.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, res)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := httpx.Decode(r, &in); err != nil {
		invalidJSON(w)
		return
	}
	res, err := h.Users.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

// ForgotPassword always answers 200 so addresses cannot be probed.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if err := httpx.Decode(r, &in); err != nil {
		invalidJSON(w)
		return
	}
	lang := middleware.LangFrom(r)
	if err := h.Users.ForgotPassword(r.Context(), in.Email, lang); err != nil {
		h.Metrics.EmailsSent.WithLabelValues("reset", "error").Inc()
		logger.FromContext(r.Context()).Error("password reset mail failed", zap.Error(err))
	} else {
		h.Metrics.EmailsSent.WithLabelValues("reset", "ok").Inc()
	}
	httpx.JSON(w, http.StatusOK, httpx.Message(i18n.T(lang, "reset_sent")))
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
		Password    string `json:"password"`
	}
	if err := httpx.Decode(r, &in); err != nil {
		invalidJSON(w)
		return
	}
	password := in.NewPassword
	if password == "" {
		password = in.Password
	}
	if err := h.Users.ResetPassword(r.Context(), in.Token, password); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Message(i18n.T(middleware.LangFrom(r), "password_changed")))
}
