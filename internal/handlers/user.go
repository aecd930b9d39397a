package handlers

import (
	"net/http"

	"github.com/diewo77/offermaster/httpx"
	"github.com/diewo77/offermaster/internal/services"
)

type UserHandler struct {
	Users *services.UserService
}

func NewUserHandler(svc *services.UserService) *UserHandler {
	return &UserHandler{Users: svc}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.Me(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var in services.ProfileInput
	if err := httpx.Decode(r, &in); err != nil {
		invalidJSON(w)
		return
	}
	u, err := h.Users.UpdateProfile(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}
