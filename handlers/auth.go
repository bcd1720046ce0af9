package handlers

import (
	"net/http"

	"salon/config"
	"salon/middleware"
)

// AuthHandler covers the session edges this service owns. Sign-in itself
// happens on the external login page.
type AuthHandler struct {
	config *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{config: cfg}
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearTokenCookie(w)
	target := h.config.LoginURL
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
