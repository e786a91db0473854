package api

import (
	"net/http"
	"time"

	"servicefinder/internal/service"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	user, err := h.svc.Auth.Register(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusCreated, "User is created successfully", user)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.svc.Auth.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.setRefreshCookie(w, res.RefreshToken)
	h.writeSuccess(w, http.StatusOK, "User is logged in successfully", res)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	pair, err := h.svc.Auth.Refresh(r.Context(), h.refreshCookie(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.setRefreshCookie(w, pair.RefreshToken)
	h.writeSuccess(w, http.StatusOK, "Access token refreshed successfully", pair)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Auth.Logout(r.Context(), h.refreshCookie(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.clearRefreshCookie(w)
	h.writeSuccess(w, http.StatusOK, "User logged out successfully", nil)
}

func (h *Handler) refreshCookie(r *http.Request) string {
	c, err := r.Cookie(h.cfg.Auth.RefreshCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.Auth.RefreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.Auth.RefreshExpiry / time.Second),
		HttpOnly: true,
		Secure:   h.production,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.Auth.RefreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.production,
		SameSite: http.SameSiteStrictMode,
	})
}
