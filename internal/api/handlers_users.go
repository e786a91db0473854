package api

import (
	"net/http"
	"strconv"
	"strings"

	"servicefinder/internal/models"
	"servicefinder/internal/service"
)

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.Users.GetProfile(r.Context(), actorFrom(r.Context()).UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "User retrieved successfully", profile)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch models.UserPatch
	if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	user, err := h.svc.Users.UpdateProfile(r.Context(), actorFrom(r.Context()).UserID, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "User profile updated successfully", user)
}

func (h *Handler) TopRated(w http.ResponseWriter, r *http.Request) {
	limit := models.DefaultTopRatedLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, r, service.ErrInvalidLimit)
			return
		}
		limit = n
	}
	profiles, err := h.svc.Users.TopRatedProviders(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Top rated providers retrieved successfully", profiles)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	profile, err := h.svc.Users.GetProfile(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "User retrieved successfully", profile)
}

type userStatusRequest struct {
	Status models.UserStatus `json:"status" validate:"required,oneof=APPROVE PENDING BLOCKED"`
}

func (h *Handler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req userStatusRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	user, err := h.svc.Users.SetUserStatus(r.Context(), id, req.Status, actorFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "User status updated successfully", user)
}
