package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"servicefinder/internal/export"
	"servicefinder/internal/models"
	"servicefinder/internal/service"
)

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var in service.CreateBookingInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	booking, err := h.svc.Bookings.CreateBooking(r.Context(), in, actorFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusCreated, "Service Request created successfully", booking)
}

func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.svc.Bookings.ListBookings(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Service requests fetched successfully", bookings)
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	booking, err := h.svc.Bookings.GetBooking(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Service request fetched successfully", booking)
}

func (h *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch models.BookingPatch
	if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	booking, err := h.svc.Bookings.UpdateBooking(r.Context(), id, patch, actorFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Service request updated successfully", booking)
}

func (h *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.svc.Bookings.DeleteBooking(r.Context(), id, actorFrom(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Service request deleted successfully", nil)
}

func (h *Handler) ListCustomerBookings(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	bookings, err := h.svc.Bookings.ListByCustomer(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, fmt.Sprintf("Service requests for user %d fetched successfully", userID), bookings)
}

func (h *Handler) ListProviderBookings(w http.ResponseWriter, r *http.Request) {
	providerID, err := pathID(r, "providerId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.svc.Bookings.ListByProviderWithStats(r.Context(), providerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, fmt.Sprintf("Service requests for provider %d fetched successfully", providerID), res)
}

func (h *Handler) ProviderStats(w http.ResponseWriter, r *http.Request) {
	providerID, err := pathID(r, "providerId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	stats, err := h.svc.Bookings.ProviderStats(r.Context(), providerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Provider stats fetched successfully", stats)
}

// ExportProviderBookings streams the provider's bookings as an XLSX attachment.
func (h *Handler) ExportProviderBookings(w http.ResponseWriter, r *http.Request) {
	providerID, err := pathID(r, "providerId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !actorFrom(r.Context()).Owns(providerID) {
		h.writeError(w, r, service.ErrForbidden)
		return
	}

	// buffered so a failure can still be reported in the envelope
	var buf bytes.Buffer
	if err := h.svc.Exporter.ExportProviderBookings(r.Context(), providerID, &buf); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(providerID)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

type bookingStatusRequest struct {
	Status models.BookingStatus `json:"status" validate:"required"`
}

func (h *Handler) SetBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req bookingStatusRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	booking, err := h.svc.Bookings.SetStatus(r.Context(), id, req.Status, actorFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Service request status updated successfully", booking)
}

func (h *Handler) CreateModification(w http.ResponseWriter, r *http.Request) {
	var in service.CreateModificationInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	m, err := h.svc.Bookings.CreateModification(r.Context(), in, actorFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusCreated, "Modification request created successfully", m)
}

// ListModifications reads the service request id from the shared {id} segment.
func (h *Handler) ListModifications(w http.ResponseWriter, r *http.Request) {
	serviceRequestID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	mods, err := h.svc.Bookings.ListModifications(r.Context(), serviceRequestID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Modifications fetched successfully", mods)
}

func (h *Handler) UpdateModification(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch models.ModificationPatch
	if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	m, err := h.svc.Bookings.UpdateModification(r.Context(), id, patch, actorFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Modification updated successfully", m)
}

func (h *Handler) DeleteModification(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.svc.Bookings.DeleteModification(r.Context(), id, actorFrom(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Modification deleted successfully", nil)
}
