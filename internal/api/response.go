package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"servicefinder/internal/apperr"
	"servicefinder/internal/validation"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const maxBodyBytes = 1 << 20

type successEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type errorEnvelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
	Stack   string              `json:"stack,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func (h *Handler) writeSuccess(w http.ResponseWriter, statusCode int, message string, data any) {
	writeJSON(w, statusCode, successEnvelope{Success: true, Message: message, Data: data})
}

// writeError renders err as the failure envelope. Internal errors are logged
// and their cause is shown only outside production.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ae := apperr.From(err)

	if ae.Status >= http.StatusInternalServerError {
		h.logger.Error().
			Err(err).
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	} else {
		h.logger.Debug().
			Err(err).
			Int("status", ae.Status).
			Str("path", r.URL.Path).
			Msg("request rejected")
	}

	body := errorEnvelope{Message: ae.Message, Errors: ae.Fields}
	if !h.production {
		body.Stack = err.Error()
	}
	writeJSON(w, ae.Status, body)
}

// decode reads a JSON body into dst and validates it.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.BadRequest("Request body is required")
		}
		return apperr.BadRequest("Invalid JSON body").Wrap(err)
	}
	return validation.Struct(dst)
}

// pathID parses the named URL parameter as a positive id.
func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.BadRequest(fmt.Sprintf("Invalid %s", name))
	}
	return id, nil
}
