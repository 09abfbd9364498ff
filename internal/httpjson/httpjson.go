// Package httpjson writes JSON responses and is the single place where
// application errors are turned into status codes.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	"market-directory/internal/apperr"
	"market-directory/internal/observability"
)

const MaxBodyBytes = 1 << 20

const (
	msgNotFound     = "Could not find resource"
	msgUnauthorized = "Unauthorized"
	msgInternal     = "Internal server error"
)

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// Decode reads a size-limited JSON body into dst and rejects unknown fields.
// A body that does not parse is reported as a validation error.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return apperr.Validation("invalid json body")
	}
	return nil
}

// Responder maps errors to responses. LegacyUnauthorized keeps the old
// behavior of sending "Unauthorized" with a 500 status.
type Responder struct {
	Logger             *observability.Logger
	LegacyUnauthorized bool
}

func NewResponder(logger *observability.Logger, legacyUnauthorized bool) *Responder {
	return &Responder{Logger: logger, LegacyUnauthorized: legacyUnauthorized}
}

// Error writes the response for err. op names the failed operation in logs.
func (p *Responder) Error(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		message := apperr.Message(err)
		if message == "" {
			message = "invalid request"
		}
		WriteError(w, http.StatusBadRequest, message)
	case errors.Is(err, apperr.ErrNotFound):
		WriteError(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, apperr.ErrUnauthorized):
		p.Unauthorized(w)
	default:
		if p.Logger != nil {
			p.Logger.Error(r.Context(), op+"_failed", "error", err.Error())
		}
		observability.CaptureError(r.Context(), err)
		WriteError(w, http.StatusInternalServerError, msgInternal)
	}
}

func (p *Responder) Unauthorized(w http.ResponseWriter) {
	status := http.StatusUnauthorized
	if p.LegacyUnauthorized {
		status = http.StatusInternalServerError
	}
	WriteError(w, status, msgUnauthorized)
}
