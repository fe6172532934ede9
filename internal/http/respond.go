package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Sunay4826/AI-finance-platform/internal/advisor"
	"github.com/Sunay4826/AI-finance-platform/internal/core"
	"github.com/Sunay4826/AI-finance-platform/internal/log"
	"github.com/Sunay4826/AI-finance-platform/internal/middleware/auth"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encoding response", log.FieldError, err.Error())
	}
}

// writeError maps domain errors onto HTTP status codes. Everything not
// recognized is a 500 with a generic message so internals never leak.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, core.ErrUnauthorized),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, core.ErrConflict):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, core.ErrValidation):
		status = http.StatusUnprocessableEntity
		message = err.Error()
	case errors.Is(err, core.ErrQuotaExceeded):
		status = http.StatusTooManyRequests
		message = err.Error()
	case errors.Is(err, core.ErrAdvisorDisabled):
		status = http.StatusServiceUnavailable
		message = err.Error()
	case errors.Is(err, core.ErrUnavailable):
		status = http.StatusServiceUnavailable
		message = err.Error()
	case errors.Is(err, advisor.ErrInvalidCredentials),
		errors.Is(err, advisor.ErrModelNotFound),
		errors.Is(err, advisor.ErrBadResponse):
		status = http.StatusBadGateway
		message = err.Error()
	}

	if status >= 500 {
		s.logger.ErrorContext(r.Context(), "request failed",
			log.FieldPath, r.URL.Path, log.FieldError, err.Error())
	}
	s.writeJSON(w, status, errorResponse{Error: message})
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}
