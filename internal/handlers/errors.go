package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/messagely/internal/apperr"
	"github.com/sbilibin2017/messagely/internal/logger"
)

// ErrorResponse is the body of every failed request.
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// default: Unauthorized
	Error string `json:"error"`
}

// statusOf maps an error kind to an HTTP status code.
func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict:
		return http.StatusConflict
	case apperr.Unauthorized, apperr.InvalidToken:
		return http.StatusUnauthorized
	case apperr.Forbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError writes err as ErrorResponse. Internal failures are logged and
// reported without detail.
func writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		logger.Log.Errorw("internal server error", "err", err)
	}
	msg := apperr.MessageOf(err)
	if kind == apperr.InvalidToken {
		msg = "Unauthorized"
	}
	writeJSON(w, statusOf(kind), ErrorResponse{Error: msg})
}

func writeBadBody(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
}
