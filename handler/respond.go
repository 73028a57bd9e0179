package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"companion-backend/internal/auth"
	"companion-backend/internal/usecase"
)

// All responses share one envelope: success plus either payload fields or a
// human-readable message. No failure is silently dropped.
func writeJSON(w http.ResponseWriter, status int, payload map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, payload map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "message": message})
}

// respondError maps the error taxonomy onto HTTP statuses: invalid
// credentials are unauthenticated, insufficient roles are forbidden, bad
// input is a client failure, and upstream/store trouble is a server failure.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrForbidden):
		writeError(w, http.StatusForbidden, "Not authorized")
		return
	case errors.Is(err, auth.ErrInvalidCredential):
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var ucErr *usecase.Error
	if errors.As(err, &ucErr) {
		switch ucErr.Code {
		case usecase.ErrorValidation:
			writeError(w, http.StatusBadRequest, validationMessage(ucErr.Reason))
			return
		case usecase.ErrorUpstream:
			writeError(w, http.StatusInternalServerError, "Companion is unavailable right now")
			return
		}
	}
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

func validationMessage(reason string) string {
	switch reason {
	case "empty_message":
		return "Message is required"
	case "unknown_letter_style":
		return "Unknown letter style"
	default:
		return "Invalid request"
	}
}
