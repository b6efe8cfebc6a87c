package api

import (
	"encoding/json"
	"net/http"

	"fleetrent/internal/auth"
	"fleetrent/internal/db"
	"fleetrent/internal/entities"
	apperrors "fleetrent/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError converts any service error into the JSON error envelope. The
// status comes from the error taxonomy; unknown errors become a 500 with a
// generic message so internals never leak.
func writeError(w http.ResponseWriter, err error) {
	status := apperrors.StatusCode(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	writeJSON(w, status, entities.MessageResponse{Message: message})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, entities.MessageResponse{Message: message})
}

// requireRole enforces a role guard, writing a 403 and returning nil when the
// authenticated user is missing or has the wrong role.
func requireRole(w http.ResponseWriter, r *http.Request, roles ...db.Role) *db.User {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return nil
	}
	for _, role := range roles {
		if user.Role == role {
			return user
		}
	}
	writeMessage(w, http.StatusForbidden, "Forbidden")
	return nil
}
