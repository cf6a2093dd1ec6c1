package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/checkmate-app/progression-server/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusForError maps engine sentinel errors to HTTP status codes.
// Anything unmapped is an internal error and its message is not exposed.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return http.StatusNotFound, model.ErrUserNotFound.Error()
	case errors.Is(err, model.ErrUsernameTaken):
		return http.StatusConflict, model.ErrUsernameTaken.Error()
	case errors.Is(err, model.ErrInvalidCredentials):
		return http.StatusUnauthorized, model.ErrInvalidCredentials.Error()
	case errors.Is(err, model.ErrInvalidItem):
		return http.StatusBadRequest, model.ErrInvalidItem.Error()
	case errors.Is(err, model.ErrAlreadyOwned):
		return http.StatusConflict, model.ErrAlreadyOwned.Error()
	case errors.Is(err, model.ErrInvalidPrice):
		return http.StatusBadRequest, model.ErrInvalidPrice.Error()
	case errors.Is(err, model.ErrInsufficientFunds):
		return http.StatusPaymentRequired, model.ErrInsufficientFunds.Error()
	case errors.Is(err, model.ErrNotOwned):
		return http.StatusConflict, model.ErrNotOwned.Error()
	case errors.Is(err, model.ErrInvalidTheme):
		return http.StatusBadRequest, model.ErrInvalidTheme.Error()
	case errors.Is(err, model.ErrInvalidView):
		return http.StatusBadRequest, model.ErrInvalidView.Error()
	case errors.Is(err, model.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, model.ErrStoreUnavailable.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, msg := statusForError(err)
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
