package httpx

import (
	"errors"
	"net/http"

	"github.com/yene-farm/yene-farm/internal/shared"
)

// RespondError maps domain errors to HTTP responses.
func RespondError(w http.ResponseWriter, err error) {
	var failure *shared.Failure
	if errors.As(err, &failure) {
		WriteFailure(w, failure)
		return
	}
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Error(w, http.StatusNotFound, "not_found")
	case errors.Is(err, shared.ErrDuplicate):
		Error(w, http.StatusConflict, "duplicate")
	case errors.Is(err, shared.ErrInvalidInput):
		JSON(w, http.StatusBadRequest, ErrorBody{Error: "validation_error", Details: []string{err.Error()}})
	case errors.Is(err, shared.ErrForbidden):
		Error(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, shared.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, "invalid_credentials")
	case errors.Is(err, shared.ErrAccountDeactivated):
		Error(w, http.StatusUnauthorized, "account_deactivated")
	default:
		Error(w, http.StatusInternalServerError, "internal_error")
	}
}

// WriteFailure renders a policy or authentication failure.
func WriteFailure(w http.ResponseWriter, f *shared.Failure) {
	JSON(w, f.Status, ErrorBody{Error: f.Reason, Required: f.Required, Current: f.Current})
}
