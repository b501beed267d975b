// Package httpx provides JSON response helpers for the REST API.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrorBody is the JSON envelope for every non-2xx response.
type ErrorBody struct {
	Error    string   `json:"error"`
	Details  []string `json:"details,omitempty"`
	Required []string `json:"required,omitempty"`
	Current  string   `json:"current,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error sends an error envelope carrying a machine readable reason.
func Error(w http.ResponseWriter, status int, reason string) {
	JSON(w, status, ErrorBody{Error: reason})
}

// DecodeJSON decodes JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}

// DecodeAndValidate decodes the body and runs struct validation. It writes
// the 400 response itself and reports false when the request is unusable.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.Validate, target any) bool {
	if err := DecodeJSON(r, target); err != nil {
		JSON(w, http.StatusBadRequest, ErrorBody{Error: "validation_error", Details: []string{"malformed JSON body"}})
		return false
	}
	if err := v.Struct(target); err != nil {
		JSON(w, http.StatusBadRequest, ErrorBody{Error: "validation_error", Details: ValidationDetails(err)})
		return false
	}
	return true
}

// ValidationDetails flattens validator errors into readable messages.
func ValidationDetails(err error) []string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			details = append(details, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		details = append(details, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return details
}
