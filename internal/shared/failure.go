package shared

import (
	"fmt"
	"net/http"
)

// Reasons reported in the "error" field of auth and policy failures.
const (
	ReasonMissingHeader           = "missing_or_invalid_header"
	ReasonInvalidToken            = "invalid_token"
	ReasonTokenExpired            = "token_expired"
	ReasonUserNotFound            = "user_not_found"
	ReasonAccountDeactivated      = "account_deactivated"
	ReasonAuthenticationError     = "authentication_error"
	ReasonAuthenticationRequired  = "authentication_required"
	ReasonInsufficientPermissions = "insufficient_permissions"
	ReasonAdminAccessRequired     = "admin_access_required"
	ReasonPermissionDenied        = "permission_denied"
	ReasonNotFound                = "not_found"
	ReasonForbidden               = "forbidden"
)

// Failure is a terminal, client-visible rejection of a request.
type Failure struct {
	Status   int
	Reason   string
	Required []string
	Current  string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%d %s", f.Status, f.Reason)
}

// Unauthorized builds a 401 failure.
func Unauthorized(reason string) *Failure {
	return &Failure{Status: http.StatusUnauthorized, Reason: reason}
}

// Forbidden builds a 403 failure.
func Forbidden(reason string) *Failure {
	return &Failure{Status: http.StatusForbidden, Reason: reason}
}

// Missing builds a 404 failure.
func Missing() *Failure {
	return &Failure{Status: http.StatusNotFound, Reason: ReasonNotFound}
}
