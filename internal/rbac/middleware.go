package rbac

import (
	"crypto/sha256"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/yene-farm/yene-farm/internal/platform/httpx"
	"github.com/yene-farm/yene-farm/internal/shared"
)

// AdminKeyHeader carries the shared administrative secret.
const AdminKeyHeader = "X-Admin-Key"

// AdminKeyParam is the query parameter alternative to AdminKeyHeader.
const AdminKeyParam = "admin_key"

// Recorder counts policy rejections by reason.
type Recorder interface {
	AuthFailure(reason string)
}

// Middleware wires role based authorization helpers for HTTP handlers.
// It expects the identity guards to have run first.
type Middleware struct {
	AdminKey string
	Logger   *slog.Logger
	Metrics  Recorder
}

// RequireUserType admits principals whose user type is one of roles.
func (m Middleware) RequireUserType(roles ...shared.Role) func(http.Handler) http.Handler {
	required := make([]string, 0, len(roles))
	for _, role := range roles {
		required = append(required, string(role))
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := shared.PrincipalFromContext(r.Context())
			if principal == nil {
				m.reject(w, shared.Unauthorized(shared.ReasonAuthenticationRequired))
				return
			}
			if !hasRole(principal.UserType, roles) {
				failure := shared.Forbidden(shared.ReasonInsufficientPermissions)
				failure.Required = required
				failure.Current = string(principal.UserType)
				m.reject(w, failure)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin admits admin principals and callers presenting the shared
// admin key. Either capability is sufficient.
func (m Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsAdminPrincipal(shared.PrincipalFromContext(r.Context())) || m.HasAdminKey(r) {
			next.ServeHTTP(w, r)
			return
		}
		m.reject(w, shared.Forbidden(shared.ReasonAdminAccessRequired))
	})
}

// IsAdminPrincipal reports whether p carries the admin role.
func IsAdminPrincipal(p *shared.Principal) bool {
	return p != nil && p.IsAdmin()
}

// HasAdminKey reports whether the request presents the configured admin key.
// An empty configured key never matches.
func (m Middleware) HasAdminKey(r *http.Request) bool {
	if m.AdminKey == "" {
		return false
	}
	presented := r.Header.Get(AdminKeyHeader)
	if presented == "" {
		presented = r.URL.Query().Get(AdminKeyParam)
	}
	if presented == "" {
		return false
	}
	want := sha256.Sum256([]byte(m.AdminKey))
	got := sha256.Sum256([]byte(presented))
	return subtle.ConstantTimeCompare(want[:], got[:]) == 1
}

func (m Middleware) reject(w http.ResponseWriter, failure *shared.Failure) {
	if m.Metrics != nil {
		m.Metrics.AuthFailure(failure.Reason)
	}
	httpx.WriteFailure(w, failure)
}

func hasRole(current shared.Role, allowed []shared.Role) bool {
	for _, role := range allowed {
		if current == role {
			return true
		}
	}
	return false
}
