package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/yene-farm/yene-farm/internal/platform/httpx"
	"github.com/yene-farm/yene-farm/internal/shared"
)

// FailureRecorder counts rejected authentications by reason.
type FailureRecorder interface {
	AuthFailure(reason string)
}

// Middleware exposes the identity guards for HTTP routes.
type Middleware struct {
	Resolver *Resolver
	Logger   *slog.Logger
	Metrics  FailureRecorder
}

// RequireAuth rejects requests without a valid, active principal.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := m.Resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			var failure *shared.Failure
			if errors.As(err, &failure) {
				m.recordFailure(failure.Reason)
				httpx.WriteFailure(w, failure)
				return
			}
			m.recordFailure(shared.ReasonAuthenticationError)
			if m.Logger != nil {
				m.Logger.Error("auth middleware", slog.Any("error", err), slog.String("path", r.URL.Path))
			}
			httpx.Error(w, http.StatusInternalServerError, shared.ReasonAuthenticationError)
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithPrincipal(r.Context(), principal)))
	})
}

// OptionalAuth attaches a principal when one can be resolved and otherwise
// lets the request through anonymously. Store errors are logged and also
// degrade to anonymous so public endpoints stay available.
func (m Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := m.Resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			principal = nil
			var failure *shared.Failure
			if !errors.As(err, &failure) && m.Logger != nil {
				m.Logger.Warn("optional auth degraded to anonymous", slog.Any("error", err))
			}
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithPrincipal(r.Context(), principal)))
	})
}

func (m Middleware) recordFailure(reason string) {
	if m.Metrics != nil {
		m.Metrics.AuthFailure(reason)
	}
}
