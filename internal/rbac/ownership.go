package rbac

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yene-farm/yene-farm/internal/platform/httpx"
	"github.com/yene-farm/yene-farm/internal/shared"
)

// OwnerLookup returns the owning user ID of a resource, or shared.ErrNotFound.
type OwnerLookup func(ctx context.Context, resourceID string) (string, error)

// Ownership restricts mutation of a resource to its owner and admins.
type Ownership struct {
	Lookup  OwnerLookup
	Param   string
	Logger  *slog.Logger
	Metrics Recorder
}

// Authorize checks existence before permission so that a missing resource
// is reported as 404 regardless of who asks.
func (o Ownership) Authorize(ctx context.Context, p *shared.Principal, resourceID string) error {
	if p == nil {
		return shared.Unauthorized(shared.ReasonAuthenticationRequired)
	}
	owner, err := o.Lookup(ctx, resourceID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.Missing()
		}
		return fmt.Errorf("rbac: ownership lookup: %w", err)
	}
	if p.Owns(owner) || p.IsAdmin() {
		return nil
	}
	return shared.Forbidden(shared.ReasonPermissionDenied)
}

// Require applies Authorize to the resource named by the route parameter.
func (o Ownership) Require(next http.Handler) http.Handler {
	param := o.Param
	if param == "" {
		param = "id"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := o.Authorize(r.Context(), shared.PrincipalFromContext(r.Context()), chi.URLParam(r, param))
		if err == nil {
			next.ServeHTTP(w, r)
			return
		}
		var failure *shared.Failure
		if errors.As(err, &failure) {
			if o.Metrics != nil && failure.Status != http.StatusNotFound {
				o.Metrics.AuthFailure(failure.Reason)
			}
			httpx.WriteFailure(w, failure)
			return
		}
		if o.Logger != nil {
			o.Logger.Error("ownership check", slog.Any("error", err), slog.String("path", r.URL.Path))
		}
		httpx.Error(w, http.StatusInternalServerError, "internal_error")
	})
}
