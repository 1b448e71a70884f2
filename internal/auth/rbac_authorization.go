package auth

import (
	"net/http"

	"github.com/frahmantamala/courier-payroll/internal"
	"github.com/frahmantamala/courier-payroll/internal/transport"
)

type RBACAuthorization struct {
	*transport.BaseHandler
	checker PermissionChecker
}

func NewRBACAuthorization(checker PermissionChecker, baseHandler *transport.BaseHandler) *RBACAuthorization {
	return &RBACAuthorization{
		BaseHandler: baseHandler,
		checker:     checker,
	}
}

// Require lets the request through when the principal holds any of the permissions.
func (ra *RBACAuthorization) Require(permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := internal.PrincipalFromContext(r.Context())
			if !ok {
				ra.Logger.Warn("authorization check failed: principal not found in context")
				ra.WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			if !ra.checker.HasAnyPermission(p, permissions...) {
				ra.Logger.WarnContext(r.Context(), "access denied: insufficient permissions",
					"user_id", p.UserID,
					"required_permissions", permissions,
					"user_permissions", p.Permissions)
				ra.WriteError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
