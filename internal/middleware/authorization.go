package middleware

import (
	"context"
	"net/http"

	"reportdesk/internal/utils"
)

// PermissionResolver resolves the permission union for a set of role names.
// The role-permission store implements it.
type PermissionResolver interface {
	PermissionsForRoles(ctx context.Context, roleNames []string) (map[string]struct{}, error)
}

// RequirePermission admits the request iff the caller holds at least one of
// the required permissions (OR semantics). 401 without a valid credential,
// 403 with one that lacks every required permission. Resolution failures
// surface as 500: the store being down is not the same as "denied".
// On admission the resolved permission set is attached to the context.
func RequirePermission(resolver PermissionResolver, required ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, ok := utils.GetString(r.Context(), CtxUserID)
			if !ok || uid == "" {
				utils.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}

			held, err := resolver.PermissionsForRoles(r.Context(), RolesFromContext(r.Context()))
			if err != nil {
				utils.Error(w, http.StatusInternalServerError, "permission resolution failed")
				return
			}

			admitted := false
			for _, p := range required {
				if _, ok := held[p]; ok {
					admitted = true
					break
				}
			}
			if !admitted {
				utils.Error(w, http.StatusForbidden, "forbidden")
				return
			}

			ctx := context.WithValue(r.Context(), CtxPermissions, held)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// HasPermission checks the set attached by RequirePermission. Handlers use
// it to vary behavior inside an already-admitted route (e.g. restricting a
// listing to the caller's own items).
func HasPermission(ctx context.Context, name string) bool {
	_, ok := PermissionsFromContext(ctx)[name]
	return ok
}
