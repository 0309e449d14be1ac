package middleware

import (
	"net/http"

	"reportdesk/internal/utils"

	"github.com/go-chi/chi/v5"
)

// RequireSelfOrPermission allows if {id} == ctx user id OR the caller holds
// one of the given permissions. Used on user-profile routes so people can
// read and edit themselves without MANAGE_USERS.
func RequireSelfOrPermission(resolver PermissionResolver, perms ...string) func(http.Handler) http.Handler {
	guard := RequirePermission(resolver, perms...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctxUID, _ := utils.GetString(r.Context(), CtxUserID)
			if ctxUID != "" && chi.URLParam(r, "id") == ctxUID {
				next.ServeHTTP(w, r)
				return
			}
			guard(next).ServeHTTP(w, r)
		})
	}
}
