package middleware

import (
	"context"
	"net/http"
	"strings"

	"reportdesk/internal/config"
	"reportdesk/internal/utils"

	"github.com/rs/zerolog"
)

type ctxKey string

const (
	CtxUserID      ctxKey = "uid"
	CtxRole        ctxKey = "role"
	CtxRoles       ctxKey = "roles"
	CtxPermissions ctxKey = "permissions"
)

// RolesFromContext returns the caller's role names (primary first).
func RolesFromContext(ctx context.Context) []string {
	roles, _ := ctx.Value(CtxRoles).([]string)
	return roles
}

// PermissionsFromContext returns the permission set attached by the guard.
func PermissionsFromContext(ctx context.Context) map[string]struct{} {
	perms, _ := ctx.Value(CtxPermissions).(map[string]struct{})
	return perms
}

// WithAuth decodes the session credential (cookie "session" or
// Authorization: Bearer) and attaches the caller's identity to the context.
// Requests without a valid credential pass through unauthenticated; the
// guard decides admission.
func WithAuth(log zerolog.Logger, cfg config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tok string
			if c, err := r.Cookie("session"); err == nil {
				tok = c.Value
			} else if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				tok = strings.TrimPrefix(h, "Bearer ")
			}

			if tok == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := utils.ParseJWT(cfg.SessionSecret, tok)
			if err != nil {
				// Clear a broken/expired cookie so it stops being sent.
				http.SetCookie(w, &http.Cookie{
					Name:     "session",
					Value:    "",
					Path:     "/",
					HttpOnly: true,
					MaxAge:   -1,
				})
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), CtxUserID, claims.UserID)
			ctx = context.WithValue(ctx, CtxRole, claims.Role)
			ctx = context.WithValue(ctx, CtxRoles, claims.Roles())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth blocks when no user is present in context (set by WithAuth).
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := utils.GetString(r.Context(), CtxUserID)
		if !ok || uid == "" {
			utils.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
