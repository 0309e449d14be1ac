package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"reportdesk/internal/middleware"
	"reportdesk/internal/models"
	"reportdesk/internal/repository"
	"reportdesk/internal/service"
	"reportdesk/internal/utils"
)

// IdentityVerifier validates an external identity provider's token. The
// OIDC handshake happens outside this service; we only consume its result.
type IdentityVerifier interface {
	Verify(ctx context.Context, rawToken string) (service.OIDCIdentity, error)
}

type AuthHTTP struct {
	svc      *service.AuthService
	users    repository.UserRepository
	roles    repository.RoleRepository
	verifier IdentityVerifier
}

func NewAuthHTTP(s *service.AuthService, users repository.UserRepository, roles repository.RoleRepository, verifier IdentityVerifier) *AuthHTTP {
	return &AuthHTTP{svc: s, users: users, roles: roles, verifier: verifier}
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(24 * time.Hour),
	})
}

func publicProfile(u *models.User) map[string]any {
	return map[string]any{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"role":      u.Role,
		"roles":     u.Roles,
		"createdAt": u.CreatedAt,
		"updatedAt": u.UpdatedAt,
	}
}

func (h *AuthHTTP) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Email    string `json:"email"`
			Name     string `json:"name"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		u, err := h.svc.Register(r.Context(), in.Email, in.Name, in.Password)
		if err != nil {
			fail(w, r, err)
			return
		}
		utils.JSON(w, http.StatusCreated, publicProfile(u))
	}
}

func (h *AuthHTTP) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		token, u, err := h.svc.Login(r.Context(), in.Email, in.Password)
		if err != nil {
			utils.Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		setSessionCookie(w, token)
		utils.JSON(w, http.StatusOK, publicProfile(u))
	}
}

// LoginOIDC exchanges a provider token (already issued by the external
// handshake) for a session.
func (h *AuthHTTP) LoginOIDC() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.verifier == nil {
			utils.Error(w, http.StatusNotFound, "oidc login not configured")
			return
		}
		var in struct {
			IDToken string `json:"idToken"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.IDToken == "" {
			utils.Error(w, http.StatusBadRequest, "idToken is required")
			return
		}

		id, err := h.verifier.Verify(r.Context(), in.IDToken)
		if err != nil {
			utils.Error(w, http.StatusUnauthorized, "invalid identity token")
			return
		}

		token, u, err := h.svc.LoginOIDC(r.Context(), id)
		if err != nil {
			fail(w, r, err)
			return
		}
		setSessionCookie(w, token)
		utils.JSON(w, http.StatusOK, publicProfile(u))
	}
}

func (h *AuthHTTP) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     "session",
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *AuthHTTP) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := utils.GetString(r.Context(), middleware.CtxUserID)
		if !ok || uid == "" {
			utils.Error(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		u, err := h.users.GetByID(r.Context(), uid)
		if err != nil || u == nil || !u.Active() {
			utils.Error(w, http.StatusNotFound, "user not found")
			return
		}
		links, err := h.roles.RolesForUser(r.Context(), uid)
		if err != nil {
			fail(w, r, err)
			return
		}
		u.Roles = links
		utils.JSON(w, http.StatusOK, publicProfile(u))
	}
}
