package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"reportdesk/internal/middleware"
	"reportdesk/internal/repository"
	"reportdesk/internal/service"
	"reportdesk/internal/utils"

	"github.com/go-chi/chi/v5"
)

type UserHTTP struct {
	repo  repository.UserRepository
	roles *service.RoleService
	auth  *service.AuthService
}

func NewUserHTTP(repo repository.UserRepository, roles *service.RoleService, auth *service.AuthService) *UserHTTP {
	return &UserHTTP{repo: repo, roles: roles, auth: auth}
}

// GET /api/users?q=&role=&includeDeleted=&limit=&offset=
func (h *UserHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qv := r.URL.Query()
		includeDeleted, _ := strconv.ParseBool(qv.Get("includeDeleted"))
		limit := utils.QueryInt(qv, "limit", 20)
		offset := utils.QueryInt(qv, "offset", 0)

		users, total, err := h.repo.List(r.Context(), qv.Get("q"), qv.Get("role"), includeDeleted, limit, offset)
		if err != nil {
			fail(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"items": users, "total": total})
	}
}

// GET /api/users/{id}
func (h *UserHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		u, err := h.repo.GetByID(r.Context(), id)
		if err != nil {
			fail(w, r, err)
			return
		}
		if u == nil {
			utils.Error(w, http.StatusNotFound, "user not found")
			return
		}
		links, err := h.roles.RolesForUser(r.Context(), id)
		if err != nil {
			fail(w, r, err)
			return
		}
		u.Roles = links
		utils.JSON(w, http.StatusOK, u)
	}
}

// PATCH /api/users/{id}
func (h *UserHTTP) Update() http.HandlerFunc {
	type inDTO struct {
		Name *string `json:"name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if in.Name == nil || *in.Name == "" {
			utils.Error(w, http.StatusBadRequest, "name is required")
			return
		}
		u, err := h.repo.UpdateBasic(r.Context(), id, *in.Name)
		if err != nil {
			fail(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, u)
	}
}

// PUT /api/users/{id}/roles
// Replaces the user's whole role assignment: one primary, any additionals.
func (h *UserHTTP) ReplaceRoles() http.HandlerFunc {
	type inDTO struct {
		Primary    string   `json:"primary"`
		Additional []string `json:"additional"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if err := h.roles.ReplaceUserRoles(r.Context(), id, in.Primary, in.Additional); err != nil {
			fail(w, r, err)
			return
		}
		links, err := h.roles.RolesForUser(r.Context(), id)
		if err != nil {
			fail(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, links)
	}
}

// PATCH /api/users/{id}/password
// Self-service or MANAGE_USERS; the route guard decides which.
func (h *UserHTTP) UpdatePassword() http.HandlerFunc {
	type inDTO struct {
		Password string `json:"password"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Password == "" {
			utils.Error(w, http.StatusBadRequest, "password is required")
			return
		}
		if err := h.auth.ChangePassword(r.Context(), id, in.Password); err != nil {
			fail(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// DELETE /api/users/{id} soft-deletes only.
func (h *UserHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if uid, _ := utils.GetString(r.Context(), middleware.CtxUserID); uid == id {
			utils.Error(w, http.StatusConflict, "cannot delete your own account")
			return
		}
		if err := h.repo.SoftDelete(r.Context(), id); err != nil {
			fail(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
