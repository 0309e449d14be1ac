package handlers

import (
	"encoding/json"
	"net/http"

	"reportdesk/internal/permissions"
	"reportdesk/internal/service"
	"reportdesk/internal/utils"

	"github.com/go-chi/chi/v5"
)

type RoleHTTP struct {
	svc *service.RoleService
}

func NewRoleHTTP(svc *service.RoleService) *RoleHTTP { return &RoleHTTP{svc: svc} }

// GET /api/permissions returns the static catalog.
func (h *RoleHTTP) ListPermissions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.JSON(w, http.StatusOK, permissions.All())
	}
}

// GET /api/roles
func (h *RoleHTTP) ListRoles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roles, err := h.svc.ListRoles(r.Context())
		if err != nil {
			fail(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, roles)
	}
}

// POST /api/roles
func (h *RoleHTTP) CreateRole() http.HandlerFunc {
	type inDTO struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		role, err := h.svc.CreateRole(r.Context(), in.Name, in.Description)
		if err != nil {
			fail(w, r, err)
			return
		}
		utils.JSON(w, http.StatusCreated, role)
	}
}

// GET /api/roles/{name}/permissions
func (h *RoleHTTP) GetRolePermissions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		perms, err := h.svc.GetPermissionsForRole(r.Context(), chi.URLParam(r, "name"))
		if err != nil {
			fail(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, perms)
	}
}

// PUT /api/roles/{name}/permissions replaces the whole set, all-or-nothing.
func (h *RoleHTTP) SetRolePermissions() http.HandlerFunc {
	type inDTO struct {
		Permissions []string `json:"permissions"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if err := h.svc.SetPermissionsForRole(r.Context(), name, in.Permissions); err != nil {
			fail(w, r, err)
			return
		}
		perms, err := h.svc.GetPermissionsForRole(r.Context(), name)
		if err != nil {
			fail(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, perms)
	}
}

// POST /api/roles/{name}/reset restores the catalog defaults.
func (h *RoleHTTP) ResetRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if err := h.svc.ResetRoleToDefault(r.Context(), name); err != nil {
			fail(w, r, err)
			return
		}
		perms, err := h.svc.GetPermissionsForRole(r.Context(), name)
		if err != nil {
			fail(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, perms)
	}
}
