package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"reportdesk/internal/repository"
	"reportdesk/internal/utils"

	"github.com/go-chi/chi/v5"
)

// RefDataHTTP serves one reference-data collection; categories and
// locations get separate instances.
type RefDataHTTP struct {
	repo repository.RefDataRepository
}

func NewRefDataHTTP(repo repository.RefDataRepository) *RefDataHTTP {
	return &RefDataHTTP{repo: repo}
}

func (h *RefDataHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := h.repo.List(r.Context())
		if err != nil {
			fail(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, entries)
	}
}

func (h *RefDataHTTP) Create() http.HandlerFunc {
	type inDTO struct {
		Name     string `json:"name"`
		ParentID string `json:"parentId"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		in.Name = strings.TrimSpace(in.Name)
		if in.Name == "" {
			utils.Error(w, http.StatusBadRequest, "name is required")
			return
		}
		e, err := h.repo.Create(r.Context(), in.Name, in.ParentID)
		if err != nil {
			fail(w, r, err)
			return
		}
		utils.JSON(w, http.StatusCreated, e)
	}
}

func (h *RefDataHTTP) Update() http.HandlerFunc {
	type inDTO struct {
		Name string `json:"name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || strings.TrimSpace(in.Name) == "" {
			utils.Error(w, http.StatusBadRequest, "name is required")
			return
		}
		e, err := h.repo.Update(r.Context(), chi.URLParam(r, "id"), strings.TrimSpace(in.Name))
		if err != nil {
			fail(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, e)
	}
}

func (h *RefDataHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			fail(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
