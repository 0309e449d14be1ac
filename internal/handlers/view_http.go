package handlers

import (
	"encoding/json"
	"net/http"

	"reportdesk/internal/middleware"
	"reportdesk/internal/models"
	"reportdesk/internal/service"
	"reportdesk/internal/utils"

	"github.com/go-chi/chi/v5"
)

type ViewHTTP struct {
	svc *service.ViewService
}

func NewViewHTTP(svc *service.ViewService) *ViewHTTP { return &ViewHTTP{svc: svc} }

// GET /api/views?type=REPORT|TICKET
func (h *ViewHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		vt := models.ItemKind(r.URL.Query().Get("type"))
		if vt != models.KindReport && vt != models.KindTicket {
			utils.Error(w, http.StatusBadRequest, "type must be REPORT or TICKET")
			return
		}
		views, err := h.svc.ListForUser(r.Context(), uid, vt)
		if err != nil {
			fail(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, views)
	}
}

// POST /api/views
func (h *ViewHTTP) Create() http.HandlerFunc {
	type inDTO struct {
		Name      string         `json:"name"`
		ViewType  string         `json:"viewType"`
		Filters   map[string]any `json:"filters"`
		IsDefault bool           `json:"isDefault"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		v, err := h.svc.Create(r.Context(), uid, in.Name, models.ItemKind(in.ViewType), in.Filters, in.IsDefault)
		if err != nil {
			fail(w, r, err)
			return
		}
		utils.JSON(w, http.StatusCreated, v)
	}
}

// PATCH /api/views/{id}
func (h *ViewHTTP) Update() http.HandlerFunc {
	type inDTO struct {
		Name    string         `json:"name"`
		Filters map[string]any `json:"filters"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		v, err := h.svc.Update(r.Context(), uid, chi.URLParam(r, "id"), in.Name, in.Filters)
		if err != nil {
			fail(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, v)
	}
}

// DELETE /api/views/{id}
func (h *ViewHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		if err := h.svc.Delete(r.Context(), uid, chi.URLParam(r, "id")); err != nil {
			fail(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /api/views/{id}/default
func (h *ViewHTTP) SetDefault() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		if err := h.svc.SetDefault(r.Context(), uid, chi.URLParam(r, "id")); err != nil {
			fail(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
