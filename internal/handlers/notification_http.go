package handlers

import (
	"net/http"
	"strconv"

	"reportdesk/internal/middleware"
	"reportdesk/internal/repository"
	"reportdesk/internal/utils"

	"github.com/go-chi/chi/v5"
)

type NotificationHTTP struct {
	repo repository.NotificationRepository
}

func NewNotificationHTTP(repo repository.NotificationRepository) *NotificationHTTP {
	return &NotificationHTTP{repo: repo}
}

// GET /api/notifications?unread=&limit=&offset=
func (h *NotificationHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		qv := r.URL.Query()
		unread, _ := strconv.ParseBool(qv.Get("unread"))
		items, total, err := h.repo.ListForUser(r.Context(), uid, unread,
			utils.QueryInt(qv, "limit", 20), utils.QueryInt(qv, "offset", 0))
		if err != nil {
			fail(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"items": items, "total": total})
	}
}

// PATCH /api/notifications/{id}/read
func (h *NotificationHTTP) MarkRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		if err := h.repo.MarkRead(r.Context(), chi.URLParam(r, "id"), uid); err != nil {
			fail(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// POST /api/notifications/read-all
func (h *NotificationHTTP) MarkAllRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		if err := h.repo.MarkAllRead(r.Context(), uid); err != nil {
			fail(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
