package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"reportdesk/internal/middleware"
	"reportdesk/internal/models"
	"reportdesk/internal/repository"
	"reportdesk/internal/service"
	"reportdesk/internal/utils"

	"github.com/go-chi/chi/v5"
)

// ItemHTTP wires HTTP endpoints to one work-item repository; the same
// handler set serves /api/tickets and /api/reports with different wiring.
type ItemHTTP struct {
	items    repository.WorkItemRepository
	notifier *service.Notifier
	seq      *service.SequenceService

	seqModel  string
	seqPrefix string
	viewPerm  string
	kindLabel string
}

func NewTicketHTTP(items repository.WorkItemRepository, notifier *service.Notifier, seq *service.SequenceService, viewPerm string) *ItemHTTP {
	return &ItemHTTP{
		items: items, notifier: notifier, seq: seq,
		seqModel: service.SeqModelTicket, seqPrefix: service.PrefixTicket,
		viewPerm: viewPerm, kindLabel: "ticket",
	}
}

func NewReportHTTP(items repository.WorkItemRepository, notifier *service.Notifier, seq *service.SequenceService, viewPerm string) *ItemHTTP {
	return &ItemHTTP{
		items: items, notifier: notifier, seq: seq,
		seqModel: service.SeqModelReport, seqPrefix: service.PrefixReport,
		viewPerm: viewPerm, kindLabel: "report",
	}
}

func splitCSV(s string) []string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GET /api/{kind}?q=&status=&priority=&category=&location=&assignee=&creator=&from=&to=&sort=&order=&limit=&offset=
// Callers without the VIEW permission only see their own items.
func (h *ItemHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qv := r.URL.Query()
		f := repository.WorkItemFilter{
			Search:      strings.TrimSpace(qv.Get("q")),
			Status:      splitCSV(qv.Get("status")),
			Priority:    splitCSV(qv.Get("priority")),
			CategoryIDs: splitCSV(qv.Get("category")),
			LocationIDs: splitCSV(qv.Get("location")),
			AssigneeIDs: splitCSV(qv.Get("assignee")),
			CreatorIDs:  splitCSV(qv.Get("creator")),
			DateFrom:    qv.Get("from"),
			DateTo:      qv.Get("to"),
			Limit:       utils.QueryInt(qv, "limit", 10),
			Offset:      utils.QueryInt(qv, "offset", 0),
			Sort:        qv.Get("sort"),
			Order:       qv.Get("order"),
		}

		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		if !middleware.HasPermission(r.Context(), h.viewPerm) {
			f.CreatorIDs = []string{uid}
		}

		items, total, err := h.items.List(r.Context(), f)
		if err != nil {
			fail(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"items": items, "total": total})
	}
}

// GET /api/{kind}/{id}
func (h *ItemHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		t, err := h.items.Get(r.Context(), id)
		if err != nil {
			fail(w, r, err)
			return
		}
		if t == nil {
			utils.Error(w, http.StatusNotFound, "not found")
			return
		}
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		if !middleware.HasPermission(r.Context(), h.viewPerm) && t.CreatedBy != uid {
			utils.Error(w, http.StatusForbidden, "forbidden")
			return
		}
		utils.JSON(w, http.StatusOK, t)
	}
}

// POST /api/{kind}
func (h *ItemHTTP) Create() http.HandlerFunc {
	type inDTO struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Priority    string `json:"priority"`
		CategoryID  string `json:"categoryId"`
		LocationID  string `json:"locationId"`
		AssigneeID  string `json:"assigneeId"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		in.Title = strings.TrimSpace(in.Title)
		if in.Title == "" {
			utils.Error(w, http.StatusBadRequest, "title is required")
			return
		}
		if in.Priority == "" {
			in.Priority = models.PriorityMedium
		}
		if !models.ValidPriority(in.Priority) {
			utils.Error(w, http.StatusBadRequest, "invalid priority")
			return
		}

		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)

		humanID, err := h.seq.Next(r.Context(), h.seqModel, h.seqPrefix, time.Now())
		if err != nil {
			fail(w, r, err)
			return
		}

		t := &models.WorkItem{
			HumanID:     humanID,
			Title:       in.Title,
			Description: strings.TrimSpace(in.Description),
			Status:      models.StatusPending,
			Priority:    in.Priority,
			CategoryID:  strings.TrimSpace(in.CategoryID),
			LocationID:  strings.TrimSpace(in.LocationID),
			AssigneeID:  strings.TrimSpace(in.AssigneeID),
			CreatedBy:   uid,
		}
		if err := h.items.Create(r.Context(), t); err != nil {
			fail(w, r, err)
			return
		}

		if err := h.notifier.NotifyAssignment(r.Context(), t.AssigneeID, t); err != nil {
			fail(w, r, err)
			return
		}
		utils.JSON(w, http.StatusCreated, t)
	}
}

// PATCH /api/{kind}/{id} updates only the provided fields.
func (h *ItemHTTP) Update() http.HandlerFunc {
	type inDTO struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Status      *string `json:"status"`
		Priority    *string `json:"priority"`
		CategoryID  *string `json:"categoryId"`
		LocationID  *string `json:"locationId"`
		AssigneeID  *string `json:"assigneeId"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		t, err := h.items.Get(r.Context(), id)
		if err != nil {
			fail(w, r, err)
			return
		}
		if t == nil {
			utils.Error(w, http.StatusNotFound, "not found")
			return
		}

		prevStatus, prevAssignee := t.Status, t.AssigneeID

		if in.Title != nil {
			if s := strings.TrimSpace(*in.Title); s != "" {
				t.Title = s
			}
		}
		if in.Description != nil {
			t.Description = strings.TrimSpace(*in.Description)
		}
		if in.Status != nil {
			if !models.ValidStatus(*in.Status) {
				utils.Error(w, http.StatusBadRequest, "invalid status")
				return
			}
			t.Status = *in.Status
		}
		if in.Priority != nil {
			if !models.ValidPriority(*in.Priority) {
				utils.Error(w, http.StatusBadRequest, "invalid priority")
				return
			}
			t.Priority = *in.Priority
		}
		if in.CategoryID != nil {
			t.CategoryID = strings.TrimSpace(*in.CategoryID)
		}
		if in.LocationID != nil {
			t.LocationID = strings.TrimSpace(*in.LocationID)
		}
		if in.AssigneeID != nil {
			t.AssigneeID = strings.TrimSpace(*in.AssigneeID)
		}

		if err := h.items.Update(r.Context(), t); err != nil {
			fail(w, r, err)
			return
		}

		if t.AssigneeID != "" && t.AssigneeID != prevAssignee {
			if err := h.notifier.NotifyAssignment(r.Context(), t.AssigneeID, t); err != nil {
				fail(w, r, err)
				return
			}
		}
		if t.Status != prevStatus {
			if err := h.notifier.NotifyStatusChange(r.Context(), t); err != nil {
				fail(w, r, err)
				return
			}
		}

		// Re-read so assignee name/email come back populated via the join.
		updated, err := h.items.Get(r.Context(), id)
		if err != nil {
			fail(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, updated)
	}
}

// DELETE /api/{kind}/{id} cascades comments, attachments, notifications.
func (h *ItemHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.items.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			fail(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /api/{kind}/{id}/comments
func (h *ItemHTTP) AddComment() http.HandlerFunc {
	type inDTO struct {
		Text string `json:"text"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		in.Text = strings.TrimSpace(in.Text)
		if in.Text == "" {
			utils.Error(w, http.StatusBadRequest, "text is required")
			return
		}

		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		if _, err := h.items.AddComment(r.Context(), id, uid, in.Text); err != nil {
			fail(w, r, err)
			return
		}
		t, err := h.items.Get(r.Context(), id)
		if err != nil {
			fail(w, r, err)
			return
		}
		if t == nil {
			utils.Error(w, http.StatusNotFound, "not found")
			return
		}
		utils.JSON(w, http.StatusOK, t)
	}
}

// POST /api/{kind}/{id}/attachments records a file already uploaded via /api/uploads.
func (h *ItemHTTP) AddAttachment() http.HandlerFunc {
	type inDTO struct {
		FileName string `json:"fileName"`
		URL      string `json:"url"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.FileName == "" || in.URL == "" {
			utils.Error(w, http.StatusBadRequest, "fileName and url are required")
			return
		}
		a, err := h.items.AddAttachment(r.Context(), id, in.FileName, in.URL)
		if err != nil {
			fail(w, r, err)
			return
		}
		utils.JSON(w, http.StatusCreated, a)
	}
}
