package handlers

import (
	"net/http"
	"time"

	"reportdesk/internal/middleware"
	"reportdesk/internal/models"
	"reportdesk/internal/permissions"
	"reportdesk/internal/repository"
	"reportdesk/internal/utils"
)

type StatsHTTP struct {
	tickets repository.WorkItemRepository
	reports repository.WorkItemRepository
}

func NewStatsHTTP(tickets, reports repository.WorkItemRepository) *StatsHTTP {
	return &StatsHTTP{tickets: tickets, reports: reports}
}

// GET /api/stats/summary
// Returns { tickets: {...}, reports: {...} } with open / resolved7d /
// highCriticalOpen counters per work-item kind. Each block is only
// present when the caller holds that kind's view permission.
func (h *StatsHTTP) Summary() http.HandlerFunc {
	closed := []string{models.StatusResolved, models.StatusClosed}
	highCrit := []string{models.PriorityHigh, models.PriorityCritical}

	counters := func(r *http.Request, repo repository.WorkItemRepository) (map[string]int, error) {
		open, err := repo.CountByStatus(r.Context(), closed, false)
		if err != nil {
			return nil, err
		}
		resolved7d, err := repo.CountResolvedSince(r.Context(), time.Now().Add(-7*24*time.Hour))
		if err != nil {
			return nil, err
		}
		highCritOpen, err := repo.CountOpenByPriorities(r.Context(), highCrit)
		if err != nil {
			return nil, err
		}
		return map[string]int{
			"open":             open,
			"resolved7d":       resolved7d,
			"highCriticalOpen": highCritOpen,
		}, nil
	}

	return func(w http.ResponseWriter, r *http.Request) {
		out := map[string]any{}
		if middleware.HasPermission(r.Context(), permissions.ViewTickets) {
			tc, err := counters(r, h.tickets)
			if err != nil {
				fail(w, r, err)
				return
			}
			out["tickets"] = tc
		}
		if middleware.HasPermission(r.Context(), permissions.ViewReports) {
			rc, err := counters(r, h.reports)
			if err != nil {
				fail(w, r, err)
				return
			}
			out["reports"] = rc
		}
		utils.JSON(w, http.StatusOK, out)
	}
}
