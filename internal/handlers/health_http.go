package handlers

import (
	"context"
	"net/http"
	"time"

	"reportdesk/internal/utils"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Health reports liveness plus database reachability.
func Health(db pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			utils.Error(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
