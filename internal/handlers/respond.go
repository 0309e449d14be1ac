package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"reportdesk/internal/apperr"
	"reportdesk/internal/utils"
)

// fail maps a service/store error onto the taxonomy's status code.
// 5xx errors are also logged server-side, since the client envelope
// only carries the message.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	utils.Error(w, status, err.Error())
}
