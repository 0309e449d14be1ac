package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"reportdesk/internal/apperr"
)

func TestFailLogsInternalErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := zerolog.New(&buf)
	r := httptest.NewRequest(http.MethodGet, "/api/tickets", nil)
	r = r.WithContext(l.WithContext(r.Context()))
	w := httptest.NewRecorder()

	fail(w, r, apperr.New(apperr.Internal, "pool exhausted"))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	logged := buf.String()
	if !strings.Contains(logged, "pool exhausted") || !strings.Contains(logged, "/api/tickets") {
		t.Errorf("server log missing error detail: %q", logged)
	}
}

func TestFailStaysQuietOnClientErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := zerolog.New(&buf)
	r := httptest.NewRequest(http.MethodPost, "/api/views", nil)
	r = r.WithContext(l.WithContext(r.Context()))
	w := httptest.NewRecorder()

	fail(w, r, apperr.New(apperr.Validation, "name is required"))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if buf.Len() != 0 {
		t.Errorf("client error logged server-side: %q", buf.String())
	}
}
