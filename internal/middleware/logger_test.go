package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRequestLoggerPutsLoggerInContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := zerolog.New(&buf)

	var inner *zerolog.Logger
	h := RequestLogger(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = zerolog.Ctx(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tickets", nil))

	if inner == nil || inner.GetLevel() == zerolog.Disabled {
		t.Fatal("handler context carries no usable logger")
	}
	inner.Info().Msg("from handler")
	if !strings.Contains(buf.String(), "from handler") {
		t.Errorf("handler log entry not written: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "418") {
		t.Errorf("access log missing status: %q", buf.String())
	}
}
