package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salon/logging"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "info", "json")

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.FromContext(r.Context()).Info("inside")
		w.WriteHeader(http.StatusNotFound)
	})
	h := chimiddleware.RequestID(RequestLogger(logger)(inner))

	req := httptest.NewRequest(http.MethodGet, "/debts/history/unknown", nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "req-7")
	h.ServeHTTP(httptest.NewRecorder(), req)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var inside, done map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &inside))
	require.NoError(t, json.Unmarshal(lines[1], &done))

	assert.Equal(t, "req-7", inside["request_id"])
	assert.Equal(t, "request completed", done["msg"])
	assert.Equal(t, float64(http.StatusNotFound), done["status"])
	assert.Equal(t, "warning", done["level"])
	assert.Equal(t, "/debts/history/unknown", done["path"])
}
