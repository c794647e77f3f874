package api

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverJSON(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("panic becomes generic 500", func(t *testing.T) {
		handler := recoverJSON(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("store row scan: unexpected column count")
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/webhooks", nil))

		resp := rec.Result()
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
		assert.JSONEq(t, `{"detail": "Internal server error"}`, string(raw))
		// The panic message stays in the log, never in the response
		assert.NotContains(t, string(raw), "unexpected column count")
	})

	t.Run("no panic passes through untouched", func(t *testing.T) {
		handler := recoverJSON(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNoContent, rec.Result().StatusCode)
	})

	t.Run("ErrAbortHandler is re-raised for the server", func(t *testing.T) {
		handler := recoverJSON(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic(http.ErrAbortHandler)
		}))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			handler.ServeHTTP(rec, req)
		})
	})
}
