package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "github.com/dmitrymomot/prodigypm/pkg/httpserver"
)

func TestHealthCheckHandler(t *testing.T) {
	t.Parallel()
	log := slog.New(slog.DiscardHandler)

	tests := []struct {
		name     string
		funcs    []func(context.Context) error
		wantCode int
		wantBody string
	}{
		{name: "liveness", wantCode: http.StatusOK, wantBody: "ALIVE"},
		{
			name:     "ready",
			funcs:    []func(context.Context) error{func(context.Context) error { return nil }},
			wantCode: http.StatusOK,
			wantBody: "READY",
		},
		{
			name: "not ready",
			funcs: []func(context.Context) error{
				func(context.Context) error { return nil },
				func(context.Context) error { return errors.New("mongo is not connected") },
			},
			wantCode: http.StatusServiceUnavailable,
			wantBody: "NOT_READY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			httpserver.HealthCheckHandler(log, tt.funcs...).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestHealthCheckHandlerUsesRequestContext(t *testing.T) {
	t.Parallel()

	type key struct{}
	var got any
	h := httpserver.HealthCheckHandler(slog.New(slog.DiscardHandler), func(ctx context.Context) error {
		got = ctx.Value(key{})
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req = req.WithContext(context.WithValue(req.Context(), key{}, "req"))
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "req", got)
}

func TestStatusHandler(t *testing.T) {
	t.Parallel()

	type status struct {
		State string `json:"state"`
	}

	t.Run("healthy", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		httpserver.StatusHandler(func() (status, bool) {
			return status{State: "connected"}, true
		}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/db", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		var body status
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "connected", body.State)
	})

	t.Run("unhealthy", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		httpserver.StatusHandler(func() (status, bool) {
			return status{State: "disconnected"}, false
		}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/db", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
