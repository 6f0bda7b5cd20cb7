package app_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"foodgram/internal/app"
	"foodgram/internal/config"
	"foodgram/internal/database/dbtest"
	"foodgram/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthAndOperationalEndpoints(t *testing.T) {
	logging.Discard()

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test_jwt_secret"
	cfg.ShortLink.Length = 6
	cfg.ShortLink.MaxAttempts = 5
	fiberApp, authService := app.NewApp(cfg, dbtest.Open(t), nil)
	require.NotNil(t, authService)

	t.Run("HealthCheck", func(t *testing.T) {
		resp, err := fiberApp.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "connected", body["database"])
		assert.Equal(t, false, body["events"])
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	})

	t.Run("Metrics", func(t *testing.T) {
		resp, err := fiberApp.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(data), "foodgram_http_request_duration_seconds")
	})

	t.Run("UnknownRoute", func(t *testing.T) {
		resp, err := fiberApp.Test(httptest.NewRequest(http.MethodGet, "/api/nowhere", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "http_error", body["reason"])
	})

	t.Run("UnauthenticatedAccess", func(t *testing.T) {
		resp, err := fiberApp.Test(httptest.NewRequest(http.MethodGet, "/api/users/me", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
